package rule

import (
	"math/big"
	"strings"

	"github.com/juju/errors"

	"caspace/internal/core"
)

// maxTextBase is the largest base math/big can format and parse as text.
const maxTextBase = 62

// Decode interprets id as a base-S numeral whose digit i, least significant
// first, is the successor of configuration i. Missing high digits are
// state 0. For a symmetric space digit j instead sets every configuration
// of class j.
func Decode(id *big.Int, sp Space) (*Table, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if id == nil || id.Sign() < 0 {
		return nil, errors.Annotatef(core.ErrInvalidRule, "identifier must be a non-negative integer")
	}
	part, err := Classes(sp)
	if err != nil {
		return nil, errors.Trace(err)
	}
	n := sp.TableSize()
	if part != nil {
		n = part.Count
	}
	digits, err := toDigits(id, sp.States, n)
	if err != nil {
		return nil, errors.Annotatef(err, "decoding identifier for %v", sp)
	}
	return fromClassValues(sp, part, digits), nil
}

// Encode returns the identifier of t. It is the inverse of Decode for the
// table's own space.
func Encode(t *Table) *big.Int {
	part, err := Classes(t.space)
	if err != nil {
		// A table is only ever built from a validated space.
		panic(err)
	}
	digits := t.entries
	if part != nil {
		digits = make([]uint8, part.Count)
		for i, c := range part.Class {
			digits[c] = t.entries[i]
		}
	}
	return fromDigits(digits, t.space.States)
}

// DigitCount returns the number of base-S digits an identifier of sp has.
func DigitCount(sp Space) (int, error) {
	part, err := Classes(sp)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if part != nil {
		return part.Count, nil
	}
	return sp.TableSize(), nil
}

// ParseIdentifier parses the decimal text form of a rule identifier.
func ParseIdentifier(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 {
		return nil, errors.Annotatef(core.ErrInvalidRule, "identifier %q is not a non-negative decimal integer", abbreviate(s))
	}
	return id, nil
}

// FormatIdentifier returns the decimal text form of id.
func FormatIdentifier(id *big.Int) string { return id.Text(10) }

// toDigits returns the n least significant base-b digits of id, least
// significant first.
func toDigits(id *big.Int, base, n int) ([]uint8, error) {
	out := make([]uint8, n)
	if base <= maxTextBase {
		s := id.Text(base)
		if s == "0" {
			return out, nil
		}
		if len(s) > n {
			return nil, errors.Annotatef(core.ErrInvalidRule, "identifier has %d base-%d digits, space allows %d", len(s), base, n)
		}
		for i := 0; i < len(s); i++ {
			out[i] = digitValue(s[len(s)-1-i])
		}
		return out, nil
	}
	q := new(big.Int).Set(id)
	b := big.NewInt(int64(base))
	m := new(big.Int)
	for i := 0; i < n && q.Sign() > 0; i++ {
		q.QuoRem(q, b, m)
		out[i] = uint8(m.Int64())
	}
	if q.Sign() != 0 {
		return nil, errors.Annotatef(core.ErrInvalidRule, "identifier exceeds %d base-%d digits", n, base)
	}
	return out, nil
}

// fromDigits is the inverse of toDigits.
func fromDigits(digits []uint8, base int) *big.Int {
	top := len(digits)
	for top > 0 && digits[top-1] == 0 {
		top--
	}
	if top == 0 {
		return new(big.Int)
	}
	if base <= maxTextBase {
		var sb strings.Builder
		sb.Grow(top)
		for i := top - 1; i >= 0; i-- {
			sb.WriteByte(digitChar(digits[i]))
		}
		id, ok := new(big.Int).SetString(sb.String(), base)
		if !ok {
			panic("rule: cannot parse generated digits")
		}
		return id
	}
	id := new(big.Int)
	b := big.NewInt(int64(base))
	d := new(big.Int)
	for i := top - 1; i >= 0; i-- {
		id.Mul(id, b)
		id.Add(id, d.SetInt64(int64(digits[i])))
	}
	return id
}

// digitValue and digitChar follow math/big's text digits: 0-9, then a-z for
// 10..35, then A-Z for 36..61.
func digitValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'z':
		return c - 'a' + 10
	default:
		return c - 'A' + 36
	}
}

func digitChar(d uint8) byte {
	switch {
	case d < 10:
		return '0' + d
	case d < 36:
		return 'a' + d - 10
	default:
		return 'A' + d - 36
	}
}

func abbreviate(s string) string {
	if len(s) <= 32 {
		return s
	}
	return s[:29] + "..."
}
