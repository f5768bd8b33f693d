package rule

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/klauspost/compress/zlib"

	"caspace/internal/core"
)

// A map file is a zlib stream of S^k ASCII bytes, byte i being '0' plus the
// successor state of configuration i. States above 9 continue up the ASCII
// table, so the format holds at most maxMapStates states.
const maxMapStates = 256 - '0'

// LoadMapFile decodes a map file for sp. Map files always carry the full
// table; for a symmetric space the entries must respect the symmetry.
func LoadMapFile(r io.Reader, sp Space) (*Table, error) {
	if err := sp.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Annotatef(core.ErrMalformedRuleFile, "opening zlib stream: %v", err)
	}
	defer zr.Close()

	want := sp.TableSize()
	// Read one byte past the expected length to detect trailing data.
	raw, err := io.ReadAll(io.LimitReader(zr, int64(want)+1))
	if err != nil {
		return nil, errors.Annotatef(core.ErrMalformedRuleFile, "inflating: %v", err)
	}
	if len(raw) != want {
		return nil, errors.Annotatef(core.ErrMalformedRuleFile, "%d entries, %v needs %d", len(raw), sp, want)
	}
	entries := make([]uint8, want)
	for i, b := range raw {
		if b < '0' {
			return nil, errors.Annotatef(core.ErrMalformedRuleFile, "byte %d is %#x, not a state digit", i, b)
		}
		d := b - '0'
		if int(d) >= sp.States {
			return nil, fmt.Errorf("%w: %w: entry %d is state %d, not below %d",
				core.ErrMalformedRuleFile, core.ErrInvalidRule, i, d, sp.States)
		}
		entries[i] = d
	}
	t, err := FromEntries(sp, entries)
	if err != nil {
		return nil, errors.Annotate(err, "map file")
	}
	return t, nil
}

// SaveMapFile writes t in map file form.
func SaveMapFile(w io.Writer, t *Table) error {
	if t.States() > maxMapStates {
		return errors.Annotatef(core.ErrInvalidConfiguration, "map files hold at most %d states, rule has %d", maxMapStates, t.States())
	}
	raw := make([]byte, len(t.entries))
	for i, e := range t.entries {
		raw[i] = '0' + e
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return errors.Trace(err)
	}
	if err := zw.Close(); err != nil {
		return errors.Trace(err)
	}
	_, err := w.Write(buf.Bytes())
	return errors.Trace(err)
}

// ReadMapFile loads the map file at path.
func ReadMapFile(path string, sp Space) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	t, err := LoadMapFile(f, sp)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", path)
	}
	logger.Debugf("loaded %v from %s", t, path)
	return t, nil
}

// WriteMapFile saves t to path, replacing any existing file.
func WriteMapFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := SaveMapFile(f, t); err != nil {
		f.Close()
		return errors.Annotatef(err, "writing %s", path)
	}
	return errors.Trace(f.Close())
}
