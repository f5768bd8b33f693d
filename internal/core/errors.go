package core

import "github.com/juju/errors"

// Error kinds surfaced while building tables, grids and runs. Every error
// returned by this module wraps exactly one of these so callers can test the
// cause with errors.Is.
const (
	// ErrInvalidConfiguration reports parameters that cannot describe a run,
	// such as zero states or a forced tiled mode on non-divisible dimensions.
	ErrInvalidConfiguration = errors.ConstError("invalid configuration")
	// ErrMalformedRuleFile reports a rule map file whose size or content does
	// not match the declared states and horizon.
	ErrMalformedRuleFile = errors.ConstError("malformed rule file")
	// ErrInvalidRule reports a table entry or identifier digit outside [0, S).
	ErrInvalidRule = errors.ConstError("invalid rule")
	// ErrPatternOutOfBounds reports a pattern override outside the grid.
	ErrPatternOutOfBounds = errors.ConstError("pattern out of bounds")
)
