package indicator

import (
	"errors"
	"fmt"
)

// ErrUnknownIndicator is returned by registry lookups for unregistered names.
var ErrUnknownIndicator = errors.New("unknown indicator")

// ParamError reports a malformed parameter set, detected before any
// per-candle work begins. Warm-up gaps are never errors; they are absent
// values in the output records.
type ParamError struct {
	Indicator string
	Params    []int
	Reason    string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("indicator %s: invalid params %v: %s", e.Indicator, e.Params, e.Reason)
}

// IsParamError reports whether err is (or wraps) a ParamError.
func IsParamError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe)
}
