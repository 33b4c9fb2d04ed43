package grm

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result is the status code returned alongside an error by resource operations
type Result int32

const (
	ResultOK Result = 0
	// ResultInvalidCall indicates a contract violation: a bad pool/usage combination, a double map,
	// a misaligned map box, or a backend failure while producing a mapping
	ResultInvalidCall Result = -1
	// ResultOutOfMemory indicates that host memory could not be allocated
	ResultOutOfMemory Result = -2
	// ResultOutOfVideoMemory indicates that the device video memory budget is exhausted
	ResultOutOfVideoMemory Result = -3
	// ResultNotLocked indicates an unmap without a matching map
	ResultNotLocked Result = -4
)

var (
	ErrInvalidCall      = errors.New("invalid call")
	ErrOutOfMemory      = errors.New("out of memory")
	ErrOutOfVideoMemory = errors.New("out of video memory")
	ErrNotLocked        = errors.New("resource is not locked")
)

var resultMapping = make(map[Result]string)

func (r Result) String() string {
	str, ok := resultMapping[r]
	if !ok {
		return fmt.Sprintf("Result(%d)", int32(r))
	}
	return str
}

func init() {
	resultMapping[ResultOK] = "ResultOK"
	resultMapping[ResultInvalidCall] = "ResultInvalidCall"
	resultMapping[ResultOutOfMemory] = "ResultOutOfMemory"
	resultMapping[ResultOutOfVideoMemory] = "ResultOutOfVideoMemory"
	resultMapping[ResultNotLocked] = "ResultNotLocked"
}

// ToError returns the sentinel error matching this Result, or nil for ResultOK
func (r Result) ToError() error {
	switch r {
	case ResultOK:
		return nil
	case ResultInvalidCall:
		return ErrInvalidCall
	case ResultOutOfMemory:
		return ErrOutOfMemory
	case ResultOutOfVideoMemory:
		return ErrOutOfVideoMemory
	case ResultNotLocked:
		return ErrNotLocked
	}

	return errors.Newf("unknown result %d", int32(r))
}

func resultFromError(err error) Result {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, ErrOutOfMemory):
		return ResultOutOfMemory
	case errors.Is(err, ErrOutOfVideoMemory):
		return ResultOutOfVideoMemory
	case errors.Is(err, ErrNotLocked):
		return ResultNotLocked
	}

	return ResultInvalidCall
}

func wrapResultf(res Result, format string, args ...any) error {
	return errors.Wrapf(res.ToError(), format, args...)
}
