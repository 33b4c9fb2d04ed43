package memutils

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

func AlignDown(value int, alignment uint) int {
	return value & int(^(alignment - 1))
}

// DivideRoundingUp returns the number of whole units of size divisor needed to cover value
func DivideRoundingUp(value, divisor int) int {
	return (value + divisor - 1) / divisor
}

// AllocateAligned returns a zeroed slice of exactly size bytes whose first byte sits on an
// alignment boundary. The slice keeps the larger backing array alive, so no separate handle
// is needed to free it.
func AllocateAligned(size int, alignment uint) ([]byte, error) {
	if size < 0 {
		return nil, cerrors.Newf("attempted to allocate %d bytes", size)
	}
	err := CheckPow2(alignment, "alignment")
	if err != nil {
		return nil, err
	}

	raw := make([]byte, size+int(alignment)-1)
	if len(raw) == 0 {
		return raw, nil
	}

	address := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	offset := int((uintptr(alignment) - address%uintptr(alignment)) % uintptr(alignment))

	return raw[offset : offset+size : offset+size], nil
}

// IsAligned reports whether the first byte of data sits on an alignment boundary
func IsAligned(data []byte, alignment uint) bool {
	if len(data) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(data)))%uintptr(alignment) == 0
}
