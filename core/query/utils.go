package query

import (
	"cmp"
	"fmt"
	"reflect"
	"time"
)

// IntPtr is a helper function that returns a pointer to an int.
func IntPtr(i int) *int {
	return &i
}

// ToFloat64 converts a value of any Go numeric type to a float64. It returns
// the converted value and whether the conversion applied. Strings are not
// parsed; a numeric-looking string is still a string.
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// CompareValues returns -1 if a sorts before b, 1 if after, and 0 if the two
// are equivalent for ordering purposes.
//
// Numbers compare numerically across Go numeric types, strings lexically,
// booleans with false first and times chronologically. nil sorts before
// everything else. Values of other or mixed types fall back to comparing
// their fmt.Sprint form.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if c, ok := compareIntegers(a, b); ok {
		return c
	}
	if fa, ok := ToFloat64(a); ok {
		if fb, ok := ToFloat64(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	switch va := a.(type) {
	case string:
		if vb, ok := b.(string); ok {
			return cmp.Compare(va, vb)
		}
	case bool:
		if vb, ok := b.(bool); ok {
			switch {
			case va == vb:
				return 0
			case !va:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if vb, ok := b.(time.Time); ok {
			return va.Compare(vb)
		}
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// compareIntegers compares two integer values exactly, including values
// beyond float64's 53-bit mantissa. It reports false unless both are integers.
func compareIntegers(a, b any) (int, bool) {
	ia, signedA, okA := toInteger(a)
	ib, signedB, okB := toInteger(b)
	if !okA || !okB {
		return 0, false
	}
	switch {
	case signedA && signedB:
		return cmp.Compare(int64(ia), int64(ib)), true
	case !signedA && !signedB:
		return cmp.Compare(ia, ib), true
	case signedA:
		if int64(ia) < 0 {
			return -1, true
		}
		return cmp.Compare(ia, ib), true
	default:
		if int64(ib) < 0 {
			return 1, true
		}
		return cmp.Compare(ia, ib), true
	}
}

// toInteger returns the bits of an integer value widened to 64 bits and
// whether the value is signed. Signed values are stored two's complement.
func toInteger(v any) (uint64, bool, bool) {
	switch val := v.(type) {
	case int:
		return uint64(val), true, true
	case int8:
		return uint64(val), true, true
	case int16:
		return uint64(val), true, true
	case int32:
		return uint64(val), true, true
	case int64:
		return uint64(val), true, true
	case uint:
		return uint64(val), false, true
	case uint8:
		return uint64(val), false, true
	case uint16:
		return uint64(val), false, true
	case uint32:
		return uint64(val), false, true
	case uint64:
		return val, false, true
	default:
		return 0, false, false
	}
}

// looseEqual is equalValues, except that numbers of different Go types match
// when they hold the same numeric value.
func looseEqual(a, b any) bool {
	if equalValues(a, b) {
		return true
	}
	if _, ok := ToFloat64(a); !ok {
		return false
	}
	if _, ok := ToFloat64(b); !ok {
		return false
	}
	return CompareValues(a, b) == 0
}

// equalValues reports whether a == b without panicking on values whose
// dynamic type is not comparable, such as slices or maps.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
