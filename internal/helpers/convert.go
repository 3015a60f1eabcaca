// Package helpers provides conversions for loosely typed JSON values.
//
// Entities decode numbers as json.Number so large identifiers survive intact.
// These helpers turn such values into Go integers and clamp them to the range
// of the target type instead of wrapping on overflow.
package helpers

import (
	"encoding/json"
	"math"
	"strconv"
)

// ClampInt64 restricts v to the range [lowerLimit, upperLimit].
func ClampInt64(v, lowerLimit, upperLimit int64) int64 {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// ClampInt64ToUint32 converts v to uint32 with clamping.
// Values below 0 become 0; values above math.MaxUint32 become math.MaxUint32.
// Used for DNS TTLs, which the API reports as plain JSON numbers.
func ClampInt64ToUint32(v int64) uint32 {
	clamped := ClampInt64(v, 0, math.MaxUint32)
	return uint32(clamped) //nolint:gosec // clamped to valid range
}

// ToInt64 converts a decoded JSON value to int64.
// It accepts json.Number, the Go numeric kinds, and numeric strings.
// Fractional values are truncated toward zero. ok is false when v is not numeric.
func ToInt64(v any) (n int64, ok bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f), true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint32:
		return int64(x), true
	case float32:
		return floatToInt64(float64(x)), true
	case float64:
		return floatToInt64(x), true
	case string:
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// ToFloat64 converts a decoded JSON value to float64.
func ToFloat64(v any) (f float64, ok bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// IsZeroNumber reports whether v is a numeric value equal to zero.
// Non-numeric values report false.
func IsZeroNumber(v any) bool {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case int:
		return x == 0
	case int8:
		return x == 0
	case int16:
		return x == 0
	case int32:
		return x == 0
	case int64:
		return x == 0
	case uint:
		return x == 0
	case uint8:
		return x == 0
	case uint16:
		return x == 0
	case uint32:
		return x == 0
	case uint64:
		return x == 0
	case float32:
		return x == 0
	case float64:
		return x == 0
	default:
		return false
	}
}

func floatToInt64(f float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}
