// Package rescale implements the fixed-range float-to-int16 mapping used to
// carry motion samples into DS4 report fields (spec.md §4.7), following the
// clamp-then-convert style of device/dualshock4/helpers.go's
// GyroDpsToRaw/AccelMS2ToRaw/clampI16.
package rescale

import "math"

// F32ToI16 clamps v to [lo, hi], maps it onto [0,1], and returns
// round(t*65536 - 32768) saturated to a signed 16-bit value.
//
// F32ToI16(lo, lo, hi) == -32768.
// F32ToI16(hi, lo, hi) would compute 32768, which overflows int16; this
// saturates at math.MaxInt16 (32767) rather than wrapping, per spec.md §4.7's
// documented off-by-one.
func F32ToI16(v, lo, hi float32) int16 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	t := float64(v-lo) / float64(hi-lo)
	raw := math.Round(t*65536 - 32768)
	if raw > math.MaxInt16 {
		return math.MaxInt16
	}
	if raw < math.MinInt16 {
		return math.MinInt16
	}
	return int16(raw)
}

// Motion-range constants from spec.md §3.
const (
	AccelLo float32 = -4.0
	AccelHi float32 = 4.0
	GyroLo  float32 = -35.0
	GyroHi  float32 = 35.0
)

// Accel rescales an accelerometer sample (g, range [-4.0, 4.0]) to int16.
func Accel(v float32) int16 { return F32ToI16(v, AccelLo, AccelHi) }

// Gyro rescales a gyroscope sample (rad/s, range [-35.0, 35.0]) to int16.
func Gyro(v float32) int16 { return F32ToI16(v, GyroLo, GyroHi) }
