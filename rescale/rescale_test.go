package rescale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitaoxipad/vitaoxipad-go/rescale"
)

func TestF32ToI16Bounds(t *testing.T) {
	assert.Equal(t, int16(-32768), rescale.F32ToI16(-4.0, -4.0, 4.0))
	assert.Equal(t, int16(32767), rescale.F32ToI16(4.0, -4.0, 4.0))
}

func TestF32ToI16Midpoint(t *testing.T) {
	v := rescale.F32ToI16(0.0, -4.0, 4.0)
	assert.InDelta(t, 0, int(v), 1)
}

func TestF32ToI16ClampsBelowRange(t *testing.T) {
	below := rescale.F32ToI16(-10.0, -4.0, 4.0)
	atLo := rescale.F32ToI16(-4.0, -4.0, 4.0)
	assert.Equal(t, atLo, below)
}

func TestF32ToI16ClampsAboveRange(t *testing.T) {
	above := rescale.F32ToI16(10.0, -4.0, 4.0)
	atHi := rescale.F32ToI16(4.0, -4.0, 4.0)
	assert.Equal(t, atHi, above)
}

func TestAccelGyroHelpers(t *testing.T) {
	assert.Equal(t, int16(-32768), rescale.Accel(-4.0))
	assert.Equal(t, int16(-32768), rescale.Gyro(-35.0))
}
