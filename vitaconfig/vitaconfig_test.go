package vitaconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaoxipad/vitaoxipad-go/touchzone"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconfig"
)

func TestStandartPreset(t *testing.T) {
	cfg, err := vitaconfig.Build(vitaconfig.Standart)
	require.NoError(t, err)
	assert.Equal(t, vitaconfig.TriggerAnalog, cfg.Trigger)
	assert.Equal(t, vitaconfig.TouchpadSourceNone, cfg.TouchpadSource)

	z, ok := cfg.FrontTouch.Zones.LocateAtPoint(touchzone.Point{X: 100, Y: 500})
	require.True(t, ok)
	assert.Equal(t, touchzone.ButtonThumbLeft, z.Action.Button)

	z, ok = cfg.FrontTouch.Zones.LocateAtPoint(touchzone.Point{X: 1800, Y: 500})
	require.True(t, ok)
	assert.Equal(t, touchzone.ButtonThumbRight, z.Action.Button)
}

func TestAltTriggersPreset(t *testing.T) {
	cfg, err := vitaconfig.Build(vitaconfig.AltTriggers)
	require.NoError(t, err)
	assert.Equal(t, vitaconfig.TriggerShoulder, cfg.Trigger)

	z, ok := cfg.RearTouch.Zones.LocateAtPoint(touchzone.Point{X: 100, Y: 500})
	require.True(t, ok)
	assert.Equal(t, touchzone.ButtonTriggerLeft, z.Action.Button)
}

func TestRearTouchpadPreset(t *testing.T) {
	cfg, err := vitaconfig.Build(vitaconfig.RearTouchpad)
	require.NoError(t, err)
	assert.True(t, cfg.RearTouch.Passthrough)
	assert.Equal(t, vitaconfig.TouchpadSourceRear, cfg.TouchpadSource)

	z, ok := cfg.FrontTouch.Zones.LocateAtPoint(touchzone.Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, touchzone.ButtonShoulderLeft, z.Action.Button)
}

func TestFrontTouchpadPreset(t *testing.T) {
	cfg, err := vitaconfig.Build(vitaconfig.FrontTouchpad)
	require.NoError(t, err)
	assert.True(t, cfg.FrontTouch.Passthrough)
	assert.Equal(t, vitaconfig.TouchpadSourceFront, cfg.TouchpadSource)
}

func TestUnknownPreset(t *testing.T) {
	_, err := vitaconfig.Build("bogus")
	assert.Error(t, err)
}

func TestDefaultPreset(t *testing.T) {
	cfg := vitaconfig.Default()
	assert.True(t, cfg.FrontTouch.Passthrough)
	assert.False(t, cfg.RearTouch.Passthrough)
	assert.Nil(t, cfg.RearTouch.Zones)
	assert.Equal(t, vitaconfig.TriggerShoulder, cfg.Trigger)
	assert.Equal(t, vitaconfig.TouchpadSourceFront, cfg.TouchpadSource)
}

func TestBuilderAssemblesCustomConfig(t *testing.T) {
	zones := touchzone.NewIndex([]touchzone.Zone{
		{Rect: touchzone.Rect{Min: touchzone.Point{X: 0, Y: 0}, Max: touchzone.Point{X: 1919, Y: 1086}},
			Action: touchzone.Action{Kind: touchzone.ActionButton, Button: touchzone.ButtonThumbLeft}},
	})

	cfg := vitaconfig.NewBuilder().
		FrontZones(zones).
		RearTouchpad().
		Trigger(vitaconfig.TriggerAnalog).
		Build()

	assert.False(t, cfg.FrontTouch.Passthrough)
	assert.True(t, cfg.RearTouch.Passthrough)
	assert.Equal(t, vitaconfig.TouchpadSourceRear, cfg.TouchpadSource)
	assert.Equal(t, vitaconfig.TriggerAnalog, cfg.Trigger)

	z, ok := cfg.FrontTouch.Zones.LocateAtPoint(touchzone.Point{X: 5, Y: 5})
	require.True(t, ok)
	assert.Equal(t, touchzone.ButtonThumbLeft, z.Action.Button)
}
