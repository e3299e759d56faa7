package translator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaoxipad/vitaoxipad-go/sink"
	"github.com/vitaoxipad/vitaoxipad-go/translator"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconfig"
	"github.com/vitaoxipad/vitaoxipad-go/vitareport"
)

// event is one recorded call against fakeSink, tagged by kind so tests can
// filter the call log without a type switch per assertion.
type event struct {
	kind    string
	button  sink.Button
	pressed bool
	x, y    int8
	axis    sink.Axis
	value   uint8
	left    bool
	pres    uint8
	ax, ay, az, gx, gy, gz int16
	surface sink.Surface
	slot    int
	trackID int16
	tx, ty  uint16
	tpres   uint8
}

// fakeSink is a minimal in-memory sink.Device recording every emitted event,
// standing in for the platform sink_linux.go/sink_windows.go backends.
type fakeSink struct {
	cfg    sink.Config
	events []event
	synced int
}

func (f *fakeSink) SetConfig(cfg sink.Config) error {
	f.cfg = cfg
	return nil
}

func (f *fakeSink) Identifiers() ([]string, bool) { return nil, false }

func (f *fakeSink) EmitButton(b sink.Button, pressed bool) error {
	f.events = append(f.events, event{kind: "button", button: b, pressed: pressed})
	return nil
}

func (f *fakeSink) EmitHat(x, y int8) error {
	f.events = append(f.events, event{kind: "hat", x: x, y: y})
	return nil
}

func (f *fakeSink) EmitStick(axis sink.Axis, value uint8) error {
	f.events = append(f.events, event{kind: "stick", axis: axis, value: value})
	return nil
}

func (f *fakeSink) EmitTrigger(left bool, pressure uint8) error {
	f.events = append(f.events, event{kind: "trigger", left: left, pres: pressure})
	return nil
}

func (f *fakeSink) EmitMotion(ax, ay, az, gx, gy, gz int16) error {
	f.events = append(f.events, event{kind: "motion", ax: ax, ay: ay, az: az, gx: gx, gy: gy, gz: gz})
	return nil
}

func (f *fakeSink) EmitTouchSlot(surface sink.Surface, slot int, trackingID int16, x, y uint16, pressure uint8) error {
	f.events = append(f.events, event{kind: "touch", surface: surface, slot: slot, trackID: trackingID, tx: x, ty: y, tpres: pressure})
	return nil
}

func (f *fakeSink) EmitTouchButton(pressed bool) error {
	f.events = append(f.events, event{kind: "touchbutton", pressed: pressed})
	return nil
}

func (f *fakeSink) Sync() error {
	f.synced++
	return nil
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) buttonEvents() []event {
	var out []event
	for _, e := range f.events {
		if e.kind == "button" {
			out = append(out, e)
		}
	}
	return out
}

func newTranslator(t *testing.T, preset vitaconfig.Name) (*translator.Translator, *fakeSink) {
	t.Helper()
	cfg, err := vitaconfig.Build(preset)
	require.NoError(t, err)
	fs := &fakeSink{}
	tr, err := translator.New(cfg, fs, nil)
	require.NoError(t, err)
	return tr, fs
}

func basePad(ts uint64) vitareport.Pad {
	return vitareport.Pad{Timestamp: ts, LX: 128, LY: 128, RX: 128, RY: 128}
}

// TestButtonEdgeOnlyEmitsTransitions covers spec.md §8's button-edge
// scenario: a held button emits once on press, nothing while held, and once
// on release.
func TestButtonEdgeOnlyEmitsTransitions(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)

	p1 := basePad(1)
	p1.Buttons.Cross = true
	require.NoError(t, tr.Process(p1))
	require.Len(t, fs.buttonEvents(), 1)
	assert.Equal(t, sink.ButtonCross, fs.buttonEvents()[0].button)
	assert.True(t, fs.buttonEvents()[0].pressed)

	p2 := basePad(2)
	p2.Buttons.Cross = true
	require.NoError(t, tr.Process(p2))
	assert.Len(t, fs.buttonEvents(), 1, "holding the button must not re-emit")

	p3 := basePad(3)
	require.NoError(t, tr.Process(p3))
	require.Len(t, fs.buttonEvents(), 2)
	assert.False(t, fs.buttonEvents()[1].pressed)
}

// TestDpadDiagonalCancelsOpposingPair covers spec.md §8's D-pad diagonal
// scenario, including the opposing-pair cancellation rule.
func TestDpadDiagonalCancelsOpposingPair(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)

	p := basePad(1)
	p.Buttons.Up = true
	p.Buttons.Right = true
	require.NoError(t, tr.Process(p))
	last := lastHat(fs)
	assert.Equal(t, int8(1), last.x)
	assert.Equal(t, int8(-1), last.y)

	p2 := basePad(2)
	p2.Buttons.Up = true
	p2.Buttons.Down = true // opposing pair cancels to neutral
	require.NoError(t, tr.Process(p2))
	last2 := lastHat(fs)
	assert.Equal(t, int8(0), last2.x)
	assert.Equal(t, int8(0), last2.y)
}

func lastHat(fs *fakeSink) event {
	var last event
	for _, e := range fs.events {
		if e.kind == "hat" {
			last = e
		}
	}
	return last
}

// TestTimestampRegressionIsDroppedNotErrored covers spec.md §8's timestamp
// regression scenario: an out-of-order report is silently dropped (counted,
// logged), never surfaced as an error.
func TestTimestampRegressionIsDroppedNotErrored(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)

	require.NoError(t, tr.Process(basePad(10)))
	n := len(fs.events)

	stale := basePad(5)
	stale.Buttons.Cross = true
	require.NoError(t, tr.Process(stale))
	assert.Len(t, fs.events, n, "a stale report must not emit anything")
	assert.Equal(t, uint64(1), tr.Stats().Dropped)
	assert.Equal(t, uint64(1), tr.Stats().Accepted)
}

// TestTouchLiftEmitsTrackingIDMinusOne covers spec.md §8's touch-lift
// scenario and the Some->None tracking-id invariant, using the
// rear-touchpad preset so the rear surface drives the sink directly.
func TestTouchLiftEmitsTrackingIDMinusOne(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.RearTouchpad)

	down := basePad(1)
	down.BackTouch = vitareport.TouchReport{Reports: []vitareport.TouchPoint{{ID: 7, X: 500, Y: 400, Force: 1}}}
	require.NoError(t, tr.Process(down))

	lift := basePad(2)
	require.NoError(t, tr.Process(lift))

	var liftEvent event
	found := false
	for _, e := range fs.events {
		if e.kind == "touch" && e.surface == sink.SurfaceRear && e.slot == 0 && e.trackID == -1 {
			liftEvent = e
			found = true
		}
	}
	require.True(t, found, "lifting a finger must emit trackingID -1 for its slot")
	assert.Equal(t, int16(-1), liftEvent.trackID)
}

// TestZoneTouchMapsToButtonNotSink covers spec.md §8's zone-to-button
// scenario on the standard preset: a front-surface touch in the
// left-thumbstick zone emits ButtonThumbLeft and never reaches EmitTouchSlot
// (the standard preset doesn't set TouchpadSource).
func TestZoneTouchMapsToButtonNotSink(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)

	p := basePad(1)
	p.FrontTouch = vitareport.TouchReport{Reports: []vitareport.TouchPoint{{ID: 0, X: 100, Y: 500, Force: 1}}}
	require.NoError(t, tr.Process(p))

	foundButton := false
	for _, e := range fs.buttonEvents() {
		if e.button == sink.ButtonThumbLeft && e.pressed {
			foundButton = true
		}
	}
	assert.True(t, foundButton)

	for _, e := range fs.events {
		assert.NotEqual(t, "touch", e.kind, "standart preset has no touchpad-passthrough surface")
		assert.NotEqual(t, "touchbutton", e.kind, "standart preset has no touchpad-passthrough surface, so BTN_TOUCH must never fire")
	}
}

// TestTouchpadPassthroughRescalesY covers spec.md §9's DS4 touchpad
// Y-coordinate rescale on the rear-touchpad preset.
func TestTouchpadPassthroughRescalesY(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.RearTouchpad)

	p := basePad(1)
	p.BackTouch = vitareport.TouchReport{Reports: []vitareport.TouchPoint{{ID: 3, X: 200, Y: 443, Force: 1}}}
	require.NoError(t, tr.Process(p))

	var got event
	found := false
	for _, e := range fs.events {
		if e.kind == "touch" && e.surface == sink.SurfaceRear {
			got = e
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, uint16(200), got.tx)
	assert.Equal(t, uint16((443*942)/887), got.ty)
	assert.Equal(t, int16(3), got.trackID)
}

// TestAnalogTriggerConfigEmitsTriggerNotButton covers the AnalogTriggers
// path of spec.md's "Trigger configuration": LT/RT must emit EmitTrigger,
// never ButtonShoulderLeft/Right, on the standart preset.
func TestAnalogTriggerConfigEmitsTriggerNotButton(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)
	require.True(t, fs.cfg.AnalogTriggers)

	p := basePad(1)
	p.Buttons.LT = true
	require.NoError(t, tr.Process(p))

	for _, e := range fs.buttonEvents() {
		assert.NotEqual(t, sink.ButtonShoulderLeft, e.button)
	}
	foundTrigger := false
	for _, e := range fs.events {
		if e.kind == "trigger" && e.left && e.pres == 255 {
			foundTrigger = true
		}
	}
	assert.True(t, foundTrigger)
}

// TestShoulderTriggerConfigEmitsButton covers the TriggerShoulder path on
// the alt_triggers preset: LT/RT must emit plain buttons, never EmitTrigger.
func TestShoulderTriggerConfigEmitsButton(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.AltTriggers)
	require.False(t, fs.cfg.AnalogTriggers)

	p := basePad(1)
	p.Buttons.RT = true
	require.NoError(t, tr.Process(p))

	for _, e := range fs.events {
		assert.NotEqual(t, "trigger", e.kind)
	}
	found := false
	for _, e := range fs.buttonEvents() {
		if e.button == sink.ButtonShoulderRight && e.pressed {
			found = true
		}
	}
	assert.True(t, found)
}

// TestMotionAxisRemap locks in the accel/gyro axis permutation from
// spec.md §4.5 step 8.
func TestMotionAxisRemap(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)

	p := basePad(1)
	p.Motion = vitareport.Motion{AccelX: 1, AccelY: 2, AccelZ: 3, GyroX: 4, GyroY: 5, GyroZ: 6}
	require.NoError(t, tr.Process(p))

	var m event
	for _, e := range fs.events {
		if e.kind == "motion" {
			m = e
		}
	}
	assert.Less(t, m.ax, int16(0), "accel_x is negated")
	assert.Greater(t, m.ay, m.az, "accel_y <- accel_z, accel_z <- accel_y so ay orders above az for these inputs")
}

// TestSyncCalledOncePerReport ensures exactly one Sync commits each frame.
func TestSyncCalledOncePerReport(t *testing.T) {
	tr, fs := newTranslator(t, vitaconfig.Standart)
	require.NoError(t, tr.Process(basePad(1)))
	require.NoError(t, tr.Process(basePad(2)))
	assert.Equal(t, 2, fs.synced)
}
