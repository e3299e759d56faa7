// Package translator implements the report translator from spec.md §4.5:
// it folds one decoded Vita pad report into button/stick/motion/touch
// events on a sink.Device, tracking per-slot multi-touch history and
// button/hat deltas so only transitions are emitted.
package translator

import (
	"log/slog"
	"sync/atomic"

	"github.com/vitaoxipad/vitaoxipad-go/rescale"
	"github.com/vitaoxipad/vitaoxipad-go/sink"
	"github.com/vitaoxipad/vitaoxipad-go/touchzone"
	"github.com/vitaoxipad/vitaoxipad-go/vitaconfig"
	"github.com/vitaoxipad/vitaoxipad-go/vitareport"
)

// Stats exposes lifetime packet counters, grounded on the
// atomic.AddUint32 packet-counter pattern in device/dualshock4/device.go
// (usbPacketCounter/usbReportTimestamp): a cheap health signal that can be
// read at any time without adding any new locking.
type Stats struct {
	Accepted uint64
	Dropped  uint64
}

// Translator owns the state tracker and drives a sink.Device from decoded
// Vita reports.
type Translator struct {
	cfg    vitaconfig.Config
	sink   sink.Device
	state  *state
	logger *slog.Logger

	accepted atomic.Uint64
	dropped  atomic.Uint64
}

// New returns a Translator bound to the given preset config and sink. The
// sink's SetConfig is called once, installing the trigger mode.
func New(cfg vitaconfig.Config, dev sink.Device, logger *slog.Logger) (*Translator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := dev.SetConfig(sink.Config{AnalogTriggers: cfg.Trigger == vitaconfig.TriggerAnalog}); err != nil {
		return nil, err
	}
	return &Translator{cfg: cfg, sink: dev, state: newState(), logger: logger}, nil
}

// Stats returns a snapshot of lifetime packet counters.
func (t *Translator) Stats() Stats {
	return Stats{Accepted: t.accepted.Load(), Dropped: t.dropped.Load()}
}

// Process folds one decoded Vita pad report into the sink, per spec.md §4.5
// steps 1-10. Sink write failures are fatal (spec.md §7, kind SinkWrite) and
// returned to the caller; a timestamp regression is logged and the packet
// dropped, never an error.
func (t *Translator) Process(p vitareport.Pad) error {
	if t.state.haveLastTimestamp && p.Timestamp <= t.state.lastTimestamp {
		t.dropped.Add(1)
		t.logger.Warn("dropping out-of-order pad report", "timestamp", p.Timestamp, "last", t.state.lastTimestamp)
		return nil
	}
	t.state.lastTimestamp = p.Timestamp
	t.state.haveLastTimestamp = true
	t.accepted.Add(1)

	hatX, hatY := dpadToHat(dpadDirection(p.Buttons))

	buttons := t.baseButtonSet(p.Buttons)

	if action, ok := t.applyTouchZones(p.FrontTouch, t.cfg.FrontTouch, buttons); ok {
		hatX, hatY = dpadToHat(action)
	}
	if action, ok := t.applyTouchZones(p.BackTouch, t.cfg.RearTouch, buttons); ok {
		hatX, hatY = dpadToHat(action)
	}

	if err := t.emitButtonDeltas(buttons); err != nil {
		return err
	}
	if err := t.emitHatDelta(hatX, hatY); err != nil {
		return err
	}

	if err := t.sink.EmitStick(sink.AxisX, p.LX); err != nil {
		return err
	}
	if err := t.sink.EmitStick(sink.AxisY, p.LY); err != nil {
		return err
	}
	if err := t.sink.EmitStick(sink.AxisRX, p.RX); err != nil {
		return err
	}
	if err := t.sink.EmitStick(sink.AxisRY, p.RY); err != nil {
		return err
	}

	if err := t.emitMotion(p.Motion); err != nil {
		return err
	}

	if t.cfg.Trigger == vitaconfig.TriggerAnalog {
		if err := t.sink.EmitTrigger(true, triggerPressure(p.Buttons.LT)); err != nil {
			return err
		}
		if err := t.sink.EmitTrigger(false, triggerPressure(p.Buttons.RT)); err != nil {
			return err
		}
	}

	anyTouch := false
	if err := t.emitTouchSurface(sink.SurfaceFront, p.FrontTouch, &t.state.frontTouches, sink.MaxFrontTouchSlots, t.cfg.TouchpadSource == vitaconfig.TouchpadSourceFront, &anyTouch); err != nil {
		return err
	}
	if err := t.emitTouchSurface(sink.SurfaceRear, p.BackTouch, &t.state.rearTouches, sink.MaxRearTouchSlots, t.cfg.TouchpadSource == vitaconfig.TouchpadSourceRear, &anyTouch); err != nil {
		return err
	}
	if anyTouch != t.state.touchState {
		if err := t.sink.EmitTouchButton(anyTouch); err != nil {
			return err
		}
		t.state.touchState = anyTouch
	}

	return t.sink.Sync()
}

// baseButtonSet starts from the face/system buttons in spec.md §4.5 step 3,
// then adds the trigger-config-dependent shoulder/trigger buttons.
func (t *Translator) baseButtonSet(b vitareport.Buttons) map[sink.Button]struct{} {
	set := make(map[sink.Button]struct{})
	add := func(on bool, btn sink.Button) {
		if on {
			set[btn] = struct{}{}
		}
	}
	add(b.Circle, sink.ButtonCircle)
	add(b.Square, sink.ButtonSquare)
	add(b.Cross, sink.ButtonCross)
	add(b.Triangle, sink.ButtonTriangle)
	add(b.Start, sink.ButtonOptions)
	add(b.Select, sink.ButtonShare)
	add(b.PS, sink.ButtonPS)

	// TriggerAnalog routes LT/RT through EmitTrigger as analog pressure
	// instead of the digital button set (spec.md §3 "Trigger
	// configuration"); only TriggerShoulder treats them as plain buttons.
	if t.cfg.Trigger == vitaconfig.TriggerShoulder {
		add(b.LT, sink.ButtonShoulderLeft)
		add(b.RT, sink.ButtonShoulderRight)
	}
	return set
}

// applyTouchZones queries the zone index (if this surface isn't in
// touchpad-passthrough mode) for every incoming touch point, adding any
// Button actions to buttons and returning the last Dpad action seen
// (spec.md §4.5 step 4: "Dpad(d) by overwriting the D-pad direction").
func (t *Translator) applyTouchZones(tr vitareport.TouchReport, surf vitaconfig.SurfaceConfig, buttons map[sink.Button]struct{}) (touchzone.Dpad, bool) {
	if surf.Passthrough || surf.Zones == nil {
		return touchzone.DpadNone, false
	}
	found := false
	dir := touchzone.DpadNone
	for _, tp := range tr.Reports {
		zone, ok := surf.Zones.LocateAtPoint(touchzone.Point{X: int(tp.X), Y: int(tp.Y)})
		if !ok {
			continue
		}
		switch zone.Action.Kind {
		case touchzone.ActionButton:
			buttons[sink.FromTouchZoneButton(zone.Action.Button)] = struct{}{}
		case touchzone.ActionDpad:
			dir = zone.Action.Dpad
			found = true
		}
	}
	return dir, found
}

func (t *Translator) emitButtonDeltas(current map[sink.Button]struct{}) error {
	for b := range current {
		if _, was := t.state.previousButtons[b]; !was {
			if err := t.sink.EmitButton(b, true); err != nil {
				return err
			}
		}
	}
	for b := range t.state.previousButtons {
		if _, still := current[b]; !still {
			if err := t.sink.EmitButton(b, false); err != nil {
				return err
			}
		}
	}
	t.state.previousButtons = current
	return nil
}

func (t *Translator) emitHatDelta(x, y int8) error {
	if x != t.state.previousHatX {
		if err := t.sink.EmitHat(x, t.state.previousHatY); err != nil {
			return err
		}
		t.state.previousHatX = x
	}
	if y != t.state.previousHatY {
		if err := t.sink.EmitHat(t.state.previousHatX, y); err != nil {
			return err
		}
		t.state.previousHatY = y
	}
	return nil
}

// emitMotion rescales and axis-remaps accelerometer/gyro samples per
// spec.md §4.5 step 8: accel_x <- -ax, accel_y <- az, accel_z <- ay;
// gyro axes permuted onto the RY/RZ wire slots the same way
// (gyro_x <- gx, gyro_y <- gz, gyro_z <- -gy).
func (t *Translator) emitMotion(m vitareport.Motion) error {
	ax := rescale.Accel(-m.AccelX)
	ay := rescale.Accel(m.AccelZ)
	az := rescale.Accel(m.AccelY)
	gx := rescale.Gyro(m.GyroX)
	gy := rescale.Gyro(m.GyroZ)
	gz := rescale.Gyro(-m.GyroY)
	return t.sink.EmitMotion(ax, ay, az, gx, gy, gz)
}

// emitTouchSurface performs multi-touch slot lifecycle management (spec.md
// §4.5 step 9) for one surface. Slot tracking state is always maintained;
// the sink only actually receives the slot emits when this surface is the
// configured touchpad-passthrough source, per spec.md's preset table
// (exactly one of front/rear ever drives the DS4 touchpad sink).
func (t *Translator) emitTouchSurface(surface sink.Surface, tr vitareport.TouchReport, slots *touchSlots, n int, drivesSink bool, anyTouch *bool) error {
	present := make(map[int]vitareport.TouchPoint, len(tr.Reports))
	for i, tp := range tr.Reports {
		if i >= n {
			break
		}
		present[i] = tp
	}

	for s := 0; s < n; s++ {
		_, hadOld := slots.get(s)
		_, hasNew := present[s]
		if hadOld && !hasNew {
			slots.clear(s)
			if drivesSink {
				if err := t.sink.EmitTouchSlot(surface, s, -1, 0, 0, 0); err != nil {
					return err
				}
			}
		}
	}

	surfaceMaxY := vitareport.FrontSurfaceMaxY + 1
	if surface == sink.SurfaceRear {
		surfaceMaxY = vitareport.RearSurfaceMaxY + 1
	}

	for s := 0; s < n; s++ {
		tp, ok := present[s]
		if !ok {
			continue
		}
		slots.set(s, tp.ID)
		if !drivesSink {
			continue
		}
		if tp.Force > 0 {
			*anyTouch = true
		}
		y := clampTouchY(tp.Y, surfaceMaxY)
		ds4Y := uint16((uint32(y) * 942) / uint32(surfaceMaxY))
		if err := t.sink.EmitTouchSlot(surface, s, int16(tp.ID), tp.X, ds4Y, tp.Force); err != nil {
			return err
		}
	}

	return nil
}

func triggerPressure(held bool) uint8 {
	if held {
		return 255
	}
	return 0
}

func clampTouchY(y uint16, maxY int) uint16 {
	if int(y) >= maxY {
		return uint16(maxY - 1)
	}
	return y
}

// dpadDirection computes the 8-way compass direction from the four
// directional booleans (spec.md §4.5 step 2). Opposing pairs (up+down,
// left+right) are ambiguous and cancel to neutral before combining.
func dpadDirection(b vitareport.Buttons) touchzone.Dpad {
	up, down, left, right := b.Up, b.Down, b.Left, b.Right
	if up && down {
		up, down = false, false
	}
	if left && right {
		left, right = false, false
	}
	switch {
	case up && left:
		return touchzone.DpadUpLeft
	case up && right:
		return touchzone.DpadUpRight
	case down && left:
		return touchzone.DpadDownLeft
	case down && right:
		return touchzone.DpadDownRight
	case up:
		return touchzone.DpadUp
	case down:
		return touchzone.DpadDown
	case left:
		return touchzone.DpadLeft
	case right:
		return touchzone.DpadRight
	default:
		return touchzone.DpadNone
	}
}

// dpadToHat maps a compass direction onto the (hat_x, hat_y) pair the sink
// expects, each in {-1, 0, 1}.
func dpadToHat(d touchzone.Dpad) (int8, int8) {
	switch d {
	case touchzone.DpadUp:
		return 0, -1
	case touchzone.DpadUpRight:
		return 1, -1
	case touchzone.DpadRight:
		return 1, 0
	case touchzone.DpadDownRight:
		return 1, 1
	case touchzone.DpadDown:
		return 0, 1
	case touchzone.DpadDownLeft:
		return -1, 1
	case touchzone.DpadLeft:
		return -1, 0
	case touchzone.DpadUpLeft:
		return -1, -1
	default:
		return 0, 0
	}
}
