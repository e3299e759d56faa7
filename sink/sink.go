// Package sink defines the virtual-device sink contract (spec.md §6): an
// abstract emitter of button, axis, multi-touch, and synchronization events
// that the translator drives. Two platform-gated implementations
// (sink_linux.go, sink_windows.go) share this vocabulary and the abstract
// button -> DS4 mapping table below, modeled on device/dualshock4/const.go's
// vendor/product IDs and button bit layout.
package sink

import "github.com/vitaoxipad/vitaoxipad-go/touchzone"

// Axis names the four analog stick channels, each carrying a raw 0..255
// sample per spec.md §4.5 step 7 ("raw lx, ly, rx, ry values ... preserved").
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisRX
	AxisRY
)

// Surface distinguishes the front and rear touch panels for multi-touch
// slot addressing.
type Surface int

const (
	SurfaceFront Surface = iota
	SurfaceRear
)

// Button is the set of abstract buttons a Device must accept, extended
// beyond touchzone.Button with the face/system buttons the translator also
// emits (spec.md §4.5 step 3).
type Button int

const (
	ButtonCircle Button = iota
	ButtonSquare
	ButtonCross
	ButtonTriangle
	ButtonOptions // start
	ButtonShare   // select
	ButtonPS
	ButtonThumbRight
	ButtonThumbLeft
	ButtonTriggerRight
	ButtonTriggerLeft
	ButtonShoulderRight
	ButtonShoulderLeft
)

// FromTouchZoneButton maps a touchzone.Button (bound to a touch zone) onto
// the broader sink.Button set.
func FromTouchZoneButton(b touchzone.Button) Button {
	switch b {
	case touchzone.ButtonThumbRight:
		return ButtonThumbRight
	case touchzone.ButtonThumbLeft:
		return ButtonThumbLeft
	case touchzone.ButtonTriggerRight:
		return ButtonTriggerRight
	case touchzone.ButtonTriggerLeft:
		return ButtonTriggerLeft
	case touchzone.ButtonShoulderRight:
		return ButtonShoulderRight
	case touchzone.ButtonShoulderLeft:
		return ButtonShoulderLeft
	default:
		return ButtonCircle
	}
}

// Identity is the vendor/product/version triple and the three device names
// both backends advertise (spec.md §6): BUS_VIRTUAL, vendor 0x054C, product
// 0x9CC, version 0x8111, "PS Vita VitaOxiPad" (+ Touchpad/Motion Sensors).
const (
	VendorID  uint16 = 0x054C
	ProductID uint16 = 0x09CC
	Version   uint16 = 0x8111

	NameMain     = "PS Vita VitaOxiPad"
	NameTouchpad = "PS Vita VitaOxiPad (Touchpad)"
	NameSensors  = "PS Vita VitaOxiPad (Motion Sensors)"
)

// MaxFrontTouchSlots and MaxRearTouchSlots size the multi-touch slot arrays
// per spec.md §3 ("fixed length (6 front, 4 rear) for the lifetime of the
// sink").
const (
	MaxFrontTouchSlots = 6
	MaxRearTouchSlots  = 4
)

// Config is what SetConfig installs: the preset's trigger mode (whether
// LT/RT map to analog pressure or a digital shoulder bit). It carries no
// touchpad-passthrough source.
type Config struct {
	AnalogTriggers bool
}

// Device is the virtual-device sink contract from spec.md §6.
type Device interface {
	// SetConfig installs the active preset's trigger mode, called once at
	// startup before any report is sent.
	SetConfig(cfg Config) error

	// Identifiers returns the backend's device name(s), if it creates named
	// OS-visible nodes (Linux uinput does; a future backend might not).
	Identifiers() ([]string, bool)

	// EmitButton sets or clears one abstract button's pressed state.
	EmitButton(b Button, pressed bool) error

	// EmitHat sets the D-pad's absolute (x, y) state, each in {-1, 0, 1}.
	EmitHat(x, y int8) error

	// EmitStick sets one analog stick axis's raw 0..255 sample.
	EmitStick(axis Axis, value uint8) error

	// EmitTrigger sets one analog trigger's pressure, 0 or 255 when the
	// active preset maps LT/RT to L2/R2 (TriggerAnalog).
	EmitTrigger(left bool, pressure uint8) error

	// EmitMotion sets the rescaled accelerometer/gyro axes for the frame,
	// already axis-remapped and sign-flipped per spec.md §4.5 step 8.
	EmitMotion(accelX, accelY, accelZ, gyroX, gyroY, gyroZ int16) error

	// EmitTouchSlot updates one multi-touch slot. trackingID == -1 lifts the
	// finger (spec.md §3's alternating-tracking-id invariant).
	EmitTouchSlot(surface Surface, slot int, trackingID int16, x, y uint16, pressure uint8) error

	// EmitTouchButton sets the aggregate "any finger down" state that
	// drives BTN_TOUCH/BTN_TOOL_FINGER.
	EmitTouchButton(pressed bool) error

	// Sync commits all emits since the last Sync as one atomic frame
	// (SYN_REPORT on Linux, one ViGEm report submission on Windows).
	Sync() error

	// Close releases the backend's OS resources (uinput node destruction,
	// ViGEm target/client teardown).
	Close() error
}
