// Package vitareport defines the in-memory representation of a single PS
// Vita input sample, as carried end-to-end from the wire codec through the
// report translator.
package vitareport

// TouchPoint is a single contact on a touch-capable surface.
type TouchPoint struct {
	ID    uint8
	X     uint16
	Y     uint16
	Force uint8
}

// TouchReport is the set of contacts currently held on one surface.
type TouchReport struct {
	Reports []TouchPoint
}

// Motion carries the raw accelerometer/gyroscope samples for one report.
type Motion struct {
	AccelX, AccelY, AccelZ float32 // g, range [-4.0, 4.0]
	GyroX, GyroY, GyroZ    float32 // rad/s, range [-35.0, 35.0]
}

// Buttons is the set of physical Vita buttons asserted in a single report.
type Buttons struct {
	Up, Down, Left, Right                   bool
	Cross, Circle, Square, Triangle         bool
	Start, Select                           bool
	LT, RT                                  bool
	PS                                      bool
	VolUp, VolDown                         bool
}

// Pad is a single decoded Vita input sample (spec.md §3).
type Pad struct {
	Timestamp     uint64
	Buttons       Buttons
	LX, LY        uint8
	RX, RY        uint8
	Motion        Motion
	FrontTouch    TouchReport
	BackTouch     TouchReport
	ChargePercent uint8
}

// Front and rear touch-surface geometry, fixed by spec.md §3 and §9.
const (
	FrontSurfaceMaxX = 1919
	FrontSurfaceMaxY = 1086
	RearSurfaceMaxX  = 1919
	RearSurfaceMaxY  = 886

	MaxFrontTouches = 6
	MaxBackTouches  = 4
)
