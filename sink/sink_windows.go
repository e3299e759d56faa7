//go:build windows

// Package sink's Windows backend drives a virtual DS4 pad through
// ViGEmClient.dll, grounded on internal/util/util_windows.go's
// LazyDLL-binding pattern (NewLazySystemDLL/.NewProc/.Call) and on
// device/dualshock4/device.go's buildUSBInputReport, whose 64-byte DS4 HID
// report layout (button/dpad/stick/touch/gyro offsets) is reused verbatim
// here as the payload vigem_target_ds4_update_ex submits.
package sink

import (
	"encoding/binary"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	vigemDLL = windows.NewLazySystemDLL("ViGEmClient.dll")

	procAlloc          = vigemDLL.NewProc("vigem_alloc")
	procFree           = vigemDLL.NewProc("vigem_free")
	procConnect        = vigemDLL.NewProc("vigem_connect")
	procDisconnect     = vigemDLL.NewProc("vigem_disconnect")
	procTargetDS4Alloc = vigemDLL.NewProc("vigem_target_ds4_alloc")
	procTargetFree     = vigemDLL.NewProc("vigem_target_free")
	procTargetAdd      = vigemDLL.NewProc("vigem_target_add")
	procTargetRemove   = vigemDLL.NewProc("vigem_target_remove")
	procDS4UpdateEx    = vigemDLL.NewProc("vigem_target_ds4_update_ex")
)

// DS4 HID input-report byte offsets and bit layout, identical to
// device/dualshock4/const.go.
const (
	ds4ReportID      = 0x01
	ds4InputReportSz = 64

	ds4ButtonSquare   uint16 = 0x0010
	ds4ButtonCross    uint16 = 0x0020
	ds4ButtonCircle   uint16 = 0x0040
	ds4ButtonTriangle uint16 = 0x0080
	ds4ButtonL1       uint16 = 0x0100
	ds4ButtonR1       uint16 = 0x0200
	ds4ButtonL2       uint16 = 0x0400
	ds4ButtonR2       uint16 = 0x0800
	ds4ButtonShare    uint16 = 0x1000
	ds4ButtonOptions  uint16 = 0x2000
	ds4ButtonL3       uint16 = 0x4000
	ds4ButtonR3       uint16 = 0x8000
	ds4ButtonPS       uint16 = 0x0001

	ds4DPadMask    uint8 = 0x0F
	ds4DPadNeutral uint8 = 0x08

	ds4TouchpadMaxX uint16 = 1920
	ds4TouchpadMaxY uint16 = 942
	ds4TouchInactiveMask uint8 = 0x80

	ds4BatteryFullyCharged uint8 = 0x0B
)

var ds4DPadFromHat = map[[2]int8]uint8{
	{0, -1}: 0x00, {1, -1}: 0x01, {1, 0}: 0x02, {1, 1}: 0x03,
	{0, 1}: 0x04, {-1, 1}: 0x05, {-1, 0}: 0x06, {-1, -1}: 0x07,
	{0, 0}: ds4DPadNeutral,
}

var windowsButtonBit = map[Button]uint16{
	ButtonCircle:        ds4ButtonCircle,
	ButtonSquare:        ds4ButtonSquare,
	ButtonCross:         ds4ButtonCross,
	ButtonTriangle:      ds4ButtonTriangle,
	ButtonOptions:       ds4ButtonOptions,
	ButtonShare:         ds4ButtonShare,
	ButtonPS:            ds4ButtonPS,
	ButtonThumbRight:    ds4ButtonR3,
	ButtonThumbLeft:     ds4ButtonL3,
	ButtonTriggerRight:  ds4ButtonR2,
	ButtonTriggerLeft:   ds4ButtonL2,
	ButtonShoulderRight: ds4ButtonR1,
	ButtonShoulderLeft:  ds4ButtonL1,
}

type ds4TouchSlot struct {
	active bool
	x, y   uint16
}

// windowsDevice accumulates one DS4 report in memory; Sync submits it via
// vigem_target_ds4_update_ex.
type windowsDevice struct {
	mu sync.Mutex

	client uintptr
	target uintptr

	buttons  uint16
	hatX     int8
	hatY     int8
	lx, ly   uint8
	rx, ry   uint8
	trigL    uint8
	trigR    uint8
	gyroX, gyroY, gyroZ       int16
	accelX, accelY, accelZ    int16
	touch    [2]ds4TouchSlot
	counter  uint8
}

// NewDevice connects to the ViGEm bus and plugs in one virtual DS4 pad.
func NewDevice() (Device, error) {
	client, _, _ := procAlloc.Call()
	if client == 0 {
		return nil, fmt.Errorf("sink: vigem_alloc failed")
	}
	if ret, _, _ := procConnect.Call(client); ret != 0 {
		procFree.Call(client)
		return nil, fmt.Errorf("sink: vigem_connect failed: 0x%x", ret)
	}

	target, _, _ := procTargetDS4Alloc.Call()
	if target == 0 {
		procDisconnect.Call(client)
		procFree.Call(client)
		return nil, fmt.Errorf("sink: vigem_target_ds4_alloc failed")
	}
	if ret, _, _ := procTargetAdd.Call(client, target); ret != 0 {
		procTargetFree.Call(target)
		procDisconnect.Call(client)
		procFree.Call(client)
		return nil, fmt.Errorf("sink: vigem_target_add failed: 0x%x", ret)
	}

	return &windowsDevice{client: client, target: target, hatX: 0, hatY: 0}, nil
}

func (d *windowsDevice) SetConfig(Config) error { return nil }

func (d *windowsDevice) Identifiers() ([]string, bool) { return nil, false }

func (d *windowsDevice) EmitButton(b Button, pressed bool) error {
	bit, ok := windowsButtonBit[b]
	if !ok {
		return nil
	}
	d.mu.Lock()
	if pressed {
		d.buttons |= bit
	} else {
		d.buttons &^= bit
	}
	d.mu.Unlock()
	return nil
}

func (d *windowsDevice) EmitHat(x, y int8) error {
	d.mu.Lock()
	d.hatX, d.hatY = x, y
	d.mu.Unlock()
	return nil
}

func (d *windowsDevice) EmitStick(axis Axis, value uint8) error {
	d.mu.Lock()
	switch axis {
	case AxisX:
		d.lx = value
	case AxisY:
		d.ly = value
	case AxisRX:
		d.rx = value
	case AxisRY:
		d.ry = value
	}
	d.mu.Unlock()
	return nil
}

func (d *windowsDevice) EmitTrigger(left bool, pressure uint8) error {
	d.mu.Lock()
	if left {
		d.trigL = pressure
	} else {
		d.trigR = pressure
	}
	d.mu.Unlock()
	return nil
}

func (d *windowsDevice) EmitMotion(ax, ay, az, gx, gy, gz int16) error {
	d.mu.Lock()
	d.accelX, d.accelY, d.accelZ = ax, ay, az
	d.gyroX, d.gyroY, d.gyroZ = gx, gy, gz
	d.mu.Unlock()
	return nil
}

func (d *windowsDevice) EmitTouchSlot(_ Surface, slot int, trackingID int16, x, y uint16, _ uint8) error {
	if slot < 0 || slot >= len(d.touch) {
		return nil
	}
	d.mu.Lock()
	d.touch[slot] = ds4TouchSlot{active: trackingID >= 0, x: x, y: y}
	d.mu.Unlock()
	return nil
}

// EmitTouchButton is a no-op on this backend: DS4_REPORT_EX carries touch
// contact state per-slot (the ds4TouchSlot.active bit), there is no
// separate aggregate "any finger down" field to set.
func (d *windowsDevice) EmitTouchButton(pressed bool) error {
	return nil
}

// Sync builds the 64-byte DS4 HID input report (device/dualshock4/device.go's
// buildUSBInputReport layout) and submits it to the ViGEm bus.
func (d *windowsDevice) Sync() error {
	d.mu.Lock()
	report := d.buildReport()
	d.mu.Unlock()

	ret, _, _ := procDS4UpdateEx.Call(d.client, d.target, uintptr(unsafe.Pointer(&report[0])))
	if ret != 0 {
		return fmt.Errorf("sink: vigem_target_ds4_update_ex failed: 0x%x", ret)
	}
	return nil
}

func (d *windowsDevice) buildReport() []byte {
	b := make([]byte, ds4InputReportSz)
	b[0] = ds4ReportID

	b[1] = d.lx
	b[2] = d.ly
	b[3] = d.rx
	b[4] = d.ry

	dpad, ok := ds4DPadFromHat[[2]int8{d.hatX, d.hatY}]
	if !ok {
		dpad = ds4DPadNeutral
	}
	b[5] = (dpad & ds4DPadMask) | (uint8(d.buttons) & 0xF0)
	b[6] = uint8(d.buttons >> 8)

	d.counter = (d.counter + 1) & 0x3F
	psTouch := uint8(0)
	if d.buttons&ds4ButtonPS != 0 {
		psTouch |= 0x01
	}
	b[7] = psTouch | (d.counter << 2)

	b[8] = d.trigL
	b[9] = d.trigR

	binary.LittleEndian.PutUint16(b[13:15], uint16(d.gyroX))
	binary.LittleEndian.PutUint16(b[15:17], uint16(d.gyroY))
	binary.LittleEndian.PutUint16(b[17:19], uint16(d.gyroZ))
	binary.LittleEndian.PutUint16(b[19:21], uint16(d.accelX))
	binary.LittleEndian.PutUint16(b[21:23], uint16(d.accelY))
	binary.LittleEndian.PutUint16(b[23:25], uint16(d.accelZ))

	b[30] = ds4BatteryFullyCharged

	encodeDS4Touch(b[35:39], d.touch[0])
	encodeDS4Touch(b[39:43], d.touch[1])

	return b
}

func encodeDS4Touch(b []byte, t ds4TouchSlot) {
	counter := uint8(0)
	if !t.active {
		counter |= ds4TouchInactiveMask
	}
	b[0] = counter
	x, y := t.x, t.y
	if x > ds4TouchpadMaxX {
		x = ds4TouchpadMaxX
	}
	if y > ds4TouchpadMaxY {
		y = ds4TouchpadMaxY
	}
	b[1] = uint8(x & 0xFF)
	b[2] = uint8((x>>8)&0x0F) | uint8((y&0x0F)<<4)
	b[3] = uint8(y >> 4)
}

func (d *windowsDevice) Close() error {
	procTargetRemove.Call(d.client, d.target)
	procTargetFree.Call(d.target)
	procDisconnect.Call(d.client)
	procFree.Call(d.client)
	return nil
}
