// Package vitaconfig builds the four named preset layouts from spec.md §4.4:
// which physical Vita surfaces drive which virtual DS4 inputs.
package vitaconfig

import "github.com/vitaoxipad/vitaoxipad-go/touchzone"

// TriggerMode selects whether LT/RT map to shoulder buttons or analog
// triggers (spec.md §3 "Trigger configuration").
type TriggerMode int

const (
	TriggerShoulder TriggerMode = iota // LT/RT -> L1/R1
	TriggerAnalog                      // LT/RT -> L2/R2, analog pressure 0 or 255
)

// TouchpadSource names which physical surface, if any, passes raw
// coordinates through to the DS4 touchpad sink instead of being zone-mapped.
type TouchpadSource int

const (
	TouchpadSourceNone TouchpadSource = iota
	TouchpadSourceFront
	TouchpadSourceRear
)

// SurfaceConfig is "Touch configuration" from spec.md §3: either a
// passthrough touchpad, or a zone index.
type SurfaceConfig struct {
	Passthrough bool
	Zones       *touchzone.Index
}

// Config is the "Overall config" struct from spec.md §3.
type Config struct {
	FrontTouch     SurfaceConfig
	RearTouch      SurfaceConfig
	Trigger        TriggerMode
	TouchpadSource TouchpadSource
}

// Front and rear surface rectangles, fixed by spec.md §4.4.
var (
	frontRect = touchzone.Rect{Min: touchzone.Point{X: 0, Y: 0}, Max: touchzone.Point{X: 1920, Y: 1087}}
	rearRect  = touchzone.Rect{Min: touchzone.Point{X: 0, Y: 0}, Max: touchzone.Point{X: 1920, Y: 887}}
)

func half(r touchzone.Rect) (left, right touchzone.Rect) {
	midX := r.Min.X + (r.Max.X-r.Min.X)/2
	left = touchzone.Rect{Min: r.Min, Max: touchzone.Point{X: midX, Y: r.Max.Y}}
	right = touchzone.Rect{Min: touchzone.Point{X: midX + 1, Y: r.Min.Y}, Max: r.Max}
	return left, right
}

func quadrants(r touchzone.Rect) (tl, tr, bl, br touchzone.Rect) {
	midX := r.Min.X + (r.Max.X-r.Min.X)/2
	midY := r.Min.Y + (r.Max.Y-r.Min.Y)/2
	tl = touchzone.Rect{Min: r.Min, Max: touchzone.Point{X: midX, Y: midY}}
	tr = touchzone.Rect{Min: touchzone.Point{X: midX + 1, Y: r.Min.Y}, Max: touchzone.Point{X: r.Max.X, Y: midY}}
	bl = touchzone.Rect{Min: touchzone.Point{X: r.Min.X, Y: midY + 1}, Max: touchzone.Point{X: midX, Y: r.Max.Y}}
	br = touchzone.Rect{Min: touchzone.Point{X: midX + 1, Y: midY + 1}, Max: r.Max}
	return tl, tr, bl, br
}

func buttonZones(r touchzone.Rect, b touchzone.Button) touchzone.Zone {
	return touchzone.Zone{Rect: r, Action: touchzone.Action{Kind: touchzone.ActionButton, Button: b}}
}

func halvesZones(r touchzone.Rect, left, right touchzone.Button) *touchzone.Index {
	l, ri := half(r)
	return touchzone.NewIndex([]touchzone.Zone{buttonZones(l, left), buttonZones(ri, right)})
}

func quadrantZones(r touchzone.Rect, tlB, trB, blB, brB touchzone.Button) *touchzone.Index {
	tl, tr, bl, br := quadrants(r)
	return touchzone.NewIndex([]touchzone.Zone{
		buttonZones(tl, tlB), buttonZones(tr, trB), buttonZones(bl, blB), buttonZones(br, brB),
	})
}

// Name is one of the four preset identifiers accepted by the CLI's
// `-c/--configuration` flag (spec.md §6).
type Name string

const (
	Standart      Name = "standart"
	AltTriggers   Name = "alt_triggers"
	RearTouchpad  Name = "rear_touchpad"
	FrontTouchpad Name = "front_touchpad"
)

// Build returns the Config for a named preset, or an error for an unknown
// name (spec.md §7 kind ConfigInvalid).
func Build(name Name) (Config, error) {
	switch name {
	case Standart:
		return Config{
			FrontTouch: SurfaceConfig{Zones: halvesZones(frontRect, touchzone.ButtonThumbLeft, touchzone.ButtonThumbRight)},
			RearTouch:  SurfaceConfig{Zones: halvesZones(rearRect, touchzone.ButtonShoulderLeft, touchzone.ButtonShoulderRight)},
			Trigger:    TriggerAnalog,
		}, nil

	case AltTriggers:
		return Config{
			FrontTouch: SurfaceConfig{Zones: halvesZones(frontRect, touchzone.ButtonThumbLeft, touchzone.ButtonThumbRight)},
			RearTouch:  SurfaceConfig{Zones: halvesZones(rearRect, touchzone.ButtonTriggerLeft, touchzone.ButtonTriggerRight)},
			Trigger:    TriggerShoulder,
		}, nil

	case RearTouchpad:
		return Config{
			FrontTouch: SurfaceConfig{Zones: quadrantZones(frontRect,
				touchzone.ButtonShoulderLeft, touchzone.ButtonShoulderRight,
				touchzone.ButtonThumbLeft, touchzone.ButtonThumbRight)},
			RearTouch:      SurfaceConfig{Passthrough: true},
			Trigger:        TriggerAnalog,
			TouchpadSource: TouchpadSourceRear,
		}, nil

	case FrontTouchpad:
		return Config{
			FrontTouch: SurfaceConfig{Passthrough: true},
			RearTouch: SurfaceConfig{Zones: quadrantZones(rearRect,
				touchzone.ButtonShoulderLeft, touchzone.ButtonShoulderRight,
				touchzone.ButtonThumbLeft, touchzone.ButtonThumbRight)},
			Trigger:        TriggerAnalog,
			TouchpadSource: TouchpadSourceFront,
		}, nil

	default:
		return Config{}, ErrUnknownPreset(name)
	}
}

// ErrUnknownPreset reports an unrecognized preset name.
type ErrUnknownPreset Name

func (e ErrUnknownPreset) Error() string {
	return "vitaconfig: unknown preset " + string(e)
}

// Default mirrors original_source's Config::default(): front touchpad
// passthrough, no rear zones, shoulder triggers. None of the four named
// presets reproduce this combination, so it's kept as its own entry point.
func Default() Config {
	return Config{
		FrontTouch:     SurfaceConfig{Passthrough: true},
		Trigger:        TriggerShoulder,
		TouchpadSource: TouchpadSourceFront,
	}
}

// Builder is a chainable Config builder, mirroring original_source's
// derive_builder-generated ConfigBuilder for assembling layouts outside the
// four fixed presets.
type Builder struct {
	cfg Config
}

// NewBuilder starts from a zeroed Config (both surfaces zone-mapped to no
// zones, shoulder triggers, no touchpad source).
func NewBuilder() *Builder {
	return &Builder{}
}

// FrontZones sets the front surface to a zone index.
func (b *Builder) FrontZones(idx *touchzone.Index) *Builder {
	b.cfg.FrontTouch = SurfaceConfig{Zones: idx}
	return b
}

// FrontTouchpad sets the front surface to passthrough and records it as the
// touchpad source.
func (b *Builder) FrontTouchpad() *Builder {
	b.cfg.FrontTouch = SurfaceConfig{Passthrough: true}
	b.cfg.TouchpadSource = TouchpadSourceFront
	return b
}

// RearZones sets the rear surface to a zone index.
func (b *Builder) RearZones(idx *touchzone.Index) *Builder {
	b.cfg.RearTouch = SurfaceConfig{Zones: idx}
	return b
}

// RearTouchpad sets the rear surface to passthrough and records it as the
// touchpad source.
func (b *Builder) RearTouchpad() *Builder {
	b.cfg.RearTouch = SurfaceConfig{Passthrough: true}
	b.cfg.TouchpadSource = TouchpadSourceRear
	return b
}

// Trigger sets the trigger mode.
func (b *Builder) Trigger(mode TriggerMode) *Builder {
	b.cfg.Trigger = mode
	return b
}

// Build returns the assembled Config.
func (b *Builder) Build() Config {
	return b.cfg
}
