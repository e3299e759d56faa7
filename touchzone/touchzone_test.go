package touchzone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitaoxipad/vitaoxipad-go/touchzone"
)

func TestLocateAtPoint(t *testing.T) {
	idx := touchzone.NewIndex([]touchzone.Zone{
		{
			Rect:   touchzone.Rect{Min: touchzone.Point{X: 0, Y: 0}, Max: touchzone.Point{X: 959, Y: 1086}},
			Action: touchzone.Action{Kind: touchzone.ActionButton, Button: touchzone.ButtonThumbLeft},
		},
		{
			Rect:   touchzone.Rect{Min: touchzone.Point{X: 960, Y: 0}, Max: touchzone.Point{X: 1919, Y: 1086}},
			Action: touchzone.Action{Kind: touchzone.ActionButton, Button: touchzone.ButtonThumbRight},
		},
	})

	z, ok := idx.LocateAtPoint(touchzone.Point{X: 100, Y: 500})
	assert.True(t, ok)
	assert.Equal(t, touchzone.ButtonThumbLeft, z.Action.Button)

	z, ok = idx.LocateAtPoint(touchzone.Point{X: 1800, Y: 500})
	assert.True(t, ok)
	assert.Equal(t, touchzone.ButtonThumbRight, z.Action.Button)

	_, ok = idx.LocateAtPoint(touchzone.Point{X: -1, Y: 0})
	assert.False(t, ok)
}

func TestDpadZone(t *testing.T) {
	idx := touchzone.NewIndex([]touchzone.Zone{
		{
			Rect:   touchzone.Rect{Min: touchzone.Point{X: 0, Y: 0}, Max: touchzone.Point{X: 1919, Y: 1086}},
			Action: touchzone.Action{Kind: touchzone.ActionDpad, Dpad: touchzone.DpadUpLeft},
		},
	})
	z, ok := idx.LocateAtPoint(touchzone.Point{X: 5, Y: 5})
	assert.True(t, ok)
	assert.Equal(t, touchzone.ActionDpad, z.Action.Kind)
	assert.Equal(t, touchzone.DpadUpLeft, z.Action.Dpad)
}
