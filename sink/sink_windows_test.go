//go:build windows

package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestWindowsButtonBitMatchesSpecTable pins windowsButtonBit against the same
// spec.md table sink_linux_test.go checks, so the two backends can't drift
// apart on which DS4 button a given abstract Button becomes.
func TestWindowsButtonBitMatchesSpecTable(t *testing.T) {
	cases := []struct {
		name string
		btn  Button
		bit  uint16
	}{
		{"circle", ButtonCircle, ds4ButtonCircle},
		{"square", ButtonSquare, ds4ButtonSquare},
		{"cross", ButtonCross, ds4ButtonCross},
		{"triangle", ButtonTriangle, ds4ButtonTriangle},
		{"options", ButtonOptions, ds4ButtonOptions},
		{"share", ButtonShare, ds4ButtonShare},
		{"ps", ButtonPS, ds4ButtonPS},
		{"thumb right", ButtonThumbRight, ds4ButtonR3},
		{"thumb left", ButtonThumbLeft, ds4ButtonL3},
		{"trigger right", ButtonTriggerRight, ds4ButtonR2},
		{"trigger left", ButtonTriggerLeft, ds4ButtonL2},
		{"shoulder right", ButtonShoulderRight, ds4ButtonR1},
		{"shoulder left", ButtonShoulderLeft, ds4ButtonL1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bit, ok := windowsButtonBit[tc.btn]
			assert.True(t, ok, "missing bit for %v", tc.btn)
			assert.Equal(t, tc.bit, bit)
		})
	}

	assert.NotEqual(t, windowsButtonBit[ButtonTriggerRight], windowsButtonBit[ButtonShoulderRight],
		"trigger and shoulder must map to distinct bits")
	assert.NotEqual(t, windowsButtonBit[ButtonTriggerLeft], windowsButtonBit[ButtonShoulderLeft],
		"trigger and shoulder must map to distinct bits")
}
