package vperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitaoxipad/vitaoxipad-go/internal/vperr"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := vperr.NetworkConnect("dial tcp 10.0.0.1:5000", cause)

	assert.True(t, errors.Is(err, vperr.ErrNetworkConnect))
	assert.False(t, errors.Is(err, vperr.ErrSinkCreate))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := vperr.SinkWrite("uinput write failed", cause)

	assert.Same(t, cause, errors.Unwrap(err))
}

func TestConfigInvalidHasNoCause(t *testing.T) {
	err := vperr.ConfigInvalid("unknown preset bogus")
	assert.Nil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "bogus")
}
