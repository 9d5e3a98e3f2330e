package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanError(t *testing.T) {
	t.Run("formats message with target", func(t *testing.T) {
		err := NewScanErrorWithTarget(CodeProbeTimeout, "Probe timed out", "10.0.0.5")
		assert.Equal(t, "[PROBE_TIMEOUT] Probe timed out (target: 10.0.0.5)", err.Error())
	})

	t.Run("formats message without target", func(t *testing.T) {
		err := NewScanError(CodePoolExhaustion, "Worker pool exhausted")
		assert.Equal(t, "[POOL_EXHAUSTION] Worker pool exhausted", err.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := WrapScanError(CodeHostUnreachable, "Host is unreachable", cause)
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("carries context", func(t *testing.T) {
		err := NewScanError(CodeResolution, "Resolution failed").
			WithContext("resolver", "ptr").
			WithContext("timeout_ms", 500)
		assert.Equal(t, "ptr", err.Context["resolver"])
		assert.Equal(t, 500, err.Context["timeout_ms"])
	})
}

func TestConfigError(t *testing.T) {
	t.Run("formats message with field", func(t *testing.T) {
		err := NewConfigFieldError(CodeConfiguration, "Invalid value", "concurrency", -1)
		assert.Equal(t, "[CONFIGURATION] Invalid value (field: concurrency)", err.Error())
		assert.Equal(t, -1, err.Value)
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := fmt.Errorf("yaml: bad indentation")
		err := WrapConfigError(CodeConfiguration, "Failed to parse config", cause)
		assert.Equal(t, cause, errors.Unwrap(err))
	})
}

func TestCodeInspection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"invalid range", ErrInvalidRange("10.0.0.0/99"), CodeInvalidRange},
		{"invalid port spec", ErrInvalidPortSpec("80,abc"), CodeInvalidPortSpec},
		{"probe timeout", ErrProbeTimeout("10.0.0.5"), CodeProbeTimeout},
		{"host unreachable", ErrHostUnreachable("10.0.0.5"), CodeHostUnreachable},
		{"resolution", ErrResolution("10.0.0.5", fmt.Errorf("nxdomain")), CodeResolution},
		{"pool exhaustion", ErrPoolExhaustion(fmt.Errorf("queue full")), CodePoolExhaustion},
		{"config", NewConfigError(CodeConfiguration, "missing"), CodeConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsCode(tt.err, tt.code))
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}

	t.Run("plain errors report unknown", func(t *testing.T) {
		err := fmt.Errorf("plain")
		assert.False(t, IsCode(err, CodeValidation))
		assert.Equal(t, CodeUnknown, GetCode(err))
	})
}

func TestRecoverability(t *testing.T) {
	t.Run("per-target failures are recoverable", func(t *testing.T) {
		assert.True(t, IsRecoverable(ErrProbeTimeout("10.0.0.5")))
		assert.True(t, IsRecoverable(ErrHostUnreachable("10.0.0.5")))
		assert.True(t, IsRecoverable(ErrResolution("10.0.0.5", nil)))
		assert.False(t, IsRecoverable(ErrPoolExhaustion(nil)))
	})

	t.Run("input and resource failures are fatal", func(t *testing.T) {
		assert.True(t, IsFatal(ErrPoolExhaustion(nil)))
		assert.True(t, IsFatal(NewConfigError(CodeValidation, "bad options")))
		assert.False(t, IsFatal(ErrProbeTimeout("10.0.0.5")))
	})

	t.Run("invalid range keeps offending spec", func(t *testing.T) {
		err := ErrInvalidRange("300.1.2.0/24")
		require.NotNil(t, err)
		assert.Equal(t, "300.1.2.0/24", err.Target)
	})
}
