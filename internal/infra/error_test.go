//go:build unit

package infra_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"booking-lifecycle/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfraError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cause := errors.New("dial tcp: connection refused")

	err := infra.WrapErr(logger, infra.KindTransport, "get booking", cause)
	assert.True(t, infra.IsKind(err, infra.KindTransport))
	assert.False(t, infra.IsKind(err, infra.KindRejected))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "TRANSPORT: get booking")

	err = infra.UpstreamErr(logger, infra.KindRejected, 409, "Booking is already cancelled", "cancel booking")
	e, ok := infra.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, "Booking is already cancelled", e.Message)

	assert.False(t, infra.IsKind(cause, infra.KindTransport))
}
