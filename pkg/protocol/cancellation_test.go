package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationRoundTrip(t *testing.T) {
	cancels := []CancelledNotification{
		{RequestID: NewNumber(7)},
		{RequestID: NewString("abc"), Reason: "user aborted"},
		{RequestID: NewNumber(0), Reason: ""},
	}

	for _, c := range cancels {
		got, err := ClientNotifications{}.TryIntoCancelled(ClientNotifications{}.FromCancelled(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)

		got, err = ServerNotifications{}.TryIntoCancelled(ServerNotifications{}.FromCancelled(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestCancellationConversionFailureKeepsOriginal(t *testing.T) {
	progress := ProgressNotification{ProgressToken: NewProgressToken(NewNumber(1)), Progress: 3}

	_, err := ServerNotifications{}.TryIntoCancelled(progress)
	require.Error(t, err)

	var notCancelled *NotCancelledError[ServerNotification]
	require.True(t, errors.As(err, &notCancelled))
	assert.Equal(t, progress, notCancelled.Notification)
	assert.Contains(t, err.Error(), MethodProgress)

	_, err = ClientNotifications{}.TryIntoCancelled(InitializedNotification{})
	var clientErr *NotCancelledError[ClientNotification]
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, InitializedNotification{}, clientErr.Notification)
}

func TestCancelledNotificationMethod(t *testing.T) {
	assert.Equal(t, "notifications/cancelled", CancelledNotification{}.Method())
}
