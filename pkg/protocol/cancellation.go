package protocol

import "fmt"

// CancelConverter converts between a notification vocabulary N and the
// canonical CancelledNotification.
//
// For every CancelledNotification c, TryIntoCancelled(FromCancelled(c)) yields
// c unchanged. For a notification that is not a cancellation, TryIntoCancelled
// fails with a *NotCancelledError carrying the original value.
type CancelConverter[N Message] interface {
	TryIntoCancelled(n N) (CancelledNotification, error)
	FromCancelled(c CancelledNotification) N
}

// NotCancelledError reports that a notification is not a cancellation. The
// original notification is returned intact.
type NotCancelledError[N Message] struct {
	Notification N
}

func (e *NotCancelledError[N]) Error() string {
	if any(e.Notification) == nil {
		return "nil notification is not a cancellation"
	}
	return fmt.Sprintf("notification %q is not a cancellation", e.Notification.Method())
}

// ClientNotifications converts client notifications
type ClientNotifications struct{}

var _ CancelConverter[ClientNotification] = ClientNotifications{}

// TryIntoCancelled extracts the cancellation from n
func (ClientNotifications) TryIntoCancelled(n ClientNotification) (CancelledNotification, error) {
	if c, ok := n.(CancelledNotification); ok {
		return c, nil
	}
	return CancelledNotification{}, &NotCancelledError[ClientNotification]{Notification: n}
}

// FromCancelled wraps c as a client notification
func (ClientNotifications) FromCancelled(c CancelledNotification) ClientNotification {
	return c
}

// ServerNotifications converts server notifications
type ServerNotifications struct{}

var _ CancelConverter[ServerNotification] = ServerNotifications{}

// TryIntoCancelled extracts the cancellation from n
func (ServerNotifications) TryIntoCancelled(n ServerNotification) (CancelledNotification, error) {
	if c, ok := n.(CancelledNotification); ok {
		return c, nil
	}
	return CancelledNotification{}, &NotCancelledError[ServerNotification]{Notification: n}
}

// FromCancelled wraps c as a server notification
func (ServerNotifications) FromCancelled(c CancelledNotification) ServerNotification {
	return c
}
