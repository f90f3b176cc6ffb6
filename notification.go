package vtcore

// NotificationPayload carries a parsed desktop notification request (OSC 99).
// Each OSC 99 sequence is delivered as its own payload: the chunks of a
// multi-part notification are not joined, and ID and Done only identify
// which notification a chunk belongs to and whether it is the last. The
// rest carry per-request metadata parsed from the "k=v" options preceding
// the payload.
type NotificationPayload struct {
	// ID identifies the notification, allowing later updates/closes to target it.
	ID string
	// Done indicates this is the final chunk of a (possibly multi-part) notification.
	Done bool
	// PayloadType is the option payload type: "title", "body", "close", "?" (capability query), etc.
	PayloadType string
	// Encoding names the payload text encoding ("" for raw UTF-8, "1" for base64).
	Encoding string
	// Actions lists action identifiers offered on the notification.
	Actions []string
	// TrackClose requests a report when the notification is dismissed.
	TrackClose bool
	// Timeout is the requested auto-dismiss timeout in milliseconds (0 means none).
	Timeout int
	// AppName names the application raising the notification.
	AppName string
	// Type is the notification category/type hint.
	Type string
	// IconName names a themed icon to display.
	IconName string
	// IconCacheID identifies a previously-uploaded icon image.
	IconCacheID string
	// Sound names a sound to play, if any.
	Sound string
	// Urgency is the notification urgency level (0=low, 1=normal, 2=critical).
	Urgency int
	// Occasion constrains when the notification should be shown (e.g. "unfocused", "always").
	Occasion string
	// Data is the decoded payload content (title/body text, depending on PayloadType).
	Data []byte
}

// NotificationProvider handles desktop notification requests (OSC 99).
// Notify's return value, if non-empty, is written back verbatim as the
// terminal's response (used for capability queries).
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// NoopNotification discards all notification requests.
type NoopNotification struct{}

func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var _ NotificationProvider = (*NoopNotification)(nil)

// WithNotification sets the handler for desktop notification requests (OSC 99).
// Defaults to a no-op if not set.
func WithNotification(p NotificationProvider) Option {
	return func(t *Terminal) {
		t.notificationProvider = p
	}
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}

// DesktopNotification delivers a parsed OSC 99 request to the notification provider.
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	response := provider.Notify(payload)
	if response != "" {
		t.writeResponseString(response)
	}
}
