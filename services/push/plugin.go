// Package push owns the device push lifecycle: platform registration,
// inbound delivery and tap handling, and the hand-off of payloads into
// the notification store.
package push

import "context"

// Payload is a push message as delivered by the platform service. Data
// is the opaque key-value bag attached by the sender.
type Payload struct {
	ID    string            `json:"id,omitempty"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Listeners is the set of platform events the bridge subscribes to.
type Listeners struct {
	OnRegistration      func(deviceToken string)
	OnRegistrationError func(err error)
	OnForegroundMessage func(p Payload)
	OnAction            func(p Payload)
}

// Plugin abstracts the platform push service (APNS/FCM behind the
// packaged app). A non-native platform has no push capability and the
// bridge terminates silently on it.
type Plugin interface {
	Native() bool
	// Platform reports "ios", "android" or "web".
	Platform() string
	RequestPermission(ctx context.Context) (bool, error)
	// Register asks the platform for a device token; the token arrives
	// through the registration listener, not the return value.
	Register(ctx context.Context) error
	AddListeners(l Listeners)
	RemoveAllListeners()
}
