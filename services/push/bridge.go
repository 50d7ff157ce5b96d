package push

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edunest/backend"
	"edunest/models"
	"edunest/store"

	"go.uber.org/zap"
)

// Bridge registration states.
const (
	StateUninitialized = "uninitialized"
	StateUnregistered  = "unregistered"
	StateRegistered    = "registered"
)

// Data markers distinguishing how a payload reached the store.
const (
	MarkerForeground = "fromForeground"
	MarkerBackground = "fromBackground"
)

// DefaultNotificationsRoute is where a tap lands when the payload
// carries no screen field.
const DefaultNotificationsRoute = "/notifications"

// Bridge relays platform push events into the notification store and
// the navigation callback. All callbacks are injected by the owning
// shell; each slot holds at most one callback, last write wins, and an
// unset slot is a silent no-op.
type Bridge struct {
	Plugin     Plugin
	State      store.KV
	Backend    *backend.Client
	Notifier   LocalNotifier
	AppVersion string

	mu             sync.Mutex
	state          string
	onNotification func(models.Notification)
	onNavigate     func(path string)
	onClear        func()

	now func() time.Time
}

func NewBridge(plugin Plugin, state store.KV, api *backend.Client, notifier LocalNotifier, appVersion string) *Bridge {
	return &Bridge{
		Plugin:     plugin,
		State:      state,
		Backend:    api,
		Notifier:   notifier,
		AppVersion: appVersion,
		state:      StateUninitialized,
		now:        time.Now,
	}
}

func (b *Bridge) SetNotificationCallback(cb func(models.Notification)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onNotification = cb
}

func (b *Bridge) SetNavigationCallback(cb func(path string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onNavigate = cb
}

func (b *Bridge) SetClearCallback(cb func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClear = cb
}

// RegistrationState reports where the bridge is in the push lifecycle.
func (b *Bridge) RegistrationState() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Initialize walks the registration lifecycle: outside a native context
// it terminates silently; a denied permission leaves the bridge
// unregistered for the session. Prior listeners are always released
// before new ones attach, so re-initializing never duplicates delivery.
func (b *Bridge) Initialize(ctx context.Context) error {
	if !b.Plugin.Native() {
		return nil
	}

	granted, err := b.Plugin.RequestPermission(ctx)
	if err != nil {
		b.setState(StateUnregistered)
		return fmt.Errorf("push permission request failed: %w", err)
	}
	if !granted {
		zap.L().Info("push notification permission denied")
		b.setState(StateUnregistered)
		return nil
	}

	b.Plugin.RemoveAllListeners()
	b.Plugin.AddListeners(Listeners{
		OnRegistration:      b.handleRegistration,
		OnRegistrationError: b.handleRegistrationError,
		OnForegroundMessage: b.handleForeground,
		OnAction:            b.handleTap,
	})

	if err := b.Plugin.Register(ctx); err != nil {
		b.setState(StateUnregistered)
		return fmt.Errorf("push registration failed: %w", err)
	}
	b.setState(StateRegistered)
	return nil
}

func (b *Bridge) setState(s string) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// handleRegistration persists the device token and transmits it to the
// backend with device metadata. Transmission failure is logged only; it
// is never retried and does not revert the registration state.
func (b *Bridge) handleRegistration(deviceToken string) {
	ctx := context.Background()
	b.State.Set(ctx, store.KeyPushToken, deviceToken)

	authToken, _ := b.State.Get(ctx, store.KeyAuthToken)
	userID, _ := b.State.Get(ctx, store.KeyAuthUserID)
	if authToken == "" || userID == "" {
		zap.L().Debug("not authenticated, skipping push token registration")
		return
	}

	req := models.RegisterTokenRequest{
		UserID:     userID,
		Token:      deviceToken,
		DeviceType: deviceTypeFor(b.Plugin.Platform()),
		DeviceID:   deviceToken,
		AppVersion: b.AppVersion,
	}
	if err := b.Backend.RegisterPushToken(ctx, req); err != nil {
		zap.L().Warn("failed to register push token with backend", zap.Error(err))
		return
	}
	zap.L().Info("push token registered with backend", zap.String("deviceType", req.DeviceType))
}

func (b *Bridge) handleRegistrationError(err error) {
	zap.L().Error("push registration error", zap.Error(err))
	b.setState(StateUnregistered)
}

// handleForeground schedules a local tray entry and forwards the
// payload, tagged as a foreground delivery.
func (b *Bridge) handleForeground(p Payload) {
	if b.Notifier != nil {
		b.Notifier.Schedule(p.Title, p.Body)
	}

	id := p.ID
	if id == "" {
		title := p.Title
		if title == "" {
			title = "notification"
		}
		id = fmt.Sprintf("fg-%s-%d", title, b.now().UnixMilli())
	}
	b.forward(models.Notification{
		ID:         id,
		Title:      p.Title,
		Body:       p.Body,
		Data:       withMarker(p.Data, MarkerForeground),
		ReceivedAt: b.now(),
	})
}

// handleTap forwards a tapped payload tagged as background delivery and
// resolves the navigation target: the payload's screen field verbatim,
// or the notifications listing.
func (b *Bridge) handleTap(p Payload) {
	title := p.Title
	if title == "" {
		title = "Notification"
	}
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("bg-%s-%d", p.Title, b.now().UnixMilli())
	}
	b.forward(models.Notification{
		ID:         id,
		Title:      title,
		Body:       p.Body,
		Data:       withMarker(p.Data, MarkerBackground),
		ReceivedAt: b.now(),
	})

	target := p.Data["screen"]
	if target == "" {
		target = DefaultNotificationsRoute
	}
	b.mu.Lock()
	navigate := b.onNavigate
	b.mu.Unlock()
	if navigate != nil {
		navigate(target)
	}
}

func (b *Bridge) forward(n models.Notification) {
	b.mu.Lock()
	cb := b.onNotification
	b.mu.Unlock()
	if cb != nil {
		cb(n)
	}
}

// NotifyTrayCleared relays a tray-wide clear from the platform side.
func (b *Bridge) NotifyTrayCleared() {
	b.mu.Lock()
	cb := b.onClear
	b.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func withMarker(data map[string]string, marker string) map[string]string {
	tagged := make(map[string]string, len(data)+1)
	for k, v := range data {
		tagged[k] = v
	}
	tagged[marker] = "true"
	return tagged
}

func deviceTypeFor(platform string) string {
	switch platform {
	case "ios":
		return models.DeviceTypeApple
	case "android":
		return models.DeviceTypeAndroid
	default:
		return models.DeviceTypeWeb
	}
}
