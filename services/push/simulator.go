package push

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SimulatorPlugin stands in for the native push plugin. The shell's
// ingress endpoints and the tests drive deliveries through it.
type SimulatorPlugin struct {
	PlatformName string // "ios", "android" or "web"
	Granted      bool   // permission prompt outcome
	DeviceToken  string // token emitted on registration

	mu        sync.Mutex
	listeners Listeners
	attached  int // lifetime AddListeners count, for duplicate-attach checks
}

func NewSimulatorPlugin(platform string, granted bool) *SimulatorPlugin {
	return &SimulatorPlugin{
		PlatformName: platform,
		Granted:      granted,
		DeviceToken:  fmt.Sprintf("sim-token-%d", time.Now().UnixNano()),
	}
}

func (p *SimulatorPlugin) Native() bool {
	return p.PlatformName != "web"
}

func (p *SimulatorPlugin) Platform() string {
	return p.PlatformName
}

func (p *SimulatorPlugin) RequestPermission(context.Context) (bool, error) {
	return p.Granted, nil
}

func (p *SimulatorPlugin) Register(context.Context) error {
	p.mu.Lock()
	cb := p.listeners.OnRegistration
	token := p.DeviceToken
	p.mu.Unlock()
	if cb != nil {
		cb(token)
	}
	return nil
}

func (p *SimulatorPlugin) AddListeners(l Listeners) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = l
	p.attached++
}

func (p *SimulatorPlugin) RemoveAllListeners() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = Listeners{}
}

// AttachCount reports how many times listeners were attached over the
// plugin's lifetime.
func (p *SimulatorPlugin) AttachCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attached
}

// DeliverForeground simulates a push arriving while the app is active.
func (p *SimulatorPlugin) DeliverForeground(payload Payload) {
	p.mu.Lock()
	cb := p.listeners.OnForegroundMessage
	p.mu.Unlock()
	if cb != nil {
		cb(payload)
	}
}

// DeliverTap simulates the user tapping a notification from the tray.
func (p *SimulatorPlugin) DeliverTap(payload Payload) {
	p.mu.Lock()
	cb := p.listeners.OnAction
	p.mu.Unlock()
	if cb != nil {
		cb(payload)
	}
}

// FailRegistration simulates a platform-side registration error.
func (p *SimulatorPlugin) FailRegistration(err error) {
	p.mu.Lock()
	cb := p.listeners.OnRegistrationError
	p.mu.Unlock()
	if cb != nil {
		cb(err)
	}
}
