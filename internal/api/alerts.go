package api

import "sync"

// Alerts is a dashboard.Notifier that holds the latest message until the
// page is rendered, the way a browser alert is shown once and dismissed.
type Alerts struct {
	mu      sync.Mutex
	pending string
}

func NewAlerts() *Alerts { return &Alerts{} }

func (a *Alerts) Notify(msg string) {
	a.mu.Lock()
	a.pending = msg
	a.mu.Unlock()
}

// Pop returns the pending message, if any, and clears it.
func (a *Alerts) Pop() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	msg := a.pending
	a.pending = ""
	return msg
}
