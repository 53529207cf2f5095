package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalambet/pathcraft/internal/advisor"
	"github.com/kalambet/pathcraft/internal/career"
)

// FailureMessage is what the user is told when a submission fails.
const FailureMessage = "An error occurred while processing your request."

var (
	// ErrSubmitInProgress is returned while an earlier submission is still outstanding.
	ErrSubmitInProgress = errors.New("a submission is already in progress")

	// ErrUnknownSection is returned when navigating to a section that does not exist.
	ErrUnknownSection = errors.New("unknown section")
)

// Notifier shows a blocking, user-facing message.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Controller owns the dashboard state: the profile form, the latest
// recommendations and the UI flags. It is safe for concurrent use.
type Controller struct {
	advisor  advisor.Advisor
	notifier Notifier
	logger   *slog.Logger

	mu    sync.RWMutex
	state View
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where failure alerts go. The default only logs.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a Controller with an empty form, no recommendations and the
// form section active.
func New(a advisor.Advisor, opts ...Option) *Controller {
	c := &Controller{
		advisor: a,
		logger:  slog.Default(),
		state: View{
			Recommendations: career.Recommendations{}.Clone(),
			ActiveSection:   SectionForm,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(msg string) {
			c.logger.Warn("user notification", "message", msg)
		})
	}
	return c
}

// View returns a copy of the current state.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v := c.state
	v.Recommendations = c.state.Recommendations.Clone()
	return v
}

// SetField replaces one profile field, leaving the others unchanged.
func (c *Controller) SetField(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.state.Profile.With(key, value)
	if err != nil {
		return err
	}
	c.state.Profile = p
	return nil
}

// Submit sends the current profile to the advisor. It is rejected without a
// network call when a submission is outstanding or a field is empty.
//
// On success the recommendations are replaced and the results section
// becomes active. On failure the error is logged, the user is notified
// once, and the previous recommendations stay in place.
func (c *Controller) Submit(ctx context.Context) (career.Recommendations, error) {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return career.Recommendations{}, ErrSubmitInProgress
	}
	p := c.state.Profile
	if err := p.Validate(); err != nil {
		c.mu.Unlock()
		return career.Recommendations{}, err
	}
	c.state.Loading = true
	c.mu.Unlock()

	// The lock is released for the call so the rest of the page stays usable.
	recs, err := c.advisor.Recommend(ctx, p)

	c.mu.Lock()
	c.state.Loading = false
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("career profile submission failed", "role", p.Role, "error", err)
		c.notifier.Notify(FailureMessage)
		return career.Recommendations{}, fmt.Errorf("submitting profile: %w", err)
	}
	c.state.Recommendations = recs.Clone()
	c.state.ActiveSection = SectionResults
	c.state.SidebarOpen = false
	c.mu.Unlock()

	c.logger.Info("recommendations received",
		"courses", len(recs.Courses),
		"videos", len(recs.Videos),
		"jobs", len(recs.Jobs),
		"roadmap_steps", len(recs.Roadmap),
	)
	return recs.Clone(), nil
}

// ScrollTo makes a section active and closes the sidebar.
func (c *Controller) ScrollTo(s Section) error {
	if !validSection(s) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ActiveSection = s
	c.state.SidebarOpen = false
	return nil
}

func (c *Controller) OpenSidebar() {
	c.mu.Lock()
	c.state.SidebarOpen = true
	c.mu.Unlock()
}

func (c *Controller) CloseSidebar() {
	c.mu.Lock()
	c.state.SidebarOpen = false
	c.mu.Unlock()
}

// ToggleTheme flips between light and dark mode.
func (c *Controller) ToggleTheme() {
	c.mu.Lock()
	c.state.DarkMode = !c.state.DarkMode
	c.mu.Unlock()
}

// Logout clears the login flag. Nothing ever sets it; there is no auth flow.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state.LoggedIn = false
	c.mu.Unlock()
}
