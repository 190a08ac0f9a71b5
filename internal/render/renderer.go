package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/ui"
)

// MissingUserPrompt is shown when feedback is given without a user id.
const MissingUserPrompt = "Set a user_id to save feedback"

var (
	ErrMissingUserID  = errors.New("user id is not set")
	ErrUnboundControl = errors.New("control is not bound to a renderer")
	ErrNoSuchEntry    = errors.New("no such result")
)

// Display is the results area. Replace discards everything previously shown.
type Display interface {
	Replace(entries []Entry)
}

// UserSource reads the user identifier field.
type UserSource interface {
	UserID() string
}

// FeedbackHandler receives the events produced by feedback controls.
type FeedbackHandler interface {
	Submit(ctx context.Context, event models.FeedbackEvent) error
}

// Control is a like/dislike control bound to one place.
type Control struct {
	Action       models.Action
	PlaceID      string
	CategoryHint *string
	activate     func(ctx context.Context, c *Control) error
}

// Activate runs the control's feedback action.
func (c *Control) Activate(ctx context.Context) error {
	if c.activate == nil {
		return ErrUnboundControl
	}
	return c.activate(ctx, c)
}

// Renderer fills the display with results and wires their feedback controls.
type Renderer struct {
	display  Display
	users    UserSource
	prompter ui.Prompter
	feedback FeedbackHandler
	log      *slog.Logger

	mu      sync.RWMutex
	entries []Entry
}

func NewRenderer(
	display Display,
	users UserSource,
	prompter ui.Prompter,
	feedback FeedbackHandler,
	log *slog.Logger,
) *Renderer {
	return &Renderer{display: display, users: users, prompter: prompter, feedback: feedback, log: log}
}

// Render replaces the display contents with one entry per result, in order.
func (r *Renderer) Render(results []models.PlaceResult) {
	entries := BuildEntries(results)
	for _, e := range entries {
		for _, c := range e.Controls {
			c.activate = r.activate
		}
	}

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()

	r.display.Replace(entries)
}

// Entries returns the entries currently displayed.
func (r *Renderer) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Entry(nil), r.entries...)
}

// Control returns the control for action on the entry at index (0-based).
func (r *Renderer) Control(index int, action models.Action) (*Control, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.entries) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchEntry, index+1)
	}
	control := r.entries[index].Control(action)
	if control == nil {
		return nil, fmt.Errorf("unknown action %q", action)
	}

	return control, nil
}

// activate reads the user id at click time, not at render time.
func (r *Renderer) activate(ctx context.Context, c *Control) error {
	userID := strings.TrimSpace(r.users.UserID())
	if userID == "" {
		r.prompter.Prompt(MissingUserPrompt)
		return ErrMissingUserID
	}

	r.log.DebugContext(ctx, "Feedback control activated", "place", c.PlaceID, "action", c.Action)

	return r.feedback.Submit(ctx, models.FeedbackEvent{
		UserID:       userID,
		PlaceID:      c.PlaceID,
		Action:       c.Action,
		CategoryHint: c.CategoryHint,
	})
}
