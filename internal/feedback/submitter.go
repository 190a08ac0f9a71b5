package feedback

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/backend"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/ui"
)

// SavedMessage is the status shown after feedback was stored.
const SavedMessage = "Saved 👍 — search again to see boost"

// Sender delivers a feedback event to the backend.
type Sender interface {
	SendFeedback(ctx context.Context, event models.FeedbackEvent) error
}

// Submitter sends feedback events and reports the outcome in the status area.
type Submitter struct {
	sender  Sender
	status  ui.Status
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewSubmitter(sender Sender, status ui.Status, metrics *metrics.Metrics, log *slog.Logger) *Submitter {
	return &Submitter{sender: sender, status: status, metrics: metrics, log: log}
}

// Submit sends one event. Success and failure are reported with distinct
// status messages, and the failure is returned to the caller.
func (s *Submitter) Submit(ctx context.Context, event models.FeedbackEvent) error {
	if err := s.sender.SendFeedback(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "Failed to submit feedback",
			"user", event.UserID,
			"place", event.PlaceID,
			"action", event.Action,
			"error", err)
		s.metrics.Feedback.WithLabelValues(string(event.Action), "failure").Inc()
		s.status.SetStatus("Feedback failed: " + backend.ErrorMessage(err))
		return err
	}

	s.log.InfoContext(ctx, "Feedback saved", "user", event.UserID, "place", event.PlaceID, "action", event.Action)
	s.metrics.Feedback.WithLabelValues(string(event.Action), "success").Inc()
	s.status.SetStatus(SavedMessage)

	return nil
}
