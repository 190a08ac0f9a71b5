package models

// Action is a feedback signal a user can give for a place.
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// FeedbackEvent is a single like/dislike signal. It is built, sent and dropped.
type FeedbackEvent struct {
	UserID       string  `json:"user_id"`
	PlaceID      string  `json:"place_id"`
	Action       Action  `json:"action"`
	CategoryHint *string `json:"category_hint"`
}
