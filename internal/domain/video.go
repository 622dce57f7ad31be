package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Video struct {
	VideoID         uuid.UUID `json:"video_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	SourceURL       string    `json:"source_url"`
	DurationSeconds int       `json:"duration_seconds"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// WatchedVideo is a fact log entry. Uniqueness is per (account, video,
// calendar day) in the business timezone.
type WatchedVideo struct {
	WatchID   uuid.UUID `json:"watch_id"`
	AccountID uuid.UUID `json:"account_id"`
	VideoID   uuid.UUID `json:"video_id"`
	WatchDay  string    `json:"watch_day"`
	WatchedAt time.Time `json:"watched_at"`
}

func ValidateVideoInput(title, sourceURL string, durationSeconds int) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(sourceURL) == "" {
		return ErrInvalidInput
	}
	if durationSeconds <= 0 {
		return ErrInvalidInput
	}
	return nil
}
