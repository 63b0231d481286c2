package sync

import "time"

type LibraryEvent struct {
	Type           string    `json:"type"` // "library.update" or "library.delete"
	UserID         string    `json:"user_id"`
	AnimeID        string    `json:"anime_id"`
	CurrentEpisode int       `json:"current_episode,omitempty"`
	Status         string    `json:"status,omitempty"`
	At             time.Time `json:"at"`
}
