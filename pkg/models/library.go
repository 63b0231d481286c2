package models

import "time"

type LibraryItem struct {
	UserID         string    `json:"user_id"`
	AnimeID        string    `json:"anime_id"`
	CurrentEpisode int       `json:"current_episode"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}
