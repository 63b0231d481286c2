package models

import "time"

type ProgressHistory struct {
	UserID  string    `json:"user_id"`
	AnimeID string    `json:"anime_id"`
	Episode int       `json:"episode"`
	Season  *int      `json:"season,omitempty"`
	At      time.Time `json:"at"`
}
