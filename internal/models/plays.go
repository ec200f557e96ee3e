package models

type Player struct {
	Name     string  `json:"name"`
	Score    *string `json:"score,omitempty"`
	IsNew    bool    `json:"is_new_player"`
	IsWinner bool    `json:"is_winner"`
}

// PlayRecord is a logged play session. Records are replaced wholesale on
// re-fetch, never patched.
type PlayRecord struct {
	PlayID          int64    `json:"play_id"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes"`
	Quantity        int      `json:"quantity"`
	Incomplete      bool     `json:"incomplete"`
	Location        *string  `json:"location,omitempty"`
	GameID          int64    `json:"game_id"`
	GameName        string   `json:"game_name"`
	Players         []Player `json:"players"`
	Comments        *string  `json:"comments,omitempty"`
}

// PlaysPage carries the declared total, which is not the page length.
type PlaysPage struct {
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Plays []PlayRecord `json:"plays"`
}
