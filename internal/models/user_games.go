package models

import "time"

type AssignmentStatus string

const (
	StatusAssigned  AssignmentStatus = "assigned"
	StatusCompleted AssignmentStatus = "completed"
)

// ItchGame is an itch.io game waiting for, or carrying, a community review.
// ReviewDate and AssignDate are unix milliseconds.
type ItchGame struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	GameURL    string    `json:"game_url" gorm:"not null"`
	ThumbURL   *string   `json:"thumb_url,omitempty"`
	Windows    bool      `json:"windows" gorm:"default:false"`
	Mac        bool      `json:"mac" gorm:"default:false"`
	Linux      bool      `json:"linux" gorm:"default:false"`
	GameName   string    `json:"game_name" gorm:"not null"`
	GameHost   *string   `json:"game_host,omitempty"`
	DevName    *string   `json:"dev_name,omitempty"`
	DevURL     *string   `json:"dev_url,omitempty"`
	ShortText  *string   `json:"short_text,omitempty"`
	Reviewer   *string   `json:"reviewer,omitempty" gorm:"index:idx_games_reviewer;index:idx_games_status,priority:1"`
	Thumbnail  *string   `json:"thumbnail,omitempty"`
	ReviewURL  *string   `json:"review_url,omitempty"`
	ReviewDate *int64    `json:"review_date,omitempty" gorm:"index:idx_games_status,priority:2"`
	AssignDate *int64    `json:"assign_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ItchGame) TableName() string {
	return "games"
}

func (g *ItchGame) Assigned() bool {
	return g.Reviewer != nil && *g.Reviewer != ""
}

func (g *ItchGame) Reviewed() bool {
	return g.ReviewDate != nil
}

// Assignment records a user taking a game for review.
type Assignment struct {
	ID          int64            `json:"id" gorm:"primaryKey"`
	UserID      string           `json:"user_id" gorm:"not null;index:idx_user_assignments_user"`
	Username    string           `json:"username"`
	GameID      int64            `json:"game_id" gorm:"not null"`
	AssignedAt  time.Time        `json:"assigned_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	ReviewURL   *string          `json:"review_url,omitempty"`
	Status      AssignmentStatus `json:"status" gorm:"type:varchar(20);default:'assigned';index:idx_user_assignments_status"`
}

func (Assignment) TableName() string {
	return "user_assignments"
}

type GameStats struct {
	Total      int64 `json:"total"`
	Assigned   int64 `json:"assigned"`
	Unassigned int64 `json:"unassigned"`
	Completed  int64 `json:"completed"`
}

// percent returns part as a share of Total, or 0 for an empty table.
func (s GameStats) percent(part int64) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(part) / float64(s.Total) * 100
}

func (s GameStats) AvailablePct() float64 { return s.percent(s.Unassigned) }
func (s GameStats) AssignedPct() float64  { return s.percent(s.Assigned) }
func (s GameStats) CompletedPct() float64 { return s.percent(s.Completed) }
