package incidents

import (
	"time"
)

// Incident is the central entity. PostID is the natural key shared by both
// source feeds; re-ingesting the same PostID updates the row in place.
type Incident struct {
	ID     uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID int64 `gorm:"column:post_id;not null;uniqueIndex" json:"post_id"`

	Slug         string `gorm:"column:slug" json:"slug,omitempty"`
	Title        string `gorm:"column:title;not null" json:"title"`
	Link         string `gorm:"column:link" json:"link,omitempty"`
	ContentClean string `gorm:"column:content_clean" json:"content_clean,omitempty"`
	ExcerptClean string `gorm:"column:excerpt_clean" json:"excerpt_clean,omitempty"`

	DateText  string  `gorm:"column:date_text" json:"date_text,omitempty"`
	StartDate *string `gorm:"column:start_date;index" json:"start_date,omitempty"` // ISO YYYY-MM-DD
	EndDate   *string `gorm:"column:end_date;index" json:"end_date,omitempty"`

	// No column default: a false here must reach the database as false,
	// and gorm skips zero values for defaulted columns on insert.
	Display     bool       `gorm:"column:display;not null" json:"display"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Incident) TableName() string { return "incident" }
