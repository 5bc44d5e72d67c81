package models

import "time"

// Challenge kinds. A 'bool' challenge records done/not-done; a 'minutes'
// challenge records a minutes figure with a minimum qualifying threshold.
const (
	ChallengeKindBool    = "bool"
	ChallengeKindMinutes = "minutes"
)

// Challenge is an immutable (post-seed) definition of a recurring daily
// commitment. Window times are local-zone 'HH:MM' strings and never span
// midnight.
type Challenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Kind        string    `gorm:"size:16;not null" json:"kind"`
	Threshold   int       `gorm:"default:0" json:"threshold"`
	WindowStart string    `gorm:"size:5;not null" json:"window_start"`
	WindowEnd   string    `gorm:"size:5;not null" json:"window_end"`
	Reminder    string    `gorm:"size:512" json:"reminder"`
	CreatedAt   time.Time `json:"created_at"`
}
