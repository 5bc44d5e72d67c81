package models

import "time"

// DateLayout is the storage format for local calendar dates.
const DateLayout = "2006-01-02"

// Checkin records one fulfilled challenge per user per local calendar day.
// OnDate is a 'YYYY-MM-DD' string in the configured zone; comparing dates
// as strings sidesteps column-type and timezone mismatches.
type Checkin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_checkins_user_challenge_date;not null" json:"user_id"`
	ChallengeID uint      `gorm:"uniqueIndex:idx_checkins_user_challenge_date;not null" json:"challenge_id"`
	OnDate      string    `gorm:"size:10;uniqueIndex:idx_checkins_user_challenge_date;not null" json:"on_date"`
	Value       int       `gorm:"not null" json:"value"`
	CreatedAt   time.Time `json:"created_at"`
}
