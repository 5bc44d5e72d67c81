package models

import "time"

// Enrollment marks a user as having opted into a challenge. The pair is
// unique; re-enrolling is a no-op.
type Enrollment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_enrollments_user_challenge;not null" json:"user_id"`
	ChallengeID uint      `gorm:"uniqueIndex:idx_enrollments_user_challenge;not null" json:"challenge_id"`
	CreatedAt   time.Time `json:"created_at"`
}
