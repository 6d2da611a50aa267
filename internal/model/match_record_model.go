package model

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one ranked candidate from a user's search. Payload holds the
// normalized candidate as JSON and is passed through the normalizer again on
// read, so records written by older versions still load.
type MatchRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(128);index:idx_match_user_created,priority:1" json:"user_id"`
	JobID       *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	QueryText   string     `gorm:"type:text" json:"query_text"`
	CandidateID string     `gorm:"type:varchar(255)" json:"candidate_id"`
	MatchScore  float64    `gorm:"type:float" json:"match_score"`
	Payload     string     `gorm:"type:jsonb" json:"payload"`
	CreatedAt   time.Time  `gorm:"index:idx_match_user_created,priority:2" json:"created_at"`
}
