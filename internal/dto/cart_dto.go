package dto

import "github.com/fadilmartias/talent-shortlist/internal/candidate"

type AddCartItemRequest struct {
	CandidateID string `json:"candidate_id" validate:"required_without=MatchID,excluded_with=MatchID,max=255"`
	MatchID     string `json:"match_id" validate:"omitempty,uuid"`
}

type CartResponse struct {
	Items []candidate.Candidate `json:"items"`
	Count int                   `json:"count"`
}

// ExportRequest leaves recipient checks to the export engine so that a bad
// recipient is reported as invalid_recipient.
type ExportRequest struct {
	RecipientEmail   string   `json:"recipient_email" validate:"max=320"`
	Subject          string   `json:"subject" validate:"max=200"`
	Message          string   `json:"message" validate:"max=5000"`
	BlindContactInfo bool     `json:"blind_contact_info"`
	BlindFields      []string `json:"blind_fields" validate:"omitempty,max=8,dive,blind_field"`
}

type ShareResponse struct {
	MessageID string `json:"message_id"`
	Export    any    `json:"export"`
}
