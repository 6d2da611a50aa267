// Package share builds the shareable, optionally redacted export of a
// shortlist. Building an export never dispatches it.
package share

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
)

type ValidationCode string

const (
	InvalidRecipient ValidationCode = "invalid_recipient"
	EmptyCart        ValidationCode = "empty_cart"
)

// ValidationError is a user-correctable export input error.
type ValidationError struct {
	Code ValidationCode
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case InvalidRecipient:
		return "recipient email is missing or invalid"
	case EmptyCart:
		return "shortlist is empty"
	default:
		return fmt.Sprintf("validation failed: %s", e.Code)
	}
}

// Lister is satisfied by shortlist.Cart.
type Lister interface {
	List() []candidate.Candidate
}

type ShareExport struct {
	RecipientEmail string                `json:"recipient_email"`
	Subject        string                `json:"subject"`
	Message        string                `json:"message"`
	Candidates     []candidate.Candidate `json:"candidate_snapshots"`
}

// BuildExport snapshots the cart and applies the policy to the snapshots.
func BuildExport(cart Lister, policy Policy, recipientEmail, subject, message string) (*ShareExport, error) {
	recipientEmail = strings.TrimSpace(recipientEmail)
	if !plausibleEmail(recipientEmail) {
		return nil, &ValidationError{Code: InvalidRecipient}
	}

	var items []candidate.Candidate
	if cart != nil {
		items = cart.List()
	}
	if len(items) == 0 {
		return nil, &ValidationError{Code: EmptyCart}
	}

	snapshots := make([]candidate.Candidate, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, redact(item, policy))
	}

	return &ShareExport{
		RecipientEmail: recipientEmail,
		Subject:        strings.TrimSpace(subject),
		Message:        strings.TrimSpace(message),
		Candidates:     snapshots,
	}, nil
}

func redact(c candidate.Candidate, policy Policy) candidate.Candidate {
	out := c.Clone()
	if policy.Blinds(FieldEmail) {
		out.Contact.Email = RedactionMarker
	}
	if policy.Blinds(FieldPhone) {
		out.Contact.Phone = RedactionMarker
	}
	return out
}

// plausibleEmail requires local@domain with both parts non-empty and no
// whitespace. Deliverability is the mail collaborator's concern.
func plausibleEmail(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Trim(domain, ".") != ""
}

// Body renders the export as a plain-text email body.
func (e *ShareExport) Body() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Shortlisted candidates (%d):\n", len(e.Candidates))
	for i, c := range e.Candidates {
		fmt.Fprintf(&b, "\n%d. %s", i+1, orDash(c.Name))
		if c.Role != "" {
			fmt.Fprintf(&b, " - %s", c.Role)
		}
		fmt.Fprintf(&b, "\n   Location: %s\n   Match score: %.0f\n", orDash(c.Location), c.MatchScore)
		if c.ExperienceYears.Known() {
			fmt.Fprintf(&b, "   Experience: %d years\n", int(c.ExperienceYears))
		}
		if len(c.Skills) > 0 {
			fmt.Fprintf(&b, "   Skills: %s\n", strings.Join(c.Skills, ", "))
		}
		fmt.Fprintf(&b, "   Email: %s\n   Phone: %s\n", orDash(c.Contact.Email), orDash(c.Contact.Phone))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
