package share

import (
	"fmt"
	"strings"
)

// RedactionMarker replaces every blinded value in an export.
const RedactionMarker = "[hidden]"

// Field names a candidate field a policy may blind. Only contact channels are
// recognised; name and location are never blinded.
type Field string

const (
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

var contactFields = []Field{FieldEmail, FieldPhone}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range contactFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown redaction field %q", s)
}

// Policy controls which fields are blinded at export time. BlindContactInfo
// blinds every contact channel; BlindFields blinds individual ones.
type Policy struct {
	BlindContactInfo bool    `json:"blind_contact_info"`
	BlindFields      []Field `json:"blind_fields,omitempty"`
}

// Blinds reports whether the policy hides f.
func (p Policy) Blinds(f Field) bool {
	if p.BlindContactInfo {
		for _, known := range contactFields {
			if f == known {
				return true
			}
		}
	}
	for _, bf := range p.BlindFields {
		if bf == f {
			return true
		}
	}
	return false
}
