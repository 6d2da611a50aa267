// Package candidate holds the canonical candidate model together with the
// normalizer that builds it from loosely-typed payloads and the ranker that
// orders normalized results.
package candidate

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Raw is an engine or storage payload with unknown structure.
type Raw map[string]any

// Years is a non-negative experience count. Unknown marks an absent or
// unparsable value.
type Years int

const Unknown Years = -1

func (y Years) Known() bool { return y >= 0 }

func (y Years) MarshalJSON() ([]byte, error) {
	if !y.Known() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(y))), nil
}

func (y *Years) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = Unknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n < 0 {
		*y = Unknown
		return nil
	}
	*y = Years(n)
	return nil
}

type Contact struct {
	Email string `json:"email,omitempty" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`
}

// Candidate is treated as immutable once returned by Normalize. Use Clone
// before handing a copy to code that may modify it.
type Candidate struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Location        string    `json:"location"`
	MatchScore      float64   `json:"match_score"`
	Skills          []string  `json:"skills"`
	ExperienceYears Years     `json:"experience_years"`
	Contact         Contact   `json:"contact"`
	MatchedAt       time.Time `json:"matched_at"`
	SourceDetails   string    `json:"source_details,omitempty"`
}

// Clone returns a deep copy so the skills slice is never shared.
func (c Candidate) Clone() Candidate {
	out := c
	out.Skills = append([]string(nil), c.Skills...)
	return out
}

func ClampScore(score float64) float64 {
	switch {
	case score != score: // NaN
		return MinScore
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}
