package candidate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// NormalizationError reports the first field whose absence makes a record
// unusable. Only the id is fatal; everything else falls back to a default.
type NormalizationError struct {
	Field string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("could not process candidate record: missing %s", e.Field)
}

// Known field aliases across the engine response and stored match payloads.
var (
	idKeys         = []string{"id", "candidate_id", "candidateId", "cv_id", "_id"}
	nameKeys       = []string{"name", "full_name", "fullName", "candidate_name"}
	roleKeys       = []string{"role", "title", "position", "job_title"}
	locationKeys   = []string{"location", "city", "region"}
	scoreKeys      = []string{"match_score", "matchScore", "score"}
	experienceKeys = []string{"experience_years", "experienceYears", "years_of_experience", "experience"}
	matchedAtKeys  = []string{"matched_at", "matchedAt", "created_at", "createdAt"}
	detailsKeys    = []string{"source_details", "sourceDetails", "rationale", "reason", "snippet"}
)

// Normalize converts one raw payload into a Candidate. scoredAt is used as
// MatchedAt unless the payload carries its own parseable timestamp.
// It never panics; a missing id is the only error.
func Normalize(raw Raw, scoredAt time.Time) (Candidate, error) {
	id := coerceString(lookup(raw, idKeys))
	if id == "" {
		return Candidate{}, &NormalizationError{Field: "id"}
	}

	c := Candidate{
		ID:              id,
		Name:            coerceString(lookup(raw, nameKeys)),
		Role:            coerceString(lookup(raw, roleKeys)),
		Location:        coerceString(lookup(raw, locationKeys)),
		MatchScore:      ClampScore(coerceFloat(lookup(raw, scoreKeys))),
		Skills:          normalizeSkills(raw["skills"]),
		ExperienceYears: coerceYears(lookup(raw, experienceKeys)),
		Contact:         decodeContact(raw),
		MatchedAt:       coerceTime(lookup(raw, matchedAtKeys), scoredAt),
		SourceDetails:   coerceString(lookup(raw, detailsKeys)),
	}
	return c, nil
}

// NormalizeAll normalizes a batch, skipping records that fail and returning
// their errors alongside the usable candidates.
func NormalizeAll(raws []Raw, scoredAt time.Time) ([]Candidate, []error) {
	out := make([]Candidate, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		c, err := Normalize(raw, scoredAt)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out = append(out, c)
	}
	return out, errs
}

func lookup(raw Raw, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func normalizeSkills(v any) []string {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []string:
		items = make([]any, 0, len(val))
		for _, s := range val {
			items = append(items, s)
		}
	case map[string]any:
		// nested shape: {"skills": [...]} one level deep
		if inner, ok := val["skills"].([]any); ok {
			items = inner
		} else if inner, ok := val["skills"].([]string); ok {
			return normalizeSkills(inner)
		}
	case Raw:
		return normalizeSkills(map[string]any(val))
	}

	skills := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		s := coerceString(item)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, s)
	}
	return skills
}

func decodeContact(raw Raw) Contact {
	var src map[string]any
	switch val := raw["contact"].(type) {
	case map[string]any:
		src = val
	case Raw:
		src = map[string]any(val)
	default:
		src = map[string]any{"email": raw["email"], "phone": raw["phone"]}
	}

	var contact Contact
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &contact,
	})
	if err != nil {
		return Contact{}
	}
	if err := decoder.Decode(src); err != nil {
		return Contact{}
	}
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	return contact
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceYears(v any) Years {
	var f float64
	switch val := v.(type) {
	case nil:
		return Unknown
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return Unknown
		}
		f = parsed
	case float64, float32, int, int64, json.Number:
		f = coerceFloat(val)
	default:
		return Unknown
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return Unknown
	}
	return Years(int(f))
}

func coerceTime(v any, fallback time.Time) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t
			}
		}
	}
	return fallback
}
