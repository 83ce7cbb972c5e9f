package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxBioLength     = 500
	MaxSummaryLength = 500
)

// Personality holds the five trait scores produced by the personality quiz.
// An unset trait is nil.
type Personality struct {
	Openness          *float64 `json:"Openness" bson:"openness" binding:"omitempty,trait"`
	Conscientiousness *float64 `json:"Conscientiousness" bson:"conscientiousness" binding:"omitempty,trait"`
	Extraversion      *float64 `json:"Extraversion" bson:"extraversion" binding:"omitempty,trait"`
	Agreeableness     *float64 `json:"Agreeableness" bson:"agreeableness" binding:"omitempty,trait"`
	Neuroticism       *float64 `json:"Neuroticism" bson:"neuroticism" binding:"omitempty,trait"`
}

// IsEmpty reports whether no trait has been set.
func (p Personality) IsEmpty() bool {
	return p.Openness == nil && p.Conscientiousness == nil && p.Extraversion == nil &&
		p.Agreeableness == nil && p.Neuroticism == nil
}

type Profile struct {
	UserID             uuid.UUID   `json:"userId" bson:"user_id"`
	Interests          []string    `json:"interests" bson:"interests"`
	Activities         []string    `json:"activities" bson:"activities"`
	InterestsNorm      []string    `json:"-" bson:"interests_norm"`
	ActivitiesNorm     []string    `json:"-" bson:"activities_norm"`
	Bio                string      `json:"bio" bson:"bio"`
	Personality        Personality `json:"personality" bson:"personality"`
	PersonalitySummary string      `json:"personalitySummary" bson:"personality_summary"`
	IsProfileComplete  bool        `json:"isProfileComplete" bson:"is_profile_complete"`
	LastUpdated        time.Time   `json:"lastUpdated" bson:"last_updated"`
	Embedding          []float64   `json:"-" bson:"embedding"`
	CreatedAt          time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time   `json:"updatedAt" bson:"updated_at"`
}

// HasTags reports whether the profile lists any interest or activity.
func (p *Profile) HasTags() bool {
	return len(p.Interests) > 0 || len(p.Activities) > 0
}

// SetTags replaces interests and activities and recomputes their canonical forms.
func (p *Profile) SetTags(interests, activities []string) {
	p.Interests = CleanTags(interests)
	p.Activities = CleanTags(activities)
	p.InterestsNorm = NormalizeTags(p.Interests)
	p.ActivitiesNorm = NormalizeTags(p.Activities)
}

// CleanTags trims every entry and drops the empty ones. Display casing is kept.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NormalizeTags returns the canonical comparison form of tags: trimmed,
// lower-cased and de-duplicated, first occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := strings.ToLower(strings.TrimSpace(t))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
