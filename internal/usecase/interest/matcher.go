package interest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/google/uuid"
)

// MatchQuery holds the parsed filter of a match request.
type MatchQuery struct {
	Limit         int     `json:"limit"`
	MinSimilarity float64 `json:"minSimilarity"`
}

// ParseMatchQuery reads raw query values leniently. Anything unusable falls
// back to the default; limit is capped at the configured maximum.
func (uc *InterestUseCase) ParseMatchQuery(limitRaw, minRaw string) MatchQuery {
	q := MatchQuery{Limit: uc.cfg.DefaultLimit}

	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 {
		q.Limit = n
	}
	if q.Limit > uc.cfg.MaxLimit {
		q.Limit = uc.cfg.MaxLimit
	}

	if f, err := strconv.ParseFloat(minRaw, 64); err == nil && f >= 0 && f <= 1 {
		q.MinSimilarity = f
	}
	return q
}

type MatchDetails struct {
	TotalInterests     int `json:"totalInterests"`
	TotalActivities    int `json:"totalActivities"`
	MatchingInterests  int `json:"matchingInterests"`
	MatchingActivities int `json:"matchingActivities"`
}

type MatchIdentity struct {
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	ProfilePic *string `json:"profilePic"`
}

type MatchUser struct {
	UserID             uuid.UUID                 `json:"userId"`
	SimilarityScore    float64                   `json:"similarityScore"`
	SimilarityCategory domain.SimilarityCategory `json:"similarityCategory"`
	MatchDetails       MatchDetails              `json:"matchDetails"`
	Interests          []string                  `json:"interests"`
	Activities         []string                  `json:"activities"`
	LastUpdated        time.Time                 `json:"lastUpdated"`
	User               MatchIdentity             `json:"user"`
}

type MatchMetadata struct {
	TotalMatches   int        `json:"totalMatches"`
	UserInterests  int        `json:"userInterests"`
	UserActivities int        `json:"userActivities"`
	FilterCriteria MatchQuery `json:"filterCriteria"`
}

type MatchResponse struct {
	Message  string        `json:"message"`
	Metadata MatchMetadata `json:"metadata"`
	Users    []MatchUser   `json:"users"`
}

type scored struct {
	profile *domain.Profile
	sim     domain.Similarity
}

// FindMatches ranks other users by weighted Jaccard similarity of their
// canonical interests and activities.
func (uc *InterestUseCase) FindMatches(ctx context.Context, userID uuid.UUID, q MatchQuery) (*MatchResponse, error) {
	me, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ensureNorm(me)

	resp := &MatchResponse{
		Metadata: MatchMetadata{
			UserInterests:  len(me.InterestsNorm),
			UserActivities: len(me.ActivitiesNorm),
			FilterCriteria: q,
		},
		Users: []MatchUser{},
	}

	if !me.HasTags() {
		resp.Message = "Add some interests or activities to your profile to find matches"
		return resp, nil
	}

	candidates, err := uc.profileRepo.ListCandidates(ctx, userID, me.InterestsNorm, me.ActivitiesNorm)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	results := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == userID {
			continue
		}
		ensureNorm(c)
		sim := domain.Compare(me, c)
		if sim.Score < q.MinSimilarity {
			continue
		}
		results = append(results, scored{profile: c, sim: sim})
	}

	ids := make([]uuid.UUID, len(results))
	for i, r := range results {
		ids[i] = r.profile.UserID
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load candidate identities: %w", err)
	}

	known := results[:0]
	for _, r := range results {
		if _, ok := users[r.profile.UserID]; ok {
			known = append(known, r)
		}
	}
	results = known

	sort.Slice(results, func(i, j int) bool {
		if results[i].sim.Score != results[j].sim.Score {
			return results[i].sim.Score > results[j].sim.Score
		}
		return results[i].profile.UserID.String() < results[j].profile.UserID.String()
	})

	resp.Metadata.TotalMatches = len(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	for _, r := range results {
		u := users[r.profile.UserID]
		resp.Users = append(resp.Users, MatchUser{
			UserID:             r.profile.UserID,
			SimilarityScore:    r.sim.Score,
			SimilarityCategory: domain.CategoryFor(r.sim.Score),
			MatchDetails: MatchDetails{
				TotalInterests:     len(r.profile.Interests),
				TotalActivities:    len(r.profile.Activities),
				MatchingInterests:  r.sim.MatchingInterests,
				MatchingActivities: r.sim.MatchingActivities,
			},
			Interests:   r.profile.Interests,
			Activities:  r.profile.Activities,
			LastUpdated: r.profile.LastUpdated,
			User: MatchIdentity{
				Name:       u.Name,
				Username:   u.Username,
				ProfilePic: u.ProfilePic,
			},
		})
	}

	resp.Message = "No matching users found"
	if len(resp.Users) > 0 {
		resp.Message = fmt.Sprintf("Found %d users with similar interests", len(resp.Users))
	}
	return resp, nil
}

// ensureNorm fills canonical tags for records written before they were stored.
func ensureNorm(p *domain.Profile) {
	if len(p.InterestsNorm) == 0 && len(p.Interests) > 0 {
		p.InterestsNorm = domain.NormalizeTags(p.Interests)
	}
	if len(p.ActivitiesNorm) == 0 && len(p.Activities) > 0 {
		p.ActivitiesNorm = domain.NormalizeTags(p.Activities)
	}
}
