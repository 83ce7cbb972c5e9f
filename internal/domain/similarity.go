package domain

import "math"

const (
	InterestWeight = 0.6
	ActivityWeight = 0.4
)

type SimilarityCategory string

const (
	SimilarityVeryHigh SimilarityCategory = "very-high"
	SimilarityHigh     SimilarityCategory = "high"
	SimilarityMedium   SimilarityCategory = "medium"
	SimilarityLow      SimilarityCategory = "low"
	SimilarityVeryLow  SimilarityCategory = "very-low"
)

// CategoryFor buckets a similarity score.
func CategoryFor(score float64) SimilarityCategory {
	switch {
	case score >= 0.8:
		return SimilarityVeryHigh
	case score >= 0.6:
		return SimilarityHigh
	case score >= 0.4:
		return SimilarityMedium
	case score >= 0.2:
		return SimilarityLow
	default:
		return SimilarityVeryLow
	}
}

// Similarity is the comparison of two profiles' canonical tag sets.
type Similarity struct {
	Score              float64
	InterestScore      float64
	ActivityScore      float64
	MatchingInterests  int
	MatchingActivities int
}

// Compare computes the weighted Jaccard similarity of two profiles using their
// canonical tag sets. The composite score is rounded to two decimals.
func Compare(a, b *Profile) Similarity {
	interestHits, interestScore := jaccard(a.InterestsNorm, b.InterestsNorm)
	activityHits, activityScore := jaccard(a.ActivitiesNorm, b.ActivitiesNorm)

	return Similarity{
		Score:              round2(InterestWeight*interestScore + ActivityWeight*activityScore),
		InterestScore:      interestScore,
		ActivityScore:      activityScore,
		MatchingInterests:  interestHits,
		MatchingActivities: activityHits,
	}
}

// jaccard returns |a ∩ b| and |a ∩ b| / |a ∪ b|, treating both slices as sets.
// The coefficient is 0 when the union is empty.
func jaccard(a, b []string) (int, float64) {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	union := len(set)
	inter := 0
	seen := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0, 0
	}
	return inter, float64(inter) / float64(union)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
