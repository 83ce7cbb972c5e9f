package gemini

import (
	"testing"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestFallbackSummary(t *testing.T) {
	tests := []struct {
		name string
		p    domain.Personality
		want string
	}{
		{name: "no traits", p: domain.Personality{}, want: "You have a balanced personality."},
		{name: "all middling", p: domain.Personality{Openness: score(50), Extraversion: score(55)}, want: "You have a balanced personality."},
		{
			name: "high and low",
			p:    domain.Personality{Openness: score(80), Extraversion: score(20)},
			want: "You come across as curious and open to new ideas and calm and reflective.",
		},
		{
			name: "only two strongest kept in order",
			p: domain.Personality{
				Openness:          score(90),
				Conscientiousness: score(90),
				Agreeableness:     score(90),
			},
			want: "You come across as curious and open to new ideas and organised and dependable.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FallbackSummary(tt.p))
		})
	}
}

func TestTraitLinesSkipsUnset(t *testing.T) {
	lines := traitLines(domain.Personality{Neuroticism: score(33.4)})
	require.Equal(t, "Neuroticism: 33\n", lines)
}
