package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTags(t *testing.T) {
	p := &Profile{}
	p.SetTags([]string{" Chess ", "", "chess", "Board Games"}, nil)

	require.Equal(t, []string{"Chess", "chess", "Board Games"}, p.Interests)
	require.Equal(t, []string{"chess", "board games"}, p.InterestsNorm)
	require.Equal(t, []string{}, p.Activities)
	require.Equal(t, []string{}, p.ActivitiesNorm)
	require.True(t, p.HasTags())

	p.SetTags([]string{"  "}, []string{})
	require.False(t, p.HasTags())
}

func TestPersonalityIsEmpty(t *testing.T) {
	require.True(t, Personality{}.IsEmpty())
	v := 42.0
	require.False(t, Personality{Neuroticism: &v}.IsEmpty())
}
