package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	var missing *User
	require.Equal(t, "Unknown User", missing.DisplayName())
	require.Equal(t, "Unknown User", (&User{}).DisplayName())
	require.Equal(t, "ann_k", (&User{Username: "ann_k"}).DisplayName())
	require.Equal(t, "Ann", (&User{Name: "Ann", Username: "ann_k"}).DisplayName())
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := ParseID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, got)

	for _, raw := range []string{"", "abc", uuid.Nil.String()} {
		_, err := ParseID(raw)
		require.ErrorIs(t, err, ErrInvalidUserID, raw)
	}
}

func TestSummaryOfNilUser(t *testing.T) {
	var u *User
	require.Nil(t, u.Summary())
}
