package testdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeedIsDeterministic(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	a := Messages(now, "Mary")
	b := Messages(now.Add(time.Hour), "Sam")
	require.Len(t, a, 3)
	for i := range a {
		require.Equal(t, a[i].ID, b[i].ID, "ids do not depend on time or patient")
	}
	require.Contains(t, a[1].Preview, "Dear Mary,")
	require.Contains(t, Messages(now, "")[1].Preview, "Dear patient,")

	s, err := Seed(now, "Mary")
	require.NoError(t, err)
	require.Equal(t, 2, s.UnreadCount())
}
