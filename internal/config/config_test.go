package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/healthapp/internal/inbox"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEALTHAPP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "info", c.Log.Level)
	require.Equal(t, "Europe/London", c.UI.Timezone)
	require.True(t, c.Inbox.Seed)
	require.Equal(t, 2, c.Inbox.SuggestDistance)
	require.Equal(t, 5, c.Patient.BookingDays)
	require.Equal(t, inbox.FilterAll, c.Inbox.FilterMode())
	require.Equal(t, []Phone{{Label: "Mobile", Number: "07700 900123"}, {Label: "Home", Number: "020 7946 0123"}}, c.Patient.Phones())
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HEALTHAPP_CONFIG", filepath.Join(t.TempDir(), "nested", "config.toml"))
	want := Config{
		Log:     LogConfig{Level: "debug", File: "/tmp/healthapp.log"},
		UI:      UIConfig{Timezone: "UTC"},
		Inbox:   InboxConfig{Seed: false, SuggestDistance: 3, Filter: "flagged"},
		Patient: PatientConfig{Name: "Sam", PhoneNumbers: []string{"Work=0113 496 0000"}, BookingDays: 2},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, inbox.FilterFlagged, got.Inbox.FilterMode())
}

func TestUnknownFilterRejected(t *testing.T) {
	t.Setenv("HEALTHAPP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("HEALTHAPP_INBOX_FILTER", "starred")
	_, err := Load()
	require.ErrorContains(t, err, "inbox.filter")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HEALTHAPP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("HEALTHAPP_LOG_LEVEL", "warn")
	t.Setenv("HEALTHAPP_INBOX_SEED", "false")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "warn", c.Log.Level)
	require.False(t, c.Inbox.Seed)
}

func TestNegativeSuggestDistance(t *testing.T) {
	t.Setenv("HEALTHAPP_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("HEALTHAPP_INBOX_SUGGEST_DISTANCE", "-1")
	_, err := Load()
	require.Error(t, err)
}

func TestPhonesParsing(t *testing.T) {
	p := PatientConfig{PhoneNumbers: []string{" Mobile = 07700 900123 ", "020 7946 0999", "Empty="}}
	require.Equal(t, []Phone{
		{Label: "Mobile", Number: "07700 900123"},
		{Label: "Phone", Number: "020 7946 0999"},
	}, p.Phones())
}
