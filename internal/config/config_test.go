package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesDefaults(t *testing.T) {
	c, err := LoadFromBytes([]byte("server:\n  port: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 8480, c.Server.Port)
	assert.NotEmpty(t, c.Database.SQLitePath)
	assert.Equal(t, "gpt-4o", c.Summarizer.Model)
	assert.Equal(t, "0 3 * * *", c.Engagement.Schedule)
	assert.Equal(t, 7, c.Engagement.AtRiskAfterDays)
	assert.Equal(t, 21, c.Engagement.InactiveAfterDays)
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	t.Setenv("TEST_COACH_KEY", "sk-test")

	c, err := LoadFromBytes([]byte("summarizer:\n  api_key: ${TEST_COACH_KEY}\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", c.Summarizer.APIKey)
}

func TestLoadFromBytesExplicitValuesWin(t *testing.T) {
	c, err := LoadFromBytes([]byte("server:\n  port: 9000\nengagement:\n  at_risk_after_days: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, 3, c.Engagement.AtRiskAfterDays)
}

func TestLoadFromBytesRejectsInvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("server: [broken"))
	require.Error(t, err)
}
