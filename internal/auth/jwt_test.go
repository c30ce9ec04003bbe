package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("RA12", "دكتوره روجينا", false, "pharmacy-attendance", "secret", time.Hour)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := Parse(token, "secret", "pharmacy-attendance")
	require.NoError(t, err)
	assert.Equal(t, "RA12", claims.Code)
	assert.Equal(t, "دكتوره روجينا", claims.Name)
	assert.False(t, claims.Admin)
}

func TestParseRejects(t *testing.T) {
	token, _, err := Issue("RK36", "دكتور رامي", true, "pharmacy-attendance", "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "wrong-key", "pharmacy-attendance")
	assert.Error(t, err)

	_, err = Parse(token, "secret", "someone-else")
	assert.Error(t, err)

	expired, _, err := Issue("RK36", "دكتور رامي", true, "pharmacy-attendance", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, "secret", "pharmacy-attendance")
	assert.Error(t, err)
}
