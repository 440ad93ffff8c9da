package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotalabs/viagens-ui/config"
)

func testCommandContext() *commandContext {
	return &commandContext{
		Ctx: context.Background(),
		Config: config.AppConfig{
			Auth: config.AuthConfig{
				AdminRole: "admin",
				DevAuth: config.DevAuthConfig{
					UserID: "dev-user",
					Email:  "dev@example.com",
					Name:   "Dev User",
					Roles:  []string{"admin", "user"},
				},
			},
		},
	}
}

func TestParseMintTokenFlagsDefaultsFromConfig(t *testing.T) {
	opts, err := parseMintTokenFlags(testCommandContext(), nil)
	require.NoError(t, err)

	assert.Equal(t, "dev-user", opts.UserID)
	assert.Equal(t, "dev@example.com", opts.Email)
	assert.Equal(t, []string{"admin", "user"}, opts.Roles)
}

func TestParseMintTokenFlagsSplitsRoles(t *testing.T) {
	opts, err := parseMintTokenFlags(testCommandContext(), []string{"--roles", "viewer, editor ,"})
	require.NoError(t, err)

	assert.Equal(t, []string{"viewer", "editor"}, opts.Roles)
}

func TestParseInspectTokenFlagsRequiresToken(t *testing.T) {
	_, err := parseInspectTokenFlags(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--token is required")
}

func TestParseFlushSessionsFlagsRejectsEmptySelection(t *testing.T) {
	_, err := parseFlushSessionsFlags([]string{"--sessions=false", "--boards=false"})
	require.Error(t, err)
}

func TestPrintCheckResultsReportsFailure(t *testing.T) {
	err := printCheckResults([]probeResult{
		{name: "redis", err: nil},
		{name: "viagens-api", err: assert.AnError},
	})
	require.Error(t, err)
}
