package claims

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeSegment(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func buildToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	header := encodeSegment(t, map[string]any{"alg": "RS256", "typ": "JWT"})
	return header + "." + encodeSegment(t, payload) + ".sig"
}

func TestParse_WellFormedToken(t *testing.T) {
	payload := map[string]any{
		"sub":   "auth0|abc123",
		"email": "user@example.com",
		"https://viagens.example.com/roles": []any{"admin", "user"},
	}

	got, err := Parse(buildToken(t, payload))
	require.NoError(t, err)

	assert.Equal(t, "auth0|abc123", got["sub"])
	assert.Equal(t, "user@example.com", got["email"])
	assert.Equal(t, []any{"admin", "user"}, got["https://viagens.example.com/roles"])
}

func TestParse_PaddedPayloadSegment(t *testing.T) {
	raw, err := json.Marshal(map[string]any{"sub": "u1"})
	require.NoError(t, err)
	padded := base64.URLEncoding.EncodeToString(raw)

	got, err := Parse("header." + padded + ".sig")
	require.NoError(t, err)
	assert.Equal(t, "u1", got["sub"])
}

func TestParse_IgnoresHeaderAndSignature(t *testing.T) {
	// Header and signature segments are undecoded garbage; only the payload
	// needs to be well-formed.
	token := "!!not-base64!!." + encodeSegment(t, map[string]any{"sub": "u1"}) + ".%%%"

	got, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got["sub"])
}

func TestDecode_MalformedInputs(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "no segments", token: "not-a-token"},
		{name: "two segments", token: "aGVhZGVy.cGF5bG9hZA"},
		{name: "four segments", token: "a.b.c.d"},
		{name: "payload not base64", token: "header.!!!.sig"},
		{name: "payload not json", token: "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".sig"},
		{name: "payload json scalar", token: "header." + base64.RawURLEncoding.EncodeToString([]byte(`"just a string"`)) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.token, nil)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestDecode_WellFormed(t *testing.T) {
	got, ok := Decode(buildToken(t, map[string]any{"sub": "u1"}), nil)
	require.True(t, ok)
	assert.Equal(t, "u1", got["sub"])
}

func TestRoles_UnionAcrossKeysAndCandidates(t *testing.T) {
	keys := []string{"https://viagens.example.com/roles", "roles", "permissions"}

	token := map[string]any{
		"https://viagens.example.com/roles": []any{"admin", "editor"},
		"permissions":                       []any{"trips:write"},
	}
	profile := map[string]any{
		"roles": []any{"user", "admin"},
	}

	got := Roles(keys, token, profile)
	assert.ElementsMatch(t, []string{"admin", "editor", "user", "trips:write"}, got)

	// Source order must not affect membership.
	reversed := Roles(keys, profile, token)
	assert.ElementsMatch(t, got, reversed)
}

func TestRoles_IgnoresNonArrayAndNonString(t *testing.T) {
	keys := []string{"roles"}

	tests := []struct {
		name      string
		candidate map[string]any
		expected  []string
	}{
		{name: "missing key", candidate: map[string]any{"other": []any{"x"}}, expected: []string{}},
		{name: "string value", candidate: map[string]any{"roles": "admin"}, expected: []string{}},
		{name: "object value", candidate: map[string]any{"roles": map[string]any{"admin": true}}, expected: []string{}},
		{name: "number value", candidate: map[string]any{"roles": float64(3)}, expected: []string{}},
		{
			name:      "mixed element types",
			candidate: map[string]any{"roles": []any{"admin", float64(1), true, nil, "user"}},
			expected:  []string{"admin", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Roles(keys, tt.candidate)
			assert.ElementsMatch(t, tt.expected, got)
		})
	}
}

func TestRoles_NilCandidates(t *testing.T) {
	got := Roles([]string{"roles"}, nil, nil)
	assert.Empty(t, got)

	got = Roles([]string{"roles"})
	assert.Empty(t, got)
}

func TestRoles_Deduplicates(t *testing.T) {
	keys := []string{"a", "b"}
	candidate := map[string]any{
		"a": []any{"admin", "admin", "user"},
		"b": []any{"user", "admin"},
	}

	got := Roles(keys, candidate)
	assert.ElementsMatch(t, []string{"admin", "user"}, got)
}

func TestRoles_NamespacedAdminScenario(t *testing.T) {
	token := buildToken(t, map[string]any{
		"https://viagens.example.com/roles": []any{"admin"},
	})

	decoded, ok := Decode(token, nil)
	require.True(t, ok)

	roles := Roles([]string{"https://viagens.example.com/roles", "roles", "permissions"}, decoded)
	assert.True(t, HasRole(roles, "admin"))
}

func TestHasRole(t *testing.T) {
	roles := []string{"user", "editor"}
	assert.True(t, HasRole(roles, "editor"))
	assert.False(t, HasRole(roles, "admin"))
	assert.False(t, HasRole(nil, "admin"))
}
