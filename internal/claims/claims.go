// Package claims extracts role information from bearer tokens and profile
// claim objects without verifying signatures. Verification is the viagens
// API's job; this package only shapes what the UI is allowed to show.
package claims

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Parse decodes the payload (middle) segment of a three-segment token as
// base64url-encoded JSON. Only the payload segment is examined; header and
// signature segments are never decoded, so their malformation is irrelevant.
func Parse(token string) (map[string]any, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("decode payload segment: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("parse payload json: %w", err)
	}
	return out, nil
}

// Decode is the tolerant form of Parse used on request paths: it never
// fails, returning (nil, false) for any malformed input and logging the
// diagnostic instead. Total over all string inputs.
func Decode(token string, logger *slog.Logger) (map[string]any, bool) {
	out, err := Parse(token)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("token payload not decodable", "error", err)
		return nil, false
	}
	return out, true
}

// Roles scans the candidate claim objects for the given keys, in order, and
// returns the union of all array-valued entries found. Nil candidates and
// missing or non-array keys contribute nothing, as do non-string array
// elements. The result is deduplicated; first appearance wins the position,
// but callers must not rely on order.
func Roles(keys []string, candidates ...map[string]any) []string {
	seen := make(map[string]struct{})
	roles := make([]string, 0, 4)

	for _, c := range candidates {
		if c == nil {
			continue
		}
		for _, key := range keys {
			for _, role := range stringList(c[key]) {
				if _, ok := seen[role]; ok {
					continue
				}
				seen[role] = struct{}{}
				roles = append(roles, role)
			}
		}
	}
	return roles
}

// HasRole reports whether the role set contains the given role name.
func HasRole(roles []string, name string) bool {
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}

// stringList coerces a decoded JSON value into its string elements.
// Values that are not arrays yield nothing.
func stringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return list
	default:
		return nil
	}
}
