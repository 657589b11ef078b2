package session

import (
	"encoding/json"
	"fmt"
)

// The backend is not consistent about payload shape: some endpoints nest the
// profile under a "user" key, others return it as the top-level body, and
// secondary fields appear in either snake_case or camelCase depending on the
// handler. Normalization is therefore a first-class contract of this package:
// consumers only ever see a fully populated Profile, never a partial map.

// normalizeProfile extracts a Profile from a response body, preferring a
// nested "user" object over the flat body. A profile without an identity
// field is rejected as malformed.
func normalizeProfile(body []byte) (*Profile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	fields := raw
	if nested, ok := raw["user"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(nested, &inner); err == nil && inner != nil {
			fields = inner
		}
	}

	p := &Profile{
		ID:              stringField(fields, "id", "_id"),
		FullName:        stringField(fields, "full_name", "fullName", "name"),
		Email:           stringField(fields, "email"),
		Role:            Role(stringField(fields, "role")),
		VolunteerPoints: intField(fields, "volunteer_points", "volunteerPoints"),
	}
	if p.ID == "" {
		return nil, fmt.Errorf("%w: profile missing identity field", ErrMalformedResponse)
	}
	return p, nil
}

// extractToken pulls the bearer token out of a login/register response body.
func extractToken(body []byte) (string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	token := stringField(raw, "token", "access_token", "accessToken")
	if token == "" {
		return "", fmt.Errorf("%w: response missing token", ErrMalformedResponse)
	}
	return token, nil
}

// stringField returns the first present, non-empty string among the given
// keys. Non-string values are ignored rather than treated as errors.
func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first present numeric value among the given keys,
// defaulting to 0 when absent or non-numeric so a missing count never
// propagates as a null into the UI layer.
func intField(fields map[string]json.RawMessage, keys ...string) int {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		// Some handlers serialize counters as floats.
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return int(f)
		}
	}
	return 0
}
