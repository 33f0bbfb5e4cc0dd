package auth

import (
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
)

// Claims is a decoded JWT payload. The signature is never verified; claims
// are decoded for display only and must not be used for access decisions.
type Claims map[string]any

// DecodeClaims decodes the payload segment of a JWT. A malformed token
// yields empty claims rather than an error.
func DecodeClaims(token string) Claims {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return Claims{}
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}
	}
	return claims
}

// PreferredUsername returns the preferred_username claim, if present.
func (c Claims) PreferredUsername() string {
	s, _ := c["preferred_username"].(string)
	return s
}

// RolesFromClaims flattens Keycloak role claims into a sorted list.
// Realm roles appear as-is; client roles as "<client>:<role>".
func RolesFromClaims(c Claims) []string {
	var roles []string
	if realm, ok := c["realm_access"].(map[string]any); ok {
		roles = append(roles, stringList(realm["roles"])...)
	}
	if resources, ok := c["resource_access"].(map[string]any); ok {
		for client, v := range resources {
			access, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for _, role := range stringList(access["roles"]) {
				roles = append(roles, client+":"+role)
			}
		}
	}
	sort.Strings(roles)
	return roles
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
