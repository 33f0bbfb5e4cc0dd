package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJWT builds an unsigned token with the given payload claims.
func fakeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecodeClaims(t *testing.T) {
	token := fakeJWT(t, map[string]any{"preferred_username": "admin", "sub": "abc"})
	claims := DecodeClaims(token)
	assert.Equal(t, "admin", claims.PreferredUsername())
	assert.Equal(t, "abc", claims["sub"])
}

func TestDecodeClaims_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b", "a.!!!.c", "a.b.c.d"} {
		assert.Empty(t, DecodeClaims(token), "token %q", token)
	}
}

func TestRolesFromClaims(t *testing.T) {
	claims := Claims{
		"realm_access": map[string]any{
			"roles": []any{"offline_access", "admin"},
		},
		"resource_access": map[string]any{
			"reporting": map[string]any{"roles": []any{"viewer", "editor"}},
			"billing":   map[string]any{"roles": []any{"auditor"}},
		},
	}
	roles := RolesFromClaims(claims)
	assert.Equal(t, []string{
		"admin",
		"billing:auditor",
		"offline_access",
		"reporting:editor",
		"reporting:viewer",
	}, roles)
}

func TestRolesFromClaims_MissingOrMalformed(t *testing.T) {
	assert.Empty(t, RolesFromClaims(Claims{}))
	assert.Empty(t, RolesFromClaims(Claims{"realm_access": "not-a-map"}))
	assert.Empty(t, RolesFromClaims(Claims{
		"resource_access": map[string]any{"svc": "not-a-map"},
	}))
}
