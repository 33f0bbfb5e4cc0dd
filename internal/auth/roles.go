package auth

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"

	"ssocli/internal/config"
)

// Sources of server-side role information in a RoleReport.
const (
	SourceUserInfo      = "userinfo"
	SourceIntrospection = "introspection"
)

// RoleReport holds roles extracted client-side from the JWT alongside the
// server-side view. User credentials are checked against the userinfo
// endpoint; client credentials against token introspection.
type RoleReport struct {
	JWT          []string
	Server       []string
	ServerSource string
}

// Roles fetches a token and collects both role views. The JWT decode and the
// server round-trip run concurrently.
func (a *Authenticator) Roles(ctx context.Context, envKey, userKey string) (*RoleReport, error) {
	env, user, err := a.lookup(envKey, userKey)
	if err != nil {
		return nil, err
	}
	token, err := a.Token(ctx, envKey, userKey)
	if err != nil {
		return nil, err
	}

	report := &RoleReport{ServerSource: SourceUserInfo}
	if user.AuthType == config.AuthTypeClient {
		report.ServerSource = SourceIntrospection
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.JWT = RolesFromClaims(DecodeClaims(token))
		return nil
	})
	g.Go(func() error {
		var claims Claims
		var err error
		if user.AuthType == config.AuthTypeClient {
			claims, err = a.introspect(gctx, env.SSOURL, envKey, userKey, token)
		} else {
			claims, err = a.userinfo(gctx, env.SSOURL, token)
		}
		if err != nil {
			return err
		}
		report.Server = RolesFromClaims(claims)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (a *Authenticator) userinfo(ctx context.Context, baseURL, token string) (Claims, error) {
	var claims Claims
	if err := a.getJSON(ctx, baseURL+userinfoPath, token, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *Authenticator) introspect(ctx context.Context, baseURL, envKey, userKey, token string) (Claims, error) {
	creds, err := a.credentials(envKey, userKey)
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", creds.id)
	form.Set("client_secret", creds.secret)

	var claims Claims
	if err := a.postForm(ctx, baseURL+introspectPath, form, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}
