// Package auth fetches OIDC access tokens from Keycloak-style SSO servers
// and inspects the roles they carry.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"ssocli/internal/config"
	"ssocli/internal/logging"
	"ssocli/internal/secrets"
)

// passwordClientID is the shared public client used for the password grant,
// matching what the SSO frontend itself uses.
const passwordClientID = "delivery-ops-frontend-client"

const (
	tokenPath      = "/protocol/openid-connect/token"
	userinfoPath   = "/protocol/openid-connect/userinfo"
	introspectPath = "/protocol/openid-connect/token/introspect"
)

// SecretLookup resolves the keyring secret for an env/user pair.
type SecretLookup func(envKey, userKey string) (string, error)

// Authenticator fetches tokens for the environments and users of a loaded
// config. Secrets come exclusively from the OS keyring.
type Authenticator struct {
	cfg    *config.Config
	client *http.Client
	cache  *TokenCache
	secret SecretLookup
	log    *zap.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(c *http.Client) Option {
	return func(a *Authenticator) { a.client = c }
}

// WithSecretLookup overrides keyring access (tests).
func WithSecretLookup(fn SecretLookup) Option {
	return func(a *Authenticator) { a.secret = fn }
}

// WithCache attaches a token cache. Without one every call hits the
// token endpoint.
func WithCache(c *TokenCache) Option {
	return func(a *Authenticator) { a.cache = c }
}

// New returns an Authenticator bound to cfg.
func New(cfg *config.Config, opts ...Option) *Authenticator {
	a := &Authenticator{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		secret: secrets.Get,
		log:    logging.Named("auth"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type credentials struct {
	id       string // email or client_id, depending on authType
	secret   string
	authType config.AuthType
}

func (a *Authenticator) lookup(envKey, userKey string) (config.Environment, config.User, error) {
	env, ok := a.cfg.Environments[envKey]
	if !ok {
		return config.Environment{}, config.User{}, fmt.Errorf("unknown environment %q", envKey)
	}
	user, ok := env.Users[userKey]
	if !ok {
		return config.Environment{}, config.User{}, fmt.Errorf("unknown user %q in environment %q", userKey, envKey)
	}
	return env, user, nil
}

func (a *Authenticator) credentials(envKey, userKey string) (credentials, error) {
	_, user, err := a.lookup(envKey, userKey)
	if err != nil {
		return credentials{}, err
	}
	secret, err := a.secret(envKey, userKey)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return credentials{}, fmt.Errorf(
				"no secret found in keyring for %s/%s; run 'sso setup' (or 'sso reset') to re-enter credentials",
				envKey, userKey)
		}
		return credentials{}, err
	}

	creds := credentials{secret: secret, authType: user.AuthType}
	if user.AuthType == config.AuthTypeClient {
		creds.id = user.ClientID
	} else {
		creds.id = user.Email
	}
	return creds, nil
}

// Token returns an access token for the env/user pair, fetching one from the
// token endpoint unless a cached token is still valid.
func (a *Authenticator) Token(ctx context.Context, envKey, userKey string) (string, error) {
	if a.cache != nil {
		if token, ok := a.cache.Get(envKey, userKey); ok {
			a.log.Debug("token cache hit", zap.String("env", envKey), zap.String("user", userKey))
			return token, nil
		}
	}

	env, _, err := a.lookup(envKey, userKey)
	if err != nil {
		return "", err
	}
	creds, err := a.credentials(envKey, userKey)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	switch creds.authType {
	case config.AuthTypeClient:
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", creds.id)
		form.Set("client_secret", creds.secret)
	default:
		form.Set("grant_type", "password")
		form.Set("client_id", passwordClientID)
		form.Set("username", creds.id)
		form.Set("password", creds.secret)
	}

	a.log.Debug("requesting token",
		zap.String("env", envKey),
		zap.String("user", userKey),
		zap.String("grant", form.Get("grant_type")))

	var tr tokenResponse
	if err := a.postForm(ctx, env.SSOURL+tokenPath, form, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}

	if a.cache != nil {
		if err := a.cache.Put(envKey, userKey, tr.AccessToken, tr.ExpiresIn); err != nil {
			a.log.Warn("failed to persist token cache", zap.Error(err))
		}
	}
	return tr.AccessToken, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (a *Authenticator) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *Authenticator) getJSON(ctx context.Context, endpoint, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
