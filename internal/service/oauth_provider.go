package service

import (
	"context"
	"fmt"

	"study_buddy_backend/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Identity 身份令牌验证通过后提取的断言
type Identity struct {
	Email     string
	Name      string
	SubjectID string
}

// ProviderClient OAuth 提供方协作接口，进程启动时构造一次后注入
type ProviderClient interface {
	Name() string
	AuthCodeURL(state, nonce string) string
	// Exchange 用授权码换取令牌，返回原始 id_token
	Exchange(ctx context.Context, code string) (string, error)
	// VerifyIdentity 校验签名、受众、签发方集合与 nonce，全部通过才返回身份
	VerifyIdentity(ctx context.Context, rawIDToken, nonce string) (*Identity, error)
}

// OIDCClient 基于 x/oauth2 + go-oidc 的 ProviderClient 实现
type OIDCClient struct {
	name           string
	oauth          *oauth2.Config
	verifier       *oidc.IDTokenVerifier
	allowedIssuers map[string]bool
}

type oidcEndpoints struct {
	authURL  string
	tokenURL string
	jwksURL  string
	issuers  []string
	scopes   []string
}

var googleEndpoints = oidcEndpoints{
	authURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	tokenURL: "https://oauth2.googleapis.com/token",
	jwksURL:  "https://www.googleapis.com/oauth2/v3/certs",
	issuers:  []string{"https://accounts.google.com", "accounts.google.com"},
	scopes:   []string{oidc.ScopeOpenID, "email", "profile"},
}

var microsoftEndpoints = oidcEndpoints{
	authURL:  "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
	tokenURL: "https://login.microsoftonline.com/common/oauth2/v2.0/token",
	jwksURL:  "https://login.microsoftonline.com/common/discovery/v2.0/keys",
	issuers:  []string{"https://login.microsoftonline.com", "login.microsoftonline.com"},
	scopes:   []string{oidc.ScopeOpenID, "profile", "email", "User.Read"},
}

func NewGoogleClient(cfg config.OAuthProviderConfig, callbackURL string) *OIDCClient {
	return newOIDCClient("google", cfg, callbackURL, googleEndpoints)
}

func NewMicrosoftClient(cfg config.OAuthProviderConfig, callbackURL string) *OIDCClient {
	return newOIDCClient("microsoft", cfg, callbackURL, microsoftEndpoints)
}

func newOIDCClient(name string, cfg config.OAuthProviderConfig, callbackURL string, ep oidcEndpoints) *OIDCClient {
	keySet := oidc.NewRemoteKeySet(context.Background(), ep.jwksURL)

	// 签发方集合在 VerifyIdentity 里手工比对，verifier 只负责签名和受众
	verifier := oidc.NewVerifier(ep.issuers[0], keySet, &oidc.Config{
		ClientID:        cfg.ClientID,
		SkipIssuerCheck: true,
	})

	allowed := make(map[string]bool, len(ep.issuers))
	for _, iss := range ep.issuers {
		allowed[iss] = true
	}

	return &OIDCClient{
		name: name,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  callbackURL,
			Scopes:       ep.scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  ep.authURL,
				TokenURL: ep.tokenURL,
			},
		},
		verifier:       verifier,
		allowedIssuers: allowed,
	}
}

func (c *OIDCClient) Name() string {
	return c.name
}

func (c *OIDCClient) AuthCodeURL(state, nonce string) string {
	return c.oauth.AuthCodeURL(state, oidc.Nonce(nonce))
}

func (c *OIDCClient) Exchange(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%s token response carries no id_token", c.name)
	}
	return rawIDToken, nil
}

func (c *OIDCClient) VerifyIdentity(ctx context.Context, rawIDToken, nonce string) (*Identity, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	if !c.allowedIssuers[idToken.Issuer] {
		return nil, fmt.Errorf("unexpected issuer %q", idToken.Issuer)
	}

	if idToken.Nonce != nonce {
		return nil, fmt.Errorf("nonce mismatch")
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	return &Identity{
		Email:     claims.Email,
		Name:      claims.Name,
		SubjectID: idToken.Subject,
	}, nil
}
