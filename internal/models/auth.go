package models

import (
	"time"

	"golang.org/x/oauth2"
)

// LoginRequest is the body of POST /api/login/exchange.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenExchangeResponse is the data payload of a successful token exchange.
type TokenExchangeResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	IDToken          string `json:"id_token"`
	Scope            string `json:"scope"`
}

// OAuth2Token converts the exchange response to an oauth2.Token issued at now.
// The extra fields stay reachable through Token.Extra.
func (t TokenExchangeResponse) OAuth2Token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok.WithExtra(map[string]interface{}{
		"id_token":           t.IDToken,
		"scope":              t.Scope,
		"refresh_expires_in": t.RefreshExpiresIn,
	})
}
