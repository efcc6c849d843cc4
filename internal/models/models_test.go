package models

import (
	"testing"
	"time"
)

func TestTokenExchangeResponseOAuth2Token(t *testing.T) {
	now := time.Date(2025, 7, 17, 14, 30, 0, 0, time.UTC)
	resp := TokenExchangeResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    300,
		TokenType:    "Bearer",
		IDToken:      "id-token",
		Scope:        "openid profile",
	}

	tok := resp.OAuth2Token(now)

	if tok.AccessToken != "access" || tok.RefreshToken != "refresh" {
		t.Fatalf("unexpected token %+v", tok)
	}
	if want := now.Add(5 * time.Minute); !tok.Expiry.Equal(want) {
		t.Errorf("Expiry = %v, want %v", tok.Expiry, want)
	}
	if got := tok.Extra("id_token"); got != "id-token" {
		t.Errorf("Extra(id_token) = %v", got)
	}
	if got := tok.Type(); got != "Bearer" {
		t.Errorf("Type() = %v, want Bearer", got)
	}
}

func TestSubscriptionPriceLabels(t *testing.T) {
	tests := []struct {
		name      string
		price     SubscriptionPrice
		wantLabel string
		wantMonth float64
	}{
		{name: "single month", price: SubscriptionPrice{Price: 99000, Duration: 1}, wantLabel: "1 month", wantMonth: 99000},
		{name: "yearly", price: SubscriptionPrice{Price: 960000, Duration: 12}, wantLabel: "12 months", wantMonth: 80000},
		{name: "zero duration", price: SubscriptionPrice{Price: 5000, Duration: 0}, wantLabel: "0 months", wantMonth: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.price.DurationLabel(); got != tt.wantLabel {
				t.Errorf("DurationLabel() = %q, want %q", got, tt.wantLabel)
			}
			if got := tt.price.MonthlyPrice(); got != tt.wantMonth {
				t.Errorf("MonthlyPrice() = %v, want %v", got, tt.wantMonth)
			}
		})
	}
}

func TestAccountPlanLabel(t *testing.T) {
	if got := (Account{Premium: true}).PlanLabel(); got != "Premium" {
		t.Errorf("PlanLabel() = %q", got)
	}
	if got := (Account{}).PlanLabel(); got != "Free" {
		t.Errorf("PlanLabel() = %q", got)
	}
}
