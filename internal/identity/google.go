package identity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var googleScopes = []string{"openid", "email", "profile"}

// DevicePrompt shows the user where to approve the sign in and which code to enter.
type DevicePrompt func(verificationURL, userCode string)

// GoogleDeviceFlow gets a Google ID token through the OAuth2 device authorization grant,
// the terminal stand-in for a browser popup.
type GoogleDeviceFlow struct {
	config *oauth2.Config
	prompt DevicePrompt
}

func NewGoogleDeviceFlow(clientID, clientSecret string, prompt DevicePrompt) *GoogleDeviceFlow {
	return &GoogleDeviceFlow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       googleScopes,
		},
		prompt: prompt,
	}
}

// WithEndpoint points the flow at other device and token URLs.
func (g *GoogleDeviceFlow) WithEndpoint(endpoint oauth2.Endpoint) *GoogleDeviceFlow {
	cfg := *g.config
	cfg.Endpoint = endpoint
	return &GoogleDeviceFlow{config: &cfg, prompt: g.prompt}
}

func (g *GoogleDeviceFlow) GoogleIDToken(ctx context.Context) (string, error) {
	if g.config.ClientID == "" {
		return "", errors.New("google client id not set")
	}

	da, err := g.config.DeviceAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("device auth: %w", err)
	}

	if g.prompt != nil {
		verificationURL := da.VerificationURIComplete
		if verificationURL == "" {
			verificationURL = da.VerificationURI
		}
		g.prompt(verificationURL, da.UserCode)
	}

	tok, err := g.config.DeviceAccessToken(ctx, da)
	if err != nil {
		return "", fmt.Errorf("device access token: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("google token response has no id_token")
	}
	return idToken, nil
}
