package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/c7d5a6/goliath/internal/telemetry/metrics"
	"github.com/c7d5a6/goliath/internal/telemetry/tracing"
	"github.com/c7d5a6/goliath/internal/tokenstore"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

const (
	DefaultSecureTokenEndpoint = "https://securetoken.googleapis.com/v1/token"
	DefaultRefreshMargin       = 5 * time.Minute

	passwordProviderID = "password"
	googleProviderID   = "google.com"

	minRefreshWait    = time.Second
	refreshRetryDelay = 30 * time.Second
	idleRefreshWait   = time.Hour
)

// GoogleCredentials yields a Google ID token for federated sign in.
type GoogleCredentials interface {
	GoogleIDToken(ctx context.Context) (string, error)
}

type FirebaseParams struct {
	APIKey string
	// IdentityToolkitEndpoint overrides the relyingparty base URL (tests, emulator).
	IdentityToolkitEndpoint string
	SecureTokenEndpoint     string
	HTTPClient              *http.Client
	RefreshMargin           time.Duration
	// Store persists the refresh token so a new process can restore the session.
	Store          tokenstore.Store
	Google         GoogleCredentials
	MetricsManager *metrics.Manager
}

// Firebase is a Provider backed by the Firebase Auth REST API.
type Firebase struct {
	mu          sync.Mutex
	user        *User
	initialized bool
	listeners   map[int]func(*User)
	nextID      int

	service        *identitytoolkit.Service
	refreshConfig  *oauth2.Config
	httpClient     *http.Client
	refreshMargin  time.Duration
	store          tokenstore.Store
	google         GoogleCredentials
	metricsManager *metrics.Manager

	kick      chan struct{}
	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewFirebase(ctx context.Context, params FirebaseParams) (*Firebase, error) {
	if params.APIKey == "" {
		return nil, errors.New("firebase api key not set")
	}

	base := http.DefaultTransport
	if params.HTTPClient != nil && params.HTTPClient.Transport != nil {
		base = params.HTTPClient.Transport
	}
	httpClient := &http.Client{Transport: otelhttp.NewTransport(base)}
	apiKeyClient := &http.Client{
		Transport: &transport.APIKey{Key: params.APIKey, Transport: httpClient.Transport},
	}

	opts := []option.ClientOption{option.WithHTTPClient(apiKeyClient)}
	if params.IdentityToolkitEndpoint != "" {
		opts = append(opts, option.WithEndpoint(ensureTrailingSlash(params.IdentityToolkitEndpoint)))
	}
	service, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new identity toolkit service: %w", err)
	}

	secureTokenEndpoint := params.SecureTokenEndpoint
	if secureTokenEndpoint == "" {
		secureTokenEndpoint = DefaultSecureTokenEndpoint
	}
	refreshMargin := params.RefreshMargin
	if refreshMargin <= 0 {
		refreshMargin = DefaultRefreshMargin
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	return &Firebase{
		listeners: make(map[int]func(*User)),
		service:   service,
		refreshConfig: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  secureTokenEndpoint + "?key=" + params.APIKey,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient:     httpClient,
		refreshMargin:  refreshMargin,
		store:          params.Store,
		google:         params.Google,
		metricsManager: metricsManager,
		kick:           make(chan struct{}, 1),
		stop:           make(chan struct{}),
	}, nil
}

// Start restores a persisted session (if any), publishes the initial auth state
// and starts the background token refresher. Close stops it.
func (f *Firebase) Start(ctx context.Context) {
	user := f.restore(ctx)

	f.mu.Lock()
	f.user = user
	f.initialized = true
	f.mu.Unlock()
	f.publish(user)

	f.wg.Add(1)
	go f.refreshLoop(ctx)
}

func (f *Firebase) Close() {
	f.closeOnce.Do(func() {
		close(f.stop)
	})
	f.wg.Wait()
}

func (f *Firebase) restore(ctx context.Context) *User {
	if f.store == nil {
		return nil
	}
	refreshToken, err := f.store.Get(ctx, tokenstore.RefreshTokenKey)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			log.Errorf("firebase: read persisted refresh token: %s", err)
		}
		return nil
	}

	user, err := f.exchange(ctx, &User{RefreshToken: refreshToken})
	if err != nil {
		log.Warnf("firebase: restore session: %s", err)
		var idErr *Error
		if errors.As(err, &idErr) {
			// the refresh token is dead, do not retry it on every start
			f.forgetRefreshToken(ctx)
		}
		return nil
	}

	f.metricsManager.CounterAuthEvents.WithLabelValues("restore").Inc()
	log.Debugf("firebase: restored session for %s", user.Email)
	return user
}

func (f *Firebase) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "firebase.signInWithPassword")
	defer span.End()

	resp, err := f.service.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		err = normalizeError(err)
		tracing.Fail(span, err)
		f.metricsManager.CounterAuthEvents.WithLabelValues("sign_in_failed").Inc()
		return nil, err
	}

	user, err := newUser(resp.LocalId, resp.Email, resp.DisplayName, passwordProviderID, resp.IdToken, resp.RefreshToken)
	if err != nil {
		return nil, err
	}
	f.metricsManager.CounterAuthEvents.WithLabelValues("sign_in").Inc()
	return f.setUser(ctx, user), nil
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "firebase.signUp")
	defer span.End()

	resp, err := f.service.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		err = normalizeError(err)
		tracing.Fail(span, err)
		f.metricsManager.CounterAuthEvents.WithLabelValues("sign_up_failed").Inc()
		return nil, err
	}

	user, err := newUser(resp.LocalId, resp.Email, resp.DisplayName, passwordProviderID, resp.IdToken, resp.RefreshToken)
	if err != nil {
		return nil, err
	}
	f.metricsManager.CounterAuthEvents.WithLabelValues("sign_up").Inc()
	return f.setUser(ctx, user), nil
}

func (f *Firebase) SignInWithGoogle(ctx context.Context) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "firebase.signInWithGoogle")
	defer span.End()

	if f.google == nil {
		return nil, &Error{Code: "OPERATION_NOT_ALLOWED", Message: "Google sign-in is not configured"}
	}

	googleIDToken, err := f.google.GoogleIDToken(ctx)
	if err != nil {
		tracing.Fail(span, err)
		return nil, fmt.Errorf("google credentials: %w", err)
	}

	resp, err := f.service.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          "id_token=" + googleIDToken + "&providerId=" + googleProviderID,
		RequestUri:        "http://localhost",
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		err = normalizeError(err)
		tracing.Fail(span, err)
		f.metricsManager.CounterAuthEvents.WithLabelValues("sign_in_failed").Inc()
		return nil, err
	}

	user, err := newUser(resp.LocalId, resp.Email, resp.DisplayName, googleProviderID, resp.IdToken, resp.RefreshToken)
	if err != nil {
		return nil, err
	}
	f.metricsManager.CounterAuthEvents.WithLabelValues("sign_in_google").Inc()
	return f.setUser(ctx, user), nil
}

func (f *Firebase) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.user = nil
	f.mu.Unlock()

	f.forgetRefreshToken(ctx)
	f.metricsManager.CounterAuthEvents.WithLabelValues("sign_out").Inc()
	f.publish(nil)
	return nil
}

func (f *Firebase) CurrentUser() *User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil
	}
	u := *f.user
	return &u
}

func (f *Firebase) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	current := f.CurrentUser()
	if current == nil {
		return "", ErrNoUser
	}
	if !forceRefresh && !f.expiring(current) {
		return current.IDToken, nil
	}

	refreshed, err := f.exchange(ctx, current)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	if f.user == nil || f.user.UID != current.UID {
		// signed out (or switched) while refreshing
		f.mu.Unlock()
		return "", ErrNoUser
	}
	f.user = refreshed
	f.mu.Unlock()

	f.persistRefreshToken(ctx, refreshed.RefreshToken)
	f.metricsManager.CounterAuthEvents.WithLabelValues("token_refresh").Inc()
	f.publish(refreshed)
	return refreshed.IDToken, nil
}

func (f *Firebase) OnAuthStateChanged(fn func(*User)) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	initialized := f.initialized
	var current *User
	if f.user != nil {
		u := *f.user
		current = &u
	}
	f.mu.Unlock()

	if initialized {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, id)
			f.mu.Unlock()
		})
	}
}

// exchange trades the user's refresh token for a new ID token.
func (f *Firebase) exchange(ctx context.Context, user *User) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "firebase.refreshToken")
	defer span.End()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	tok, err := f.refreshConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: user.RefreshToken}).Token()
	if err != nil {
		err = normalizeError(err)
		tracing.Fail(span, err)
		return nil, err
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		idToken = tok.AccessToken
	}
	refreshToken := tok.RefreshToken
	if refreshToken == "" {
		refreshToken = user.RefreshToken
	}

	uid := user.UID
	if v, ok := tok.Extra("user_id").(string); ok && v != "" {
		uid = v
	}

	refreshed, err := newUser(uid, user.Email, user.DisplayName, user.ProviderID, idToken, refreshToken)
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (f *Firebase) setUser(ctx context.Context, user *User) *User {
	f.mu.Lock()
	f.user = user
	f.mu.Unlock()

	f.persistRefreshToken(ctx, user.RefreshToken)
	f.publish(user)

	select {
	case f.kick <- struct{}{}:
	default:
	}

	u := *user
	return &u
}

func (f *Firebase) persistRefreshToken(ctx context.Context, refreshToken string) {
	if f.store == nil || refreshToken == "" {
		return
	}
	if err := f.store.Set(ctx, tokenstore.RefreshTokenKey, refreshToken); err != nil {
		log.Errorf("firebase: persist refresh token: %s", err)
	}
}

func (f *Firebase) forgetRefreshToken(ctx context.Context) {
	if f.store == nil {
		return
	}
	if err := f.store.Delete(ctx, tokenstore.RefreshTokenKey); err != nil {
		log.Errorf("firebase: delete refresh token: %s", err)
	}
}

// publish calls listeners in subscription order, outside the lock.
func (f *Firebase) publish(user *User) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(*User), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.listeners[id])
	}
	f.mu.Unlock()

	for _, fn := range fns {
		if user == nil {
			fn(nil)
			continue
		}
		u := *user
		fn(&u)
	}
}

func (f *Firebase) refreshLoop(ctx context.Context) {
	defer f.wg.Done()

	failed := false
	for {
		wait := f.nextRefreshIn()
		if failed && wait < refreshRetryDelay {
			wait = refreshRetryDelay
		}

		timer := time.NewTimer(wait)
		select {
		case <-f.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-f.kick:
			timer.Stop()
			failed = false
			continue
		case <-timer.C:
		}

		if f.CurrentUser() == nil {
			continue
		}
		if _, err := f.IDToken(ctx, true); err != nil && !errors.Is(err, ErrNoUser) {
			log.Errorf("firebase: background token refresh: %s", err)
			failed = true
			continue
		}
		failed = false
	}
}

// expiring reports whether user's ID token is within the refresh margin of its expiry.
func (f *Firebase) expiring(user *User) bool {
	if user.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(user.ExpiresAt) <= f.refreshMargin
}

func (f *Firebase) nextRefreshIn() time.Duration {
	user := f.CurrentUser()
	if user == nil || user.ExpiresAt.IsZero() {
		return idleRefreshWait
	}
	wait := time.Until(user.ExpiresAt) - f.refreshMargin
	if wait < minRefreshWait {
		return minRefreshWait
	}
	return wait
}

func newUser(uid, email, displayName, providerID, idToken, refreshToken string) (*User, error) {
	if idToken == "" {
		return nil, &Error{Code: "MISSING_ID_TOKEN", Message: "Authentication failed"}
	}

	expiresAt, err := ExpiresAt(idToken)
	if err != nil {
		return nil, err
	}

	// fill what the refresh response does not carry from the token itself
	if claims, err := ParseClaims(idToken); err == nil {
		if uid == "" {
			uid = claims.UserID
			if uid == "" {
				uid = claims.Subject
			}
		}
		if email == "" {
			email = claims.Email
		}
	}

	return &User{
		UID:          uid,
		Email:        email,
		DisplayName:  displayName,
		ProviderID:   providerID,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func ensureTrailingSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s
	}
	return s + "/"
}
