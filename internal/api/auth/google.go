package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/abenfraj/menufique-sub001/internal/api/httpx"
	"github.com/abenfraj/menufique-sub001/internal/domain/users"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func (h *Handler) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.Cfg.GoogleClientID,
		ClientSecret: h.Cfg.GoogleClientSecret,
		RedirectURL:  h.Cfg.GoogleRedirectURL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "failed to generate state")
		return
	}

	// state lives in an HttpOnly cookie for the round trip
	c.SetCookie(
		"oauth_state",
		state,
		300, // 5 minutes
		"/",
		"",    // domain (set in prod)
		false, // secure (true in prod HTTPS)
		true,  // httpOnly
	)

	url := h.googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		httpx.Error(c, http.StatusBadRequest, "missing code/state")
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		httpx.Error(c, http.StatusBadRequest, "invalid oauth state")
		return
	}

	tok, err := h.googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		httpx.Error(c, http.StatusUnauthorized, "failed to exchange code")
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		httpx.Error(c, http.StatusUnauthorized, "missing id_token")
		return
	}

	claims, err := h.verifyGoogleIDToken(c, rawIDToken)
	if err != nil {
		httpx.Error(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.findOrCreateGoogleUser(claims)
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	tokenString, err := h.issueAppJWT(&user)
	if err != nil {
		httpx.Error(c, http.StatusInternalServerError, "could not create token")
		return
	}

	redirect := h.Cfg.GoogleFrontendRedirect
	if redirect == "" {
		httpx.Data(c, http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+tokenString)
}

/* ---------------- helpers ---------------- */

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

func (h *Handler) verifyGoogleIDToken(c *gin.Context, rawIDToken string) (*googleIDClaims, error) {
	ctx := c.Request.Context()

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: h.Cfg.GoogleClientID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}

	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}

	return &claims, nil
}

func (h *Handler) findOrCreateGoogleUser(gc *googleIDClaims) (users.User, error) {
	var user users.User

	// 1) Try by google_sub
	if gc.Sub != "" {
		if err := h.DB.Where("google_sub = ?", gc.Sub).First(&user).Error; err == nil {
			return user, nil
		}
	}

	// 2) Try by email, then link google_sub if missing
	if err := h.DB.Where("email = ?", gc.Email).First(&user).Error; err == nil {
		if user.GoogleSub == nil {
			sub := gc.Sub
			user.GoogleSub = &sub
			user.AuthProvider = "google"
			if err := h.DB.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	}

	// 3) Create new user (google)
	sub := gc.Sub
	user = users.User{
		Name:         firstNonEmpty(gc.GivenName, gc.Name),
		Email:        gc.Email,
		Password:     nil,
		AuthProvider: "google",
		GoogleSub:    &sub,
		Plan:         users.PlanFree,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
