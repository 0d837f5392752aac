package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"liff-member-backend/config"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	lineIssuer      = "https://access.line.me"
	lineVerifyPath  = "/oauth2/v2.1/verify"
	lineProfilePath = "/v2/profile"
)

var ErrLineTokenRejected = errors.New("line token rejected")

// LineProfile is the subset of the LINE profile the backend uses.
type LineProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

type lineVerifyResponse struct {
	Scope     string `json:"scope"`
	ClientID  string `json:"client_id"`
	ExpiresIn int64  `json:"expires_in"`
}

type lineAPIError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func (e lineAPIError) describe() string {
	for _, s := range []string{e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

// LineVerifier resolves LIFF tokens to LINE user ids. ID tokens are checked
// locally against the channel secret; access tokens are checked with the LINE API.
type LineVerifier struct {
	channelID     string
	channelSecret []byte
	rest          *resty.Client
}

func NewLineVerifier(cfg config.LineConfig) *LineVerifier {
	return &LineVerifier{
		channelID:     cfg.ChannelID,
		channelSecret: []byte(cfg.ChannelSecret),
		rest: resty.New().
			SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
			SetTimeout(10 * time.Second),
	}
}

// VerifyToken returns the LINE user id the token was issued to.
func (v *LineVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	if strings.Count(token, ".") == 2 {
		return v.VerifyIDToken(token)
	}

	if err := v.VerifyAccessToken(ctx, token); err != nil {
		return "", err
	}
	profile, err := v.Profile(ctx, token)
	if err != nil {
		return "", err
	}
	return profile.UserID, nil
}

func (v *LineVerifier) VerifyIDToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return v.channelSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(lineIssuer),
		jwt.WithAudience(v.channelID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLineTokenRejected, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: id token has no subject", ErrLineTokenRejected)
	}
	return claims.Subject, nil
}

func (v *LineVerifier) VerifyAccessToken(ctx context.Context, token string) error {
	var out lineVerifyResponse
	var apiErr lineAPIError

	resp, err := v.rest.R().
		SetContext(ctx).
		SetQueryParam("access_token", token).
		SetResult(&out).
		SetError(&apiErr).
		Get(lineVerifyPath)
	if err != nil {
		return fmt.Errorf("verify access token: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s", ErrLineTokenRejected, apiErr.describe())
	}
	if v.channelID != "" && out.ClientID != v.channelID {
		return fmt.Errorf("%w: token issued for channel %s", ErrLineTokenRejected, out.ClientID)
	}
	if out.ExpiresIn <= 0 {
		return fmt.Errorf("%w: access token expired", ErrLineTokenRejected)
	}
	return nil
}

func (v *LineVerifier) Profile(ctx context.Context, token string) (*LineProfile, error) {
	var profile LineProfile
	var apiErr lineAPIError

	resp, err := v.rest.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&profile).
		SetError(&apiErr).
		Get(lineProfilePath)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrLineTokenRejected, apiErr.describe())
	}
	if profile.UserID == "" {
		return nil, fmt.Errorf("%w: profile has no user id", ErrLineTokenRejected)
	}
	return &profile, nil
}
