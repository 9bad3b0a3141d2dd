package session

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// TokenTypeBackendSession tags backend issued session tokens, distinguishing
// them from the identity provider's own tokens at verification time.
const TokenTypeBackendSession = "backend_session"

const DefaultTokenExpiration = 60 * time.Minute

var (
	sessionSecretKey []byte
	TokenExpiration  = DefaultTokenExpiration
)

// StampLastLoginFunc records the user's last login time, wired at bootstrap.
// A failure never blocks token issuance.
var StampLastLoginFunc = func(ctx context.Context, uid string) error {
	return nil
}

// BootstrapConfig reads SESSION_SECRET_KEY and ACCESS_TOKEN_EXPIRE_MINUTES.
func BootstrapConfig() error {
	secret := os.Getenv("SESSION_SECRET_KEY")
	if secret == "" {
		return errors.New("environment variable SESSION_SECRET_KEY is not set")
	}
	expiration := DefaultTokenExpiration
	if value := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return errors.New("invalid ACCESS_TOKEN_EXPIRE_MINUTES: " + value)
		}
		expiration = time.Duration(minutes) * time.Minute
	}
	Configure(secret, expiration)
	return nil
}

func Configure(secret string, expiration time.Duration) {
	sessionSecretKey = []byte(secret)
	TokenExpiration = expiration
}

type SessionClaims struct {
	UID       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CreateSessionToken mints a self-contained signed session credential for uid
// and stamps the user's last login as a best-effort side effect.
func CreateSessionToken(ctx context.Context, uid string) (string, time.Time, error) {
	if len(sessionSecretKey) == 0 {
		return "", time.Time{}, errors.New("session secret key is not configured")
	}

	now := time.Now()
	expiresAt := now.Add(TokenExpiration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        uid,
		"iat":        now.Unix(),
		"exp":        expiresAt.Unix(),
		"token_type": TokenTypeBackendSession,
	})
	signed, err := token.SignedString(sessionSecretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := StampLastLoginFunc(ctx, uid); err != nil {
		logrus.Warnf("failed to stamp last login of user %s: %v", uid, err)
	}
	return signed, expiresAt, nil
}

// VerifySessionToken checks signature, expiry and the session type claim.
// Any failure yields nil: the caller falls back to provider verification.
func VerifySessionToken(tokenString string) *SessionClaims {
	if len(sessionSecretKey) == 0 || tokenString == "" {
		return nil
	}
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return sessionSecretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != TokenTypeBackendSession {
		return nil
	}
	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil
	}
	result := SessionClaims{UID: uid}
	if issuedAt, err := claims.GetIssuedAt(); err == nil && issuedAt != nil {
		result.IssuedAt = issuedAt.Time
	}
	if expiresAt, err := claims.GetExpirationTime(); err == nil && expiresAt != nil {
		result.ExpiresAt = expiresAt.Time
	}
	return &result
}
