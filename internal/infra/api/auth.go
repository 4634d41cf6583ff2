package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Admin session/JWT primitives =====

type AuthConfig struct {
	HMACSecret   []byte
	APIKey       string
	CookieName   string
	SecureCookie bool
	TTL          time.Duration
}

type AuthManager struct{ cfg AuthConfig }

func NewAuthManager(secret, apiKey string, secure bool, ttl time.Duration) *AuthManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AuthManager{cfg: AuthConfig{
		HMACSecret:   []byte(secret),
		APIKey:       apiKey,
		CookieName:   "admin_session",
		SecureCookie: secure,
		TTL:          ttl,
	}}
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Mint signs a short-lived admin token and sets it as a cookie.
func (a *AuthManager) Mint(w http.ResponseWriter) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TTL)),
			Subject:   "admin",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.cfg.HMACSecret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	return signed, nil
}

// Authorize accepts either a minted JWT (header or cookie) or the raw API key
// as a bearer token.
func (a *AuthManager) Authorize(r *http.Request) error {
	if len(a.cfg.HMACSecret) == 0 && a.cfg.APIKey == "" {
		return errors.New("admin auth not configured")
	}
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			tok := strings.TrimSpace(hdr[7:])
			if a.cfg.APIKey != "" && tok == a.cfg.APIKey {
				return nil
			}
			if _, err := a.parse(tok); err == nil {
				return nil
			}
		}
		return errors.New("invalid token")
	}
	if c, err := r.Cookie(a.cfg.CookieName); err == nil {
		_, perr := a.parse(c.Value)
		return perr
	}
	return errors.New("missing token")
}

func (a *AuthManager) CheckAPIKey(key string) bool {
	return a.cfg.APIKey != "" && key == a.cfg.APIKey
}

func (a *AuthManager) parse(tok string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
