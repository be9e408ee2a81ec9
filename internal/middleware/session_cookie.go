package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leaddesk/leaddesk-dashboard/config"
	"github.com/leaddesk/leaddesk-dashboard/internal/session"
)

// CookieConfig describes the cookie that holds the bearer token.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge int // seconds
}

// CookieConfigFrom builds the token cookie settings from configuration.
func CookieConfigFrom(cfg config.SessionConfig) CookieConfig {
	name := cfg.TokenCookieName
	if name == "" {
		name = session.TokenKey
	}
	return CookieConfig{
		Name:   name,
		Domain: cfg.CookieDomain,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.TokenTTLHours * 3600,
	}
}

// CookieStore is the browser's token store. Writes set the response cookie
// and are visible to later reads within the same request.
type CookieStore struct {
	c      *gin.Context
	cfg    CookieConfig
	token  string
	loaded bool
}

var _ session.Store = (*CookieStore)(nil)

func NewCookieStore(c *gin.Context, cfg CookieConfig) *CookieStore {
	return &CookieStore{c: c, cfg: cfg}
}

func (s *CookieStore) Token() string {
	if !s.loaded {
		s.token, _ = s.c.Cookie(s.cfg.Name)
		s.loaded = true
	}
	return s.token
}

func (s *CookieStore) SetToken(token string) error {
	s.token = token
	s.loaded = true
	s.write(token, s.cfg.MaxAge)
	return nil
}

func (s *CookieStore) Clear() error {
	s.token = ""
	s.loaded = true
	s.write("", -1)
	return nil
}

func (s *CookieStore) write(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(
		s.cfg.Name,
		value,
		maxAge,
		"/",
		s.cfg.Domain,
		s.cfg.Secure,
		true, // HttpOnly
	)
}
