// Package session issues and reads the signed login cookie and the
// one-shot flash cookie.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Strob0t/SkillSprint/internal/config"
)

// ErrNoSession is returned by Load when the request carries no valid session.
var ErrNoSession = errors.New("no session")

// Session identifies the logged-in user for one request.
type Session struct {
	UserID int64
	Name   string
}

// Flash kinds map to the page's alert styles.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"msg"`
}

type sessionClaims struct {
	UID  int64  `json:"uid"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type flashClaims struct {
	Flash
	jwt.RegisteredClaims
}

// Manager signs and verifies cookies with an HMAC secret.
type Manager struct {
	secret   []byte
	cookie   string
	ttl      time.Duration
	flashTTL time.Duration
	secure   bool
	now      func() time.Time
}

// NewManager creates a Manager from the session config. secure sets the
// cookie Secure flag.
func NewManager(cfg config.Session, secure bool) *Manager {
	flashTTL := cfg.FlashTTL
	if flashTTL <= 0 {
		flashTTL = time.Minute
	}
	return &Manager{
		secret:   []byte(cfg.Secret),
		cookie:   cfg.CookieName,
		ttl:      cfg.TTL,
		flashTTL: flashTTL,
		secure:   secure,
		now:      time.Now,
	}
}

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string { return m.cookie }

func (m *Manager) flashCookie() string { return m.cookie + "_flash" }

// Establish writes a session cookie for s.
func (m *Manager) Establish(w http.ResponseWriter, s Session) error {
	now := m.now()
	claims := sessionClaims{
		UID:  s.UserID,
		Name: s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := m.sign(claims)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	m.setCookie(w, m.cookie, signed, m.ttl)
	return nil
}

// Load returns the session carried by r, or ErrNoSession when the cookie
// is absent, tampered with, signed with another key, or expired.
func (m *Manager) Load(r *http.Request) (Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return Session{}, ErrNoSession
	}
	var claims sessionClaims
	if err := m.parse(c.Value, &claims); err != nil {
		return Session{}, ErrNoSession
	}
	if claims.UID <= 0 {
		return Session{}, ErrNoSession
	}
	return Session{UserID: claims.UID, Name: claims.Name}, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	m.setCookie(w, m.cookie, "", -1)
}

// SetFlash stores f for the next page render.
func (m *Manager) SetFlash(w http.ResponseWriter, f Flash) error {
	now := m.now()
	claims := flashClaims{
		Flash: f,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.flashTTL)),
		},
	}
	signed, err := m.sign(claims)
	if err != nil {
		return fmt.Errorf("sign flash: %w", err)
	}
	m.setCookie(w, m.flashCookie(), signed, m.flashTTL)
	return nil
}

// PopFlash returns the pending flash, if any, and clears it.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	c, err := r.Cookie(m.flashCookie())
	if err != nil || c.Value == "" {
		return Flash{}, false
	}
	m.setCookie(w, m.flashCookie(), "", -1)

	var claims flashClaims
	if err := m.parse(c.Value, &claims); err != nil {
		return Flash{}, false
	}
	return claims.Flash, claims.Message != ""
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(raw string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}
