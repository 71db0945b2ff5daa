// Package session keeps per-browser state in a signed cookie: one-shot flash
// messages and the nonce CSRF tokens are bound to.
package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/utils"
)

const (
	cookieName     = "fyyur_session"
	nonceKey       = "csrf_nonce"
	savePendingKey = "session_save_pending"
)

// Flash categories used by the templates for styling.
const (
	Info  = "info"
	Error = "danger"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Store wraps a gorilla cookie store.
type Store struct {
	cs *sessions.CookieStore
}

// NewStore creates a store whose cookies are signed with secret. secure marks
// cookies as HTTPS-only.
func NewStore(secret []byte, secure bool) *Store {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cs: cs}
}

// get returns the request's session. gorilla caches it per request, so every
// call in one request sees the same values. A cookie that no longer verifies
// (for example after a secret rotation) yields a fresh session.
func (s *Store) get(c echo.Context) *sessions.Session {
	sess, err := s.cs.Get(c.Request(), cookieName)
	if err != nil {
		c.Logger().Debugf("session: discarding unreadable cookie: %v", err)
	}
	return sess
}

// touch schedules a single cookie write for the request, just before the
// response header goes out.
func (s *Store) touch(c echo.Context, sess *sessions.Session) {
	if c.Get(savePendingKey) != nil {
		return
	}
	c.Set(savePendingKey, true)
	c.Response().Before(func() {
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			c.Logger().Warnf("session: save: %v", err)
		}
	})
}

// AddFlash queues a message for the next rendered page.
func (s *Store) AddFlash(c echo.Context, category, message string) {
	sess := s.get(c)
	sess.AddFlash(Flash{Category: category, Message: message})
	s.touch(c, sess)
}

// Flashes pops all queued messages. The cookie is rewritten only when there
// was something to pop.
func (s *Store) Flashes(c echo.Context) []Flash {
	sess := s.get(c)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	s.touch(c, sess)
	return out
}

// Nonce returns the CSRF nonce of the session, creating one on first use.
func (s *Store) Nonce(c echo.Context) (string, error) {
	sess := s.get(c)
	if v, ok := sess.Values[nonceKey].(string); ok && v != "" {
		return v, nil
	}
	nonce, err := utils.RandomHex(16)
	if err != nil {
		return "", err
	}
	sess.Values[nonceKey] = nonce
	s.touch(c, sess)
	return nonce, nil
}
