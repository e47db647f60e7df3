package prefs

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the web session.
const SessionName = "sqllens"

// SessionStore keeps preferences in the browser's session cookie.
type SessionStore struct {
	store sessions.Store
}

// NewSessionStore creates a cookie-backed store signed with secret.
func NewSessionStore(secret []byte) *SessionStore {
	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: cs}
}

// WrapSessionStore uses an existing gorilla store.
func WrapSessionStore(store sessions.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Value returns the session value for key, or "" when unset or the
// cookie cannot be decoded.
func (s *SessionStore) Value(r *http.Request, key string) string {
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		return ""
	}
	v, _ := sess.Values[key].(string)
	return v
}

// SetValue stores value under key and writes the cookie.
func (s *SessionStore) SetValue(w http.ResponseWriter, r *http.Request, key, value string) error {
	// A cookie that no longer decodes is replaced by a fresh session.
	sess, _ := s.store.Get(r, SessionName)
	sess.Values[key] = value
	return sess.Save(r, w)
}

// Theme resolves the theme for a request.
func (s *SessionStore) Theme(r *http.Request) Theme {
	return Resolve(s.Value(r, ThemeKey), RequestHint(r))
}

// SetTheme stores t in the session.
func (s *SessionStore) SetTheme(w http.ResponseWriter, r *http.Request, t Theme) error {
	return s.SetValue(w, r, ThemeKey, t.String())
}
