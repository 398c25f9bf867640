package sap

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// SessionCookie is the cookie the Service Layer issues on login.
const SessionCookie = "B1SESSION"

// SessionStore holds the cookie jar shared by every outbound call. It is
// itself an http.CookieJar delegating to the current jar, so an http.Client
// built with Jar: store records login cookies without any parsing.
type SessionStore struct {
	mu  sync.RWMutex
	jar http.CookieJar
}

// NewSessionStore returns a store holding an empty jar.
func NewSessionStore() *SessionStore {
	return &SessionStore{jar: newJar()}
}

func newJar() http.CookieJar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// Jar returns the current jar.
func (s *SessionStore) Jar() http.CookieJar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jar
}

// SetJar replaces the current jar. A nil jar installs an empty one.
func (s *SessionStore) SetJar(jar http.CookieJar) {
	if jar == nil {
		jar = newJar()
	}
	s.mu.Lock()
	s.jar = jar
	s.mu.Unlock()
}

// Reset drops every cookie.
func (s *SessionStore) Reset() {
	s.SetJar(nil)
}

// SetCookies implements http.CookieJar.
func (s *SessionStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.Jar().SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (s *SessionStore) Cookies(u *url.URL) []*http.Cookie {
	return s.Jar().Cookies(u)
}

// Value returns the cookie called name scoped to u, or "" when absent.
func (s *SessionStore) Value(u *url.URL, name string) string {
	for _, c := range s.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Has reports whether a non-empty cookie called name is scoped to u.
func (s *SessionStore) Has(u *url.URL, name string) bool {
	return s.Value(u, name) != ""
}

var _ http.CookieJar = (*SessionStore)(nil)
