package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Session struct {
	ID       string
	Values   map[string]string
	IssuedAt time.Time

	dirty   bool
	cleared bool
}

func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Values:   map[string]string{},
		IssuedAt: time.Now(),
	}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.Values[key] = value
	s.dirty = true
	s.cleared = false
}

func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

func (s *Session) Clear() {
	s.Values = map[string]string{}
	s.dirty = true
	s.cleared = true
}

func (s *Session) Modified() bool {
	return s.dirty
}

type sessionClaims struct {
	Values map[string]string `json:"v,omitempty"`
	jwt.RegisteredClaims
}

// SessionCodec signs sessions into cookie values with an HS256 key.
type SessionCodec struct {
	secret []byte
	name   string
	maxAge time.Duration
}

func NewSessionCodec(secret []byte, cookieName string, maxAge time.Duration) (*SessionCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge * time.Second
	}
	return &SessionCodec{secret: secret, name: cookieName, maxAge: maxAge}, nil
}

func (c *SessionCodec) CookieName() string {
	return c.name
}

func (c *SessionCodec) Encode(s *Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Values: s.Values,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

func (c *SessionCodec) Decode(token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidSession)
	}

	s := &Session{ID: claims.ID, Values: claims.Values}
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// Load returns the session carried by the request, or a fresh one when the
// cookie is absent or fails verification.
func (c *SessionCodec) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return NewSession()
	}
	s, err := c.Decode(cookie.Value)
	if err != nil {
		return NewSession()
	}
	return s
}

func (c *SessionCodec) Cookie(s *Session) (*http.Cookie, error) {
	if s.cleared {
		return &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}, nil
	}

	value, err := c.Encode(s)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}

// SessionMiddleware attaches the request's session to its context and, if
// the handler modified it, sets the cookie before the first byte is written.
func SessionMiddleware(codec *SessionCodec, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := codec.Load(r)
		sw := &sessionWriter{ResponseWriter: w, codec: codec, session: s}
		next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), s)))
		if !sw.wroteHeader {
			sw.WriteHeader(http.StatusOK)
		}
	})
}

type sessionWriter struct {
	http.ResponseWriter
	codec       *SessionCodec
	session     *Session
	wroteHeader bool
}

func (w *sessionWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if w.session.Modified() {
		if cookie, err := w.codec.Cookie(w.session); err == nil {
			http.SetCookie(w.ResponseWriter, cookie)
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
