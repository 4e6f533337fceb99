// Package auth is a bearer token middleware module.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"routeplug/internal/chiplugin"
)

const principalKey = "auth.principal"

// Middleware accepts requests carrying one of its tokens in the
// Authorization header. Tokens are configured as "principal:token" or a bare
// token, which authenticates as "api".
type Middleware struct {
	tokens []credential
}

type credential struct {
	principal string
	token     []byte
}

func NewMiddleware(tokens []string) *Middleware {
	m := &Middleware{}
	for _, raw := range tokens {
		principal, token, ok := strings.Cut(raw, ":")
		if !ok {
			principal, token = "api", raw
		}
		principal, token = strings.TrimSpace(principal), strings.TrimSpace(token)
		if token == "" {
			continue
		}
		m.tokens = append(m.tokens, credential{principal: principal, token: []byte(token)})
	}
	return m
}

func (m *Middleware) Handle(w http.ResponseWriter, r *http.Request, next chiplugin.Next) {
	token, ok := bearerToken(r)
	if !ok {
		next(chiplugin.StatusError(http.StatusUnauthorized, "missing bearer token"))
		return
	}

	for _, c := range m.tokens {
		if subtle.ConstantTimeCompare(c.token, []byte(token)) == 1 {
			chiplugin.Locals(r).Set(principalKey, c.principal)
			next(nil)
			return
		}
	}
	next(chiplugin.StatusError(http.StatusUnauthorized, "invalid bearer token"))
}

// Principal returns the principal authenticated for r, or "".
func Principal(r *http.Request) string {
	v, _ := chiplugin.Locals(r).Get(principalKey)
	s, _ := v.(string)
	return s
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

var _ chiplugin.Middleware = (*Middleware)(nil)
