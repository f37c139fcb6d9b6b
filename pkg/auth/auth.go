// Package auth validates bearer credentials at connection admission.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/config"
)

var (
	ErrNoToken      = errors.New("no token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified subject attached to a connection.
// The role here is the only source of truth for authorization.
type Identity struct {
	UserId string
	Role   api.Role
}

type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

type claims struct {
	UserId string   `json:"id"`
	Role   api.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewVerifier(conf config.Auth) *Verifier {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if conf.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(conf.Leeway))
	}
	return &Verifier{secret: []byte(conf.Secret), opts: opts}
}

// Verify decodes and checks the token, returning the identity it
// carries. Expired, malformed, or badly signed tokens fail; so do
// tokens without a known role or a subject.
func (v *Verifier) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoToken
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, v.key, v.opts...)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	uid := c.UserId
	if uid == "" {
		uid = c.Subject
	}
	if uid == "" || !c.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserId: uid, Role: c.Role}, nil
}

func (v *Verifier) key(*jwt.Token) (any, error) { return v.secret, nil }

// TokenFromRequest extracts the bearer credential from the
// Authorization header or, failing that, the token query param
// (browser WebSocket clients can't set headers).
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return t
		}
	}
	return r.URL.Query().Get("token")
}
