package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/virtual-classroom/coordinator/pkg/api"
	"github.com/virtual-classroom/coordinator/pkg/config"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(config.Auth{Secret: testSecret})

	tests := []struct {
		name  string
		token string
		id    Identity
		fail  bool
	}{
		{
			name:  "teacher",
			token: sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "teacher"}),
			id:    Identity{UserId: "u1", Role: api.RoleTeacher},
		},
		{
			name:  "student with sub claim",
			token: sign(t, testSecret, jwt.MapClaims{"sub": "u2", "role": "student"}),
			id:    Identity{UserId: "u2", Role: api.RoleStudent},
		},
		{name: "empty", fail: true},
		{name: "garbage", token: "not.a.token", fail: true},
		{
			name:  "wrong key",
			token: sign(t, "other-secret", jwt.MapClaims{"id": "u1", "role": "teacher"}),
			fail:  true,
		},
		{
			name: "expired",
			token: sign(t, testSecret, jwt.MapClaims{
				"id": "u1", "role": "teacher", "exp": time.Now().Add(-time.Hour).Unix(),
			}),
			fail: true,
		},
		{
			name:  "unknown role",
			token: sign(t, testSecret, jwt.MapClaims{"id": "u1", "role": "admin"}),
			fail:  true,
		},
		{
			name:  "no subject",
			token: sign(t, testSecret, jwt.MapClaims{"role": "teacher"}),
			fail:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(tt.token)
			if tt.fail {
				if err == nil {
					t.Fatalf("verified, but should not be: %+v", id)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if id != tt.id {
				t.Errorf("got %+v, want %+v", id, tt.id)
			}
		})
	}
}

func TestVerifyLeeway(t *testing.T) {
	v := NewVerifier(config.Auth{Secret: testSecret, Leeway: time.Minute})
	token := sign(t, testSecret, jwt.MapClaims{
		"id": "u1", "role": "student", "exp": time.Now().Add(-10 * time.Second).Unix(),
	})
	if _, err := v.Verify(token); err != nil {
		t.Errorf("rejected within the leeway window: %v", err)
	}
}

func TestVerifyRejectsNone(t *testing.T) {
	v := NewVerifier(config.Auth{Secret: testSecret})
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone,
		jwt.MapClaims{"id": "u1", "role": "teacher"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = v.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg=none passed verification")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws?token=qqq", nil)
	if got := TokenFromRequest(r); got != "qqq" {
		t.Errorf("got %q from the query", got)
	}
	r.Header.Set("Authorization", "Bearer www")
	if got := TokenFromRequest(r); got != "www" {
		t.Errorf("got %q, the header should win", got)
	}
}
