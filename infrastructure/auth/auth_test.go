package auth

import (
	"errors"
	"testing"
	"time"

	"sevabook/infrastructure/config"
)

func testService() *Service {
	return New(config.AuthConfig{
		JWTSecret:   "unit-test-secret",
		TokenTTL:    time.Hour,
		AdminEmails: "admin@example.org, second@example.org",
	})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := testService()
	token, err := svc.Issue(42, "Devotee@Example.ORG", "Devotee", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if id.UserID != 42 {
		t.Errorf("user id = %d", id.UserID)
	}
	if id.Email != "devotee@example.org" {
		t.Errorf("email = %q, want lowercased", id.Email)
	}
	if id.Name != "Devotee" {
		t.Errorf("name = %q", id.Name)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := testService()

	if _, err := svc.Verify(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token err = %v", err)
	}
	if _, err := svc.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v", err)
	}

	// A token signed with a different secret fails verification.
	other := New(config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour})
	token, err := other.Issue(1, "x@example.org", "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token err = %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := testService()
	token, err := svc.Issue(7, "x@example.org", "", time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token err = %v", err)
	}
}

func TestIsAdminUsesAllowList(t *testing.T) {
	svc := testService()
	if !svc.IsAdmin(Identity{Email: "ADMIN@example.org"}) {
		t.Error("allow-listed email not recognized")
	}
	if svc.IsAdmin(Identity{Email: "devotee@example.org"}) {
		t.Error("non-listed email treated as admin")
	}
	if svc.IsAdmin(Identity{}) {
		t.Error("empty email treated as admin")
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"  Bearer   abc123  ", "abc123", true},
		{"Basic abc123", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
