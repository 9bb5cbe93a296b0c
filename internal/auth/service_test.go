package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"starfield-server/internal/shared/config"
)

func testService(adminKey string) *Service {
	cfg := config.AuthConfig{
		JWTSecret:       "test-secret-key-that-is-long-enough!",
		AdminKey:        adminKey,
		TokenExpiration: time.Hour,
	}
	return NewService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCheckAdminKey(t *testing.T) {
	s := testService("hunter2")

	if !s.CheckAdminKey("hunter2") {
		t.Error("correct key rejected")
	}
	if s.CheckAdminKey("hunter3") {
		t.Error("wrong key accepted")
	}
	if s.CheckAdminKey("") {
		t.Error("empty key accepted")
	}
}

func TestEmptyAdminKeyDisablesAccess(t *testing.T) {
	s := testService("")
	if s.CheckAdminKey("") {
		t.Error("empty configured key must disable admin access, not match everything")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService("hunter2")

	token, err := s.IssueAdminToken()
	if err != nil {
		t.Fatal(err)
	}

	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("freshly issued token rejected: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestValidateRejectsForeignToken(t *testing.T) {
	issuer := testService("hunter2")
	token, err := issuer.IssueAdminToken()
	if err != nil {
		t.Fatal(err)
	}

	other := NewService(config.AuthConfig{
		JWTSecret:       "a-completely-different-32-byte-secret",
		TokenExpiration: time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := other.Validate(token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	s := testService("hunter2")
	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := s.Validate(token); err == nil {
			t.Errorf("Validate(%q) accepted a malformed token", token)
		}
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	s := NewService(config.AuthConfig{
		JWTSecret:       "test-secret-key-that-is-long-enough!",
		AdminKey:        "hunter2",
		TokenExpiration: -time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	token, err := s.IssueAdminToken()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Validate(token); err == nil {
		t.Error("expired token accepted")
	}
}
