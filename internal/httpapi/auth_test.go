package httpapi

import (
	"strings"
	"testing"
	"time"

	"medstore/backend/internal/domain"
)

func TestSeedUserRejectsBlankPassword(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour)
	if err := auth.SeedUser("admin", "   ", domain.RoleAdmin); err == nil {
		t.Fatalf("blank password must be rejected")
	}
	if _, err := auth.Login(domain.LoginRequest{Username: "admin", Password: ""}); err == nil {
		t.Fatalf("unseeded user must not log in")
	}
}

func TestLoginAndParseTokenRoundTrip(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour)
	if err := auth.SeedUser("admin", "admin-pass-123", domain.RoleAdmin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin-pass-123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" || resp.Role != domain.RoleAdmin {
		t.Fatalf("login response wrong: %+v", resp)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if actor.Username != "admin" || actor.Role != domain.RoleAdmin {
		t.Fatalf("actor wrong: %+v", actor)
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour)
	if err := auth.SeedUser("admin", "admin-pass-123", domain.RoleAdmin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, badPass := auth.Login(domain.LoginRequest{Username: "admin", Password: "wrong"})
	_, badUser := auth.Login(domain.LoginRequest{Username: "ghost", Password: "wrong"})
	if badPass == nil || badUser == nil {
		t.Fatalf("expected both logins to fail")
	}
	// Same message for unknown user and wrong password.
	if badPass.Error() != badUser.Error() {
		t.Fatalf("error messages must not reveal which part was wrong: %q vs %q", badPass, badUser)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour)
	if err := auth.SeedUser("admin", "admin-pass-123", domain.RoleAdmin); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	resp, err := auth.Login(domain.LoginRequest{Username: "admin", Password: "admin-pass-123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	other := NewAuthManager("different-secret", time.Hour)
	if _, err := other.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}

	mangled := resp.AccessToken
	if i := strings.LastIndex(mangled, "."); i > 0 {
		mangled = mangled[:i] + ".AAAA"
	}
	if _, err := auth.ParseToken(mangled); err == nil {
		t.Fatalf("mangled signature must be rejected")
	}
}

func TestParseTokenExpired(t *testing.T) {
	auth := NewAuthManager("test-secret", time.Hour)
	token, err := auth.sign("admin", domain.RoleAdmin, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}
