package auth

import (
	"testing"
	"time"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "bank-test",
		15*time.Minute, 24*time.Hour)
}

func TestGenerateAndParsePair(t *testing.T) {
	tm := newTestManager()
	access, refresh, exp, err := tm.GeneratePair("user-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens identical")
	}
	if !exp.After(time.Now()) {
		t.Error("access expiry not in the future")
	}

	claims, isRefresh, err := tm.ParseAny(access)
	if err != nil {
		t.Fatal(err)
	}
	if isRefresh {
		t.Error("access token classified as refresh")
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Errorf("claims = %s/%s, want user-1/admin", claims.UserID, claims.Role)
	}

	claims, isRefresh, err = tm.ParseAny(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if !isRefresh {
		t.Error("refresh token classified as access")
	}
	if claims.UserID != "user-1" {
		t.Errorf("refresh claims uid = %s, want user-1", claims.UserID)
	}
}

func TestParseRejectsForeignAndGarbageTokens(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("other-access", "other-refresh", "bank-test",
		15*time.Minute, 24*time.Hour)

	access, _, _, err := other.GeneratePair("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tm.ParseAny(access); err == nil {
		t.Error("token signed with a different secret accepted")
	}
	if _, _, err := tm.ParseAny("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", "bank-test",
		-time.Minute, -time.Minute)
	access, _, _, err := tm.GeneratePair("user-1", "user")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tm.ParseAny(access); err == nil {
		t.Error("expired token accepted")
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("1234")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "1234" {
		t.Fatal("secret stored in plaintext")
	}
	if err := VerifySecret("1234", hash); err != nil {
		t.Errorf("correct secret rejected: %v", err)
	}
	if err := VerifySecret("4321", hash); err == nil {
		t.Error("wrong secret accepted")
	}
}
