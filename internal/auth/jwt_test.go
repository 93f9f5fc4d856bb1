package auth

import (
	"errors"
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken(42, "user@example.com", "Tester")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "user@example.com" || claims.DisplayName != "Tester" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken(1, "a@b.c", "A")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret-one", time.Hour, 24*time.Hour)
	other := NewJWTManager("secret-two", time.Hour, 24*time.Hour)

	token, _ := m.GenerateAccessToken(1, "a@b.c", "A")
	if _, err := other.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateRefreshToken(77)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	userID, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if userID != 77 {
		t.Errorf("userID = %d, want 77", userID)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	// 리프레시 토큰에는 user_id 클레임이 없어 UserID 0으로 파싱된다
	token, _ := m.GenerateRefreshToken(5)
	claims, err := m.ValidateAccessToken(token)
	if err == nil && claims.UserID != 0 {
		t.Error("refresh token should not carry access claims")
	}
}
