package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

var ErrInvalidGoogleToken = errors.New("invalid google id token")

// GoogleUser 검증된 Google 계정 정보
type GoogleUser struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// VerifyGoogleIDToken Google ID 토큰을 검증하고 계정 정보를 반환한다.
// 이메일 미확인 계정은 거부한다.
func VerifyGoogleIDToken(ctx context.Context, clientID, token string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, token, clientID)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, errors.New("email not verified")
	}

	return &GoogleUser{
		ID:      payload.Subject,
		Email:   stringClaim(payload.Claims, "email"),
		Name:    stringClaim(payload.Claims, "name"),
		Picture: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}
