package backend

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/rishia17/ecommerceweb/pkg/types"
)

// SignedTokenCheck accepts HS256 tokens signed with secret whose role claim
// matches the api being called.
func SignedTokenCheck(secret []byte) TokenCheck {
	return func(token string, role types.Role) bool {
		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			return false
		}
		claimed, _ := claims["userType"].(string)
		if claimed == "" {
			claimed, _ = claims["role"].(string)
		}
		return types.Role(claimed) == role
	}
}
