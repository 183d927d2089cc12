// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TokenLifetime bounds every issued session token. Tokens that never expire
// are not acceptable for a voting system.
const TokenLifetime = 72 * time.Hour

// JwtCustomClaims for JWT token
type JwtCustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.StandardClaims
}

// Valid implements the Claims interface for Echo's JWT middleware
func (c JwtCustomClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return errors.New("token is expired")
	}

	if c.NotBefore > 0 && time.Now().Unix() < c.NotBefore {
		return errors.New("token used before valid")
	}

	return nil
}

// GetJWTSecret returns the JWT secret from environment variables
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET environment variable is required")
	}
	return secret
}

// JWTMiddleware returns a configured JWT middleware
func JWTMiddleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(GetJWTSecret()),
		Claims:     &JwtCustomClaims{},
		SuccessHandler: func(c echo.Context) {
			user := c.Get("user").(*jwt.Token)
			claims := user.Claims.(*JwtCustomClaims)

			// Store claims in context for easy access
			c.Set("email", claims.Email)
			c.Set("name", claims.Name)
		},
		ErrorHandler: func(err error) error {
			return echo.NewHTTPError(echo.ErrUnauthorized.Code, "Invalid or expired token")
		},
	})
}

// GenerateJWT issues a signed HS256 token for the given voter.
func GenerateJWT(email, name string) (string, error) {
	now := time.Now()
	claims := &JwtCustomClaims{
		Email: email,
		Name:  name,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(TokenLifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET environment variable is required")
	}

	return token.SignedString([]byte(secret))
}

// GetUserFromToken extracts claims from the JWT token in context
func GetUserFromToken(c echo.Context) *JwtCustomClaims {
	user := c.Get("user")
	if user == nil {
		return nil
	}

	token, ok := user.(*jwt.Token)
	if !ok {
		return nil
	}

	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok {
		return nil
	}

	return claims
}

// ExtractEmail safely extracts the authenticated email from the context
func ExtractEmail(c echo.Context) (string, error) {
	if email, ok := c.Get("email").(string); ok && email != "" {
		return email, nil
	}

	claims := GetUserFromToken(c)
	if claims != nil && claims.Email != "" {
		return claims.Email, nil
	}

	return "", errors.New("invalid token")
}
