package utils

import (
	"strings"
	"time"

	"aulavirtual/backend/apperr"
	"aulavirtual/backend/config"
	"aulavirtual/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims is the payload issued by the identity provider: sub is the user id.
type Claims struct {
	UserType models.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// Identity is what the auth middleware stores for the handlers.
type Identity struct {
	UserID   uuid.UUID
	UserType models.UserType
}

// GenerateToken mints a token the server accepts. Used by the token command and tests.
func GenerateToken(userID uuid.UUID, userType models.UserType, ttl time.Duration, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := Claims{
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken verifies the signature and returns the caller's identity.
func ParseToken(tokenString string, cfg *config.Config) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrUnauthorized
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.ErrUnauthorized.Wrap(err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperr.Newf(apperr.KindUnauthorized, apperr.ErrUnauthorized.Code, "invalid subject in token")
	}
	switch claims.UserType {
	case models.UserTypeStudent, models.UserTypeInstructor:
	default:
		return Identity{}, apperr.Newf(apperr.KindUnauthorized, apperr.ErrUnauthorized.Code, "invalid userType in token")
	}
	return Identity{UserID: userID, UserType: claims.UserType}, nil
}

// ExtractIdentity reads the bearer token of the request.
func ExtractIdentity(c *fiber.Ctx, cfg *config.Config) (Identity, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return Identity{}, apperr.Newf(apperr.KindUnauthorized, apperr.ErrUnauthorized.Code, "missing authorization token")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return ParseToken(tokenString, cfg)
}
