// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/configs"
	userModel "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
	helperAuth "github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/auth"
	"github.com/DevMick/Web-API-Froebel-sub000/internals/helpers/logger"
)

// AuthMiddleware verifies the bearer token and stashes the claims in
// locals. Everything behind it can assume an authenticated principal.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			logger.Get().Error("jwt secret is not configured")
			return fiber.NewError(fiber.StatusInternalServerError, "missing jwt secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		}

		rawUserID, _ := claims[helperAuth.LocUserID].(string)
		if strings.TrimSpace(rawUserID) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user claim")
		}

		if err := ensureUserActive(db, rawUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			if errors.Is(err, errUserInactive) {
				return fiber.NewError(fiber.StatusForbidden, "account is deactivated")
			}
			logger.Get().Error("auth user lookup failed", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals(helperAuth.LocUserID, rawUserID)
		if rawSchool, ok := claims[helperAuth.LocSchoolID].(string); ok {
			c.Locals(helperAuth.LocSchoolID, rawSchool)
		}
		if name, ok := claims[helperAuth.LocUserName].(string); ok {
			c.Locals(helperAuth.LocUserName, name)
		}
		c.Locals(helperAuth.LocRoles, extractRoles(claims))

		return c.Next()
	}
}

var errUserInactive = errors.New("user inactive")

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}
	return parts[1], nil
}

func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return errors.New("missing exp claim")
	}
	if time.Now().Add(-leeway).After(time.Unix(int64(exp), 0)) {
		return errors.New("token expired")
	}
	return nil
}

func extractRoles(claims jwt.MapClaims) []string {
	raw, ok := claims[helperAuth.LocRoles].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func ensureUserActive(db *gorm.DB, rawUserID string) error {
	var u userModel.UserModel
	if err := db.Select("user_id", "user_is_active").
		Where("user_id = ?", rawUserID).
		First(&u).Error; err != nil {
		return err
	}
	if !u.UserIsActive {
		return errUserInactive
	}
	return nil
}
