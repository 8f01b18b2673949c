// file: internals/features/users/service/token.go
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/DevMick/Web-API-Froebel-sub000/internals/configs"
	model "github.com/DevMick/Web-API-Froebel-sub000/internals/features/users/model"
)

const accessTokenTTL = 12 * time.Hour

// IssueAccessToken signs the claims the auth middleware later puts back
// into the tenant context.
func IssueAccessToken(u *model.UserModel) (string, error) {
	roles := u.Roles()
	strRoles := make([]string, 0, len(roles))
	for _, r := range roles {
		strRoles = append(strRoles, r.String())
	}

	claims := jwt.MapClaims{
		"user_id":   u.UserID.String(),
		"user_name": u.UserFullName,
		"roles":     strRoles,
		"exp":       time.Now().Add(accessTokenTTL).Unix(),
		"iat":       time.Now().Unix(),
	}
	if u.UserSchoolID != nil {
		claims["school_id"] = u.UserSchoolID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}
