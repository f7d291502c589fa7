package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"welfaredesk/backend/internal/service/booking"
)

const actorKey = "actor"

// Claims is the identity carried by tokens from the auth provider. Only the
// subject and role are read.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Parse validates an HS256 token and returns the actor it identifies.
func (a *Authenticator) Parse(raw string) (booking.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return booking.Actor{}, err
	}
	if !token.Valid {
		return booking.Actor{}, jwt.ErrTokenSignatureInvalid
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return booking.Actor{}, errors.New("token has no subject")
	}
	role := booking.Role(strings.ToLower(strings.TrimSpace(claims.Role)))
	if role == "" {
		role = booking.RoleCitizen
	}
	if !role.Valid() {
		return booking.Actor{}, errors.New("token has an unknown role")
	}
	return booking.Actor{ID: sub, Role: role}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// actor on the gin context.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		actor, err := a.Parse(strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) booking.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(booking.Actor); ok {
			return actor
		}
	}
	return booking.Actor{}
}
