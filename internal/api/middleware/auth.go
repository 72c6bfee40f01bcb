package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
)

const (
	// ContextKeyUserID and ContextKeyAddress are set on the gin context for
	// every authenticated request.
	ContextKeyUserID  = "userID"
	ContextKeyAddress = "userAddress"
)

type UserClaims struct {
	jwt.RegisteredClaims

	UserID  uint   `json:"user_id"`
	Address string `json:"address"`
}

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing Authorization header"))
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			response.RenderErr(ctx, response.ErrUnauthorized("malformed Authorization header"))
			return
		}

		var claims UserClaims
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
			return []byte(a.signingKey), nil
		})
		if err != nil || !token.Valid {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid token"))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyAddress, claims.Address)
		ctx.Next()
	}
}
