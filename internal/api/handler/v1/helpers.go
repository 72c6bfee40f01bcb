package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
	"github.com/tradecard/cardmint/internal/api/middleware"
)

// getCallerAddress extracts the authenticated wallet address set by the JWT
// middleware.
func getCallerAddress(ctx *gin.Context) (string, *response.Err) {
	address := ctx.GetString(middleware.ContextKeyAddress)
	if address == "" {
		return "", response.ErrUnauthorized("missing caller address")
	}

	return address, nil
}
