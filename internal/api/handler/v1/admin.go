package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradecard/cardmint/internal/api/handler/v1/request"
	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
	"github.com/tradecard/cardmint/internal/domain"
)

type RegistryAdminService interface {
	SetNativePrice(ctx context.Context, caller string, price domain.Amount) error
	SetToken(ctx context.Context, caller, address string, price domain.Amount) error
	UpdateTokenPrice(ctx context.Context, caller, address string, price domain.Amount) error
	RemoveToken(ctx context.Context, caller, address string) error
	SetTreasury(ctx context.Context, caller, treasury string) error
	WithdrawNative(ctx context.Context, caller string) (domain.Amount, error)
	RecoverToken(ctx context.Context, caller, tokenAddress string) (domain.Amount, error)
}

// AdminHandler exposes the owner-only registry operations. Ownership is
// enforced in the service layer against the configured owner address.
type AdminHandler struct {
	svc RegistryAdminService
}

func NewAdminHandler(svc RegistryAdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleSetNativePrice godoc
// @Summary      Set the native mint price
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  request.SetNativePriceRequest  true  "new price"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/price [put]
func (h *AdminHandler) HandleSetNativePrice(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.SetNativePriceRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetNativePrice(ctx.Request.Context(), caller, input.Price); err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleSetNativePrice -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetToken godoc
// @Summary      Accept a payment token
// @Description  Adds or re-enables a token with its price
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  request.SetTokenRequest  true  "token and price"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tokens [post]
func (h *AdminHandler) HandleSetToken(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.SetTokenRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetToken(ctx.Request.Context(), caller, input.Address, input.Price); err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleSetToken -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateTokenPrice godoc
// @Summary      Update an accepted token's price
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        address  path  string                           true  "token address"
// @Param        input    body  request.UpdateTokenPriceRequest  true  "new price"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tokens/{address}/price [put]
func (h *AdminHandler) HandleUpdateTokenPrice(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.UpdateTokenPriceRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.UpdateTokenPrice(ctx.Request.Context(), caller, ctx.Param("address"), input.Price); err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleUpdateTokenPrice -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRemoveToken godoc
// @Summary      Stop accepting a payment token
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        address  path  string  true  "token address"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/tokens/{address} [delete]
func (h *AdminHandler) HandleRemoveToken(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	if err := h.svc.RemoveToken(ctx.Request.Context(), caller, ctx.Param("address")); err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleRemoveToken -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetTreasury godoc
// @Summary      Change the treasury address
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  request.SetTreasuryRequest  true  "new treasury"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/treasury [put]
func (h *AdminHandler) HandleSetTreasury(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.SetTreasuryRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetTreasury(ctx.Request.Context(), caller, input.Address); err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleSetTreasury -> %w", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleWithdraw godoc
// @Summary      Sweep accumulated native payments to the treasury
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.WithdrawResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/withdraw [post]
func (h *AdminHandler) HandleWithdraw(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	withdrawn, err := h.svc.WithdrawNative(ctx.Request.Context(), caller)
	if err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleWithdraw -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.WithdrawResponse{Token: domain.NativeAsset, Amount: withdrawn})
}

// HandleRecoverToken godoc
// @Summary      Sweep a token balance stuck on the registry to the treasury
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        address  path  string  true  "token address"
// @Success      200  {object}  response.WithdrawResponse
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/recover/{address} [post]
func (h *AdminHandler) HandleRecoverToken(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	address := ctx.Param("address")

	recovered, err := h.svc.RecoverToken(ctx.Request.Context(), caller, address)
	if err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleRecoverToken -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.WithdrawResponse{Token: domain.NormalizeAddress(address), Amount: recovered})
}
