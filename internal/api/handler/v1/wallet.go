package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradecard/cardmint/internal/api/handler/v1/request"
	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
	"github.com/tradecard/cardmint/internal/domain"
)

type WalletService interface {
	Deposit(ctx context.Context, address, asset string, amount domain.Amount) (domain.Balance, error)
	Approve(ctx context.Context, owner, asset string, amount domain.Amount) (domain.Allowance, error)
	GetBalance(ctx context.Context, address, asset string) (domain.Balance, error)
	GetAllowance(ctx context.Context, owner, asset string) (domain.Allowance, error)
}

type WalletHandler struct {
	svc WalletService
}

func NewWalletHandler(svc WalletService) *WalletHandler {
	return &WalletHandler{
		svc: svc,
	}
}

// HandleDeposit godoc
// @Summary      Fund the caller's balance
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      request.DepositRequest  true  "asset and amount"
// @Success      200    {object}  domain.Balance
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /wallet/deposit [post]
func (h *WalletHandler) HandleDeposit(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.DepositRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	balance, err := h.svc.Deposit(ctx.Request.Context(), caller, input.Asset, input.Amount)
	if err != nil {
		err = fmt.Errorf("HandleDeposit -> h.svc.Deposit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, balance)
}

// HandleApprove godoc
// @Summary      Grant the registry an allowance
// @Description  Sets (not adds) the registry's spendable amount of the caller's asset
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      request.ApproveRequest  true  "asset and amount"
// @Success      200    {object}  domain.Allowance
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /wallet/approve [post]
func (h *WalletHandler) HandleApprove(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.ApproveRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	allowance, err := h.svc.Approve(ctx.Request.Context(), caller, input.Asset, input.Amount)
	if err != nil {
		err = fmt.Errorf("HandleApprove -> h.svc.Approve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, allowance)
}

// HandleGetBalance godoc
// @Summary      Get the caller's balance for an asset
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        asset  query     string  false  "asset, native by default"
// @Success      200    {object}  domain.Balance
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /wallet/balance [get]
func (h *WalletHandler) HandleGetBalance(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	asset := ctx.DefaultQuery("asset", domain.NativeAsset)

	balance, err := h.svc.GetBalance(ctx.Request.Context(), caller, asset)
	if err != nil {
		err = fmt.Errorf("HandleGetBalance -> h.svc.GetBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, balance)
}

// HandleGetAllowance godoc
// @Summary      Get the registry's allowance over the caller's asset
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        asset  query     string  true  "token address"
// @Success      200    {object}  domain.Allowance
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /wallet/allowance [get]
func (h *WalletHandler) HandleGetAllowance(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	asset := ctx.Query("asset")
	if asset == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("asset query parameter is required")))
		return
	}

	allowance, err := h.svc.GetAllowance(ctx.Request.Context(), caller, asset)
	if err != nil {
		err = fmt.Errorf("HandleGetAllowance -> h.svc.GetAllowance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, allowance)
}
