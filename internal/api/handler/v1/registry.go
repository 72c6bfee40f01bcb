package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tradecard/cardmint/internal/api/handler/v1/request"
	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository"
	"github.com/tradecard/cardmint/internal/service"
)

const defaultEventLimit = 50

type RegistryMintService interface {
	MintWithNative(ctx context.Context, req repository.MintRequest, payment domain.Amount) (domain.Card, error)
	MintWithToken(ctx context.Context, tokenAddress string, req repository.MintRequest) (domain.Card, error)
	GetCardMetadata(ctx context.Context, tokenID uint64) (domain.Card, error)
	GetCardsByOwner(ctx context.Context, owner string) ([]domain.Card, error)
	GetPricing(ctx context.Context) (service.Pricing, error)
	ListEvents(ctx context.Context, limit int) ([]domain.Event, error)
}

type RegistryHandler struct {
	svc RegistryMintService
}

func NewRegistryHandler(svc RegistryMintService) *RegistryHandler {
	return &RegistryHandler{
		svc: svc,
	}
}

// HandleMintWithNative godoc
// @Summary      Mint a card paying with the native asset
// @Description  Debits the attached payment, mints the next sequential card and refunds any excess
// @Tags         mint
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      request.MintNativeRequest  true  "mint details"
// @Success      201    {object}  response.MintResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      402    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /mint/native [post]
func (h *RegistryHandler) HandleMintWithNative(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.MintNativeRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	card, err := h.svc.MintWithNative(ctx.Request.Context(), mintRequest(caller, input.Username, input.TotalProfitLoss, input.WinRate, input.NetWorth, input.MetadataCID), input.Payment)
	if err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleMintWithNative -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.MintResponse{TokenID: card.TokenID, Card: card})
}

// HandleMintWithToken godoc
// @Summary      Mint a card paying with an accepted token
// @Description  Consumes the caller's allowance and pulls the token price to the treasury
// @Tags         mint
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      request.MintTokenRequest  true  "mint details"
// @Success      201    {object}  response.MintResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      402    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /mint/token [post]
func (h *RegistryHandler) HandleMintWithToken(ctx *gin.Context) {
	caller, rerr := getCallerAddress(ctx)
	if rerr != nil {
		response.RenderErr(ctx, rerr)
		return
	}

	var input request.MintTokenRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	card, err := h.svc.MintWithToken(ctx.Request.Context(), input.TokenAddress, mintRequest(caller, input.Username, input.TotalProfitLoss, input.WinRate, input.NetWorth, input.MetadataCID))
	if err != nil {
		renderRegistryErr(ctx, fmt.Errorf("HandleMintWithToken -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.MintResponse{TokenID: card.TokenID, Card: card})
}

// HandleGetCard godoc
// @Summary      Get a card by token ID
// @Tags         cards
// @Produce      json
// @Param        tokenID  path      int  true  "token ID"
// @Success      200      {object}  domain.Card
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /cards/{tokenID} [get]
func (h *RegistryHandler) HandleGetCard(ctx *gin.Context) {
	tokenID, err := strconv.ParseUint(ctx.Param("tokenID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("tokenID must be a positive integer")))
		return
	}

	card, err := h.svc.GetCardMetadata(ctx.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("card", "tokenID", tokenID))
			return
		}

		err = fmt.Errorf("HandleGetCard -> h.svc.GetCardMetadata -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, card)
}

// HandleListCards godoc
// @Summary      List cards owned by an address
// @Description  Returns the owner's cards newest first
// @Tags         cards
// @Produce      json
// @Param        owner  query     string  true  "owner address"
// @Success      200    {array}   domain.Card
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /cards [get]
func (h *RegistryHandler) HandleListCards(ctx *gin.Context) {
	owner := ctx.Query("owner")
	if owner == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("owner query parameter is required")))
		return
	}

	cards, err := h.svc.GetCardsByOwner(ctx.Request.Context(), owner)
	if err != nil {
		err = fmt.Errorf("HandleListCards -> h.svc.GetCardsByOwner -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cards)
}

// HandleGetPricing godoc
// @Summary      Get mint pricing
// @Description  Returns the native price, the accepted token set and the registry address
// @Tags         pricing
// @Produce      json
// @Success      200  {object}  service.Pricing
// @Failure      500  {object}  response.Err
// @Router       /pricing [get]
func (h *RegistryHandler) HandleGetPricing(ctx *gin.Context) {
	pricing, err := h.svc.GetPricing(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetPricing -> h.svc.GetPricing -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, pricing)
}

// HandleListEvents godoc
// @Summary      List recent registry events
// @Tags         events
// @Produce      json
// @Param        limit  query     int  false  "max events to return"  default(50)
// @Success      200    {array}   domain.Event
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [get]
func (h *RegistryHandler) HandleListEvents(ctx *gin.Context) {
	limit := defaultEventLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("limit must be a positive integer")))
			return
		}
		limit = parsed
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), limit)
	if err != nil {
		err = fmt.Errorf("HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

func mintRequest(caller, username string, pnl int64, winRate, netWorth uint64, cid string) repository.MintRequest {
	return repository.MintRequest{
		Caller:   caller,
		Username: username,
		Metrics: domain.ScaledMetrics{
			TotalProfitLoss: pnl,
			WinRate:         winRate,
			NetWorth:        netWorth,
		},
		MetadataCID: cid,
	}
}

// renderRegistryErr maps registry sentinels onto HTTP statuses. Anything
// outside the taxonomy is a 500.
func renderRegistryErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrTokenTransferFailed):
		response.RenderErr(ctx, response.ErrPaymentRequired(errors.New(rootMessage(err))))
	case errors.Is(err, service.ErrUnauthorized):
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New(rootMessage(err))))
	case errors.Is(err, service.ErrTokenNotAccepted),
		errors.Is(err, service.ErrTokenNotConfigured),
		errors.Is(err, service.ErrCardNotFound):
		response.RenderErr(ctx, &response.Err{StatusCode: http.StatusNotFound, Message: rootMessage(err)})
	case errors.Is(err, service.ErrPriceNotSet),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidTreasury),
		errors.Is(err, service.ErrNothingToWithdraw),
		errors.Is(err, service.ErrNothingToRecover):
		response.RenderErr(ctx, &response.Err{StatusCode: http.StatusBadRequest, Message: rootMessage(err)})
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}
