package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecard/cardmint/internal/api/middleware"
	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/repository"
	"github.com/tradecard/cardmint/internal/service"
)

const callerAddr = "0x000000000000000000000000000000000000beef"

type fakeMintService struct {
	mintErr error
	card    domain.Card
	cards   []domain.Card
	pricing service.Pricing
	events  []domain.Event

	lastMint    repository.MintRequest
	lastPayment domain.Amount
	lastToken   string
}

func (f *fakeMintService) MintWithNative(_ context.Context, req repository.MintRequest, payment domain.Amount) (domain.Card, error) {
	f.lastMint = req
	f.lastPayment = payment
	return f.card, f.mintErr
}

func (f *fakeMintService) MintWithToken(_ context.Context, tokenAddress string, req repository.MintRequest) (domain.Card, error) {
	f.lastMint = req
	f.lastToken = tokenAddress
	return f.card, f.mintErr
}

func (f *fakeMintService) GetCardMetadata(context.Context, uint64) (domain.Card, error) {
	return f.card, f.mintErr
}

func (f *fakeMintService) GetCardsByOwner(context.Context, string) ([]domain.Card, error) {
	return f.cards, f.mintErr
}

func (f *fakeMintService) GetPricing(context.Context) (service.Pricing, error) {
	return f.pricing, f.mintErr
}

func (f *fakeMintService) ListEvents(context.Context, int) ([]domain.Event, error) {
	return f.events, f.mintErr
}

func setupRouter(svc RegistryMintService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewRegistryHandler(svc)

	// Stand-in for the JWT middleware.
	authed := router.Group("", func(c *gin.Context) {
		c.Set(middleware.ContextKeyAddress, callerAddr)
	})
	authed.POST("/mint/native", handler.HandleMintWithNative)
	authed.POST("/mint/token", handler.HandleMintWithToken)

	router.GET("/cards", handler.HandleListCards)
	router.GET("/cards/:tokenID", handler.HandleGetCard)
	router.GET("/pricing", handler.HandleGetPricing)
	router.GET("/events", handler.HandleListEvents)

	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleMintWithNative(t *testing.T) {
	svc := &fakeMintService{card: domain.Card{TokenID: 1, Owner: callerAddr, Username: "trader"}}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodPost, "/mint/native",
		`{"username":"trader","total_profit_loss":-1234,"win_rate":6123,"net_worth":105050,"metadata_cid":"bafydoc","payment":"1000"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		TokenID uint64 `json:"token_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.TokenID)

	// The caller comes from the token, never from the body.
	assert.Equal(t, callerAddr, svc.lastMint.Caller)
	assert.Equal(t, "1000", svc.lastPayment.String())
	assert.Equal(t, int64(-1234), svc.lastMint.Metrics.TotalProfitLoss)
	assert.Equal(t, "bafydoc", svc.lastMint.MetadataCID)
}

func TestHandleMintWithNativeValidation(t *testing.T) {
	router := setupRouter(&fakeMintService{})

	// Username is required.
	w := doJSON(router, http.MethodPost, "/mint/native", `{"payment":"1000"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/mint/native", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMintWithNativeInsufficientPayment(t *testing.T) {
	svc := &fakeMintService{mintErr: service.ErrInsufficientPayment}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodPost, "/mint/native", `{"username":"trader","payment":"1"}`)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrInsufficientPayment.Error())
}

func TestHandleMintWithToken(t *testing.T) {
	svc := &fakeMintService{card: domain.Card{TokenID: 2}}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodPost, "/mint/token",
		`{"token_address":"0x7ea1","username":"trader"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0x7ea1", svc.lastToken)
}

func TestHandleMintWithTokenNotAccepted(t *testing.T) {
	svc := &fakeMintService{mintErr: service.ErrTokenNotAccepted}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodPost, "/mint/token", `{"token_address":"0x7ea1","username":"trader"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetCard(t *testing.T) {
	svc := &fakeMintService{card: domain.Card{TokenID: 7, Username: "trader"}}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodGet, "/cards/7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"trader"`)

	w = doJSON(router, http.MethodGet, "/cards/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetCardNotFound(t *testing.T) {
	svc := &fakeMintService{mintErr: service.ErrCardNotFound}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodGet, "/cards/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListCardsRequiresOwner(t *testing.T) {
	svc := &fakeMintService{cards: []domain.Card{{TokenID: 2}, {TokenID: 1}}}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodGet, "/cards", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/cards?owner="+callerAddr, "")
	require.Equal(t, http.StatusOK, w.Code)

	var cards []domain.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	assert.Len(t, cards, 2)
}

func TestHandleGetPricing(t *testing.T) {
	svc := &fakeMintService{pricing: service.Pricing{
		RegistryAddress: "0xc0",
		NativePrice:     domain.NewAmount(1000),
	}}
	router := setupRouter(svc)

	w := doJSON(router, http.MethodGet, "/pricing", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"native_price":"1000"`)
}

func TestHandleListEventsLimit(t *testing.T) {
	router := setupRouter(&fakeMintService{})

	w := doJSON(router, http.MethodGet, "/events?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/events?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/events", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
