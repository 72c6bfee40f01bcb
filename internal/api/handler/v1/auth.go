package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tradecard/cardmint/internal/api/handler/v1/request"
	"github.com/tradecard/cardmint/internal/api/handler/v1/response"
	"github.com/tradecard/cardmint/internal/api/middleware"
	"github.com/tradecard/cardmint/internal/config"
	"github.com/tradecard/cardmint/internal/domain"
	"github.com/tradecard/cardmint/internal/service"
)

const tokenLifespan = 24 * time.Hour

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignup godoc
// @Summary      Register a wallet
// @Description  Creates a user bound to a wallet address and returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      request.SignupRequest  true  "signup details"
// @Success      201    {object}  response.SignupResponse
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var input request.SignupRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email:    input.Email,
		Password: input.Password,
		Address:  input.Address,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) || errors.Is(err, service.ErrUserAddressExists) {
			response.RenderErr(ctx, &response.Err{StatusCode: http.StatusConflict, Message: err.Error()})
			return
		}

		err = fmt.Errorf("HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := h.createToken(user)
	if err != nil {
		err = fmt.Errorf("HandleSignup -> h.createToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.SignupResponse{Token: token, User: user})
}

// HandleLogin godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      request.LoginRequest  true  "login details"
// @Success      200    {object}  response.SignupResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var input request.LoginRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid email or password"))
			return
		}

		err = fmt.Errorf("HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := h.createToken(user)
	if err != nil {
		err = fmt.Errorf("HandleLogin -> h.createToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.SignupResponse{Token: token, User: user})
}

func (h *AuthHandler) createToken(user domain.User) (string, error) {
	claims := middleware.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifespan)),
		},
		UserID:  user.ID,
		Address: user.Address,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(h.conf.JWTSigningKey))
}
