package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/tradecard/cardmint/docs"
	v1 "github.com/tradecard/cardmint/internal/api/handler/v1"
	"github.com/tradecard/cardmint/internal/api/middleware"
	"github.com/tradecard/cardmint/internal/config"
	"github.com/tradecard/cardmint/internal/repository"
	"github.com/tradecard/cardmint/internal/repository/dao"
	"github.com/tradecard/cardmint/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	eventFeedHandler := s.initEventFeedHandler()
	authHandler := s.initAuthHandler(db)
	registryHandler, adminHandler := s.initRegistryHandlers(db, eventFeedHandler)
	walletHandler := s.initWalletHandler(db)
	s.MountHandlers(authHandler, registryHandler, adminHandler, walletHandler, eventFeedHandler)

	return s
}

func (s *Server) initEventFeedHandler() *v1.EventFeedHandler {
	handler := v1.NewEventFeedHandler()
	go handler.Run()

	return handler
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initRegistryHandlers(db *gorm.DB, events service.EventPublisher) (*v1.RegistryHandler, *v1.AdminHandler) {
	registryDAO := dao.NewRegistryDAO(db)
	repo := repository.NewRegistryRepository(registryDAO)
	svc := service.NewRegistryService(repo, events)

	return v1.NewRegistryHandler(svc), v1.NewAdminHandler(svc)
}

func (s *Server) initWalletHandler(db *gorm.DB) *v1.WalletHandler {
	ledgerDAO := dao.NewLedgerDAO(db)
	ledgerRepo := repository.NewLedgerRepository(ledgerDAO)
	registryRepo := repository.NewRegistryRepository(dao.NewRegistryDAO(db))
	svc := service.NewWalletService(ledgerRepo, registryRepo)
	handler := v1.NewWalletHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	registryHandler *v1.RegistryHandler,
	adminHandler *v1.AdminHandler,
	walletHandler *v1.WalletHandler,
	eventFeedHandler *v1.EventFeedHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/pricing", registryHandler.HandleGetPricing)
		public.GET("/cards", registryHandler.HandleListCards)
		public.GET("/cards/:tokenID", registryHandler.HandleGetCard)
		public.GET("/events", registryHandler.HandleListEvents)
		public.GET("/events/feed", eventFeedHandler.HandleEventFeed)
	}

	protected := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		protected.POST("/mint/native", registryHandler.HandleMintWithNative)
		protected.POST("/mint/token", registryHandler.HandleMintWithToken)

		protected.POST("/wallet/deposit", walletHandler.HandleDeposit)
		protected.POST("/wallet/approve", walletHandler.HandleApprove)
		protected.GET("/wallet/balance", walletHandler.HandleGetBalance)
		protected.GET("/wallet/allowance", walletHandler.HandleGetAllowance)

		protected.PUT("/admin/price", adminHandler.HandleSetNativePrice)
		protected.POST("/admin/tokens", adminHandler.HandleSetToken)
		protected.PUT("/admin/tokens/:address/price", adminHandler.HandleUpdateTokenPrice)
		protected.DELETE("/admin/tokens/:address", adminHandler.HandleRemoveToken)
		protected.PUT("/admin/treasury", adminHandler.HandleSetTreasury)
		protected.POST("/admin/withdraw", adminHandler.HandleWithdraw)
		protected.POST("/admin/recover/:address", adminHandler.HandleRecoverToken)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "cardmint API"
	docs.SwaggerInfo.Description = "Trading card mint registry with native and token payments."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
