package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/compare"
	"marketplace-service/internal/config"
	"marketplace-service/internal/conversation"
	"marketplace-service/internal/db"
	"marketplace-service/internal/handlers"
	"marketplace-service/internal/logger"
	"marketplace-service/internal/middleware"
	"marketplace-service/internal/observability"
	"marketplace-service/internal/rabbitmq"
	"marketplace-service/internal/repositories"
	"marketplace-service/internal/telemetry"
	"marketplace-service/internal/ws"
)

const serviceName = "marketplace-service"

func main() {
	cfg := config.Load()

	appLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, cfg.OTLPAddr)
	if err != nil {
		appLogger.Warn("tracing setup failed, continuing without traces", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	database, err := db.Connect(cfg.DatabaseDSN, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to db", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer redisClient.Close()

	var conversationStore conversation.Store
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Warn("redis unreachable, conversation cache is in-memory only", "error", err)
		conversationStore = conversation.NewMemoryStore()
	} else {
		conversationStore = conversation.NewRedisStore(redisClient, 24*time.Hour)
	}

	eventPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer eventPublisher.Close()
	appLogger.Info("event publisher ready",
		"mode", rabbitmq.PublisherMode(eventPublisher),
		"noop_reason", rabbitmq.PublisherNoopReason(eventPublisher))

	if cfg.AMQPURL != "" {
		wsPublisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			appLogger.Warn("ws event publisher unavailable", "error", err)
		} else {
			observability.SetPublisher(wsPublisher)
			defer wsPublisher.Close()
		}
	}

	auditEmitter := telemetry.NewAuditEmitter(eventPublisher, "audit.marketplace", serviceName, cfg.Environment, appLogger)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repositories.NewUserRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	productRepo := repositories.NewProductRepo(database)
	cartRepo := repositories.NewCartRepo(database)
	wishlistRepo := repositories.NewWishlistRepo(database)
	auctionRepo := repositories.NewAuctionRepo(database)

	hub := ws.NewHub(appLogger)

	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo, hub)
	catalogHandler := handlers.NewCatalogHandler(productRepo, 12, cfg.FilterDebounce, appLogger)
	productHandler := handlers.NewProductHandler(productRepo, appLogger)
	compareHandler := handlers.NewCompareHandler(compare.NewStore(), productRepo)
	cartHandler := handlers.NewCartHandler(cartRepo)
	wishlistHandler := handlers.NewWishlistHandler(wishlistRepo)
	auctionHandler := handlers.NewAuctionHandler(auctionRepo, appLogger)

	chatWS := ws.NewChatWebSocketHandler(hub, chatRepo, messageRepo, userRepo, tokens, conversationStore, appLogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/auth/login", authHandler.Login)

	router.GET("/products", catalogHandler.ListProducts)
	router.GET("/products/:product_id", catalogHandler.GetProduct)
	router.GET("/auctions", auctionHandler.ListActiveAuctions)

	authMiddleware := middleware.AuthMiddleware(tokens)

	authed := router.Group("/", authMiddleware)
	{
		authed.GET("/chats", chatHandler.ListChats)
		authed.POST("/chats/start", chatHandler.StartChat)
		authed.GET("/chats/:chat_id/messages", chatHandler.GetChatMessages)
		authed.POST("/chats/:chat_id/messages", chatHandler.PostChatMessage)
		authed.GET("/messages", chatHandler.GetAllMessages)

		authed.GET("/cart", cartHandler.GetCart)
		authed.POST("/cart", cartHandler.AddToCart)
		authed.DELETE("/cart/:product_id", cartHandler.RemoveFromCart)

		authed.GET("/wishlist", wishlistHandler.GetWishlist)
		authed.POST("/wishlist", wishlistHandler.AddToWishlist)
		authed.DELETE("/wishlist/:product_id", wishlistHandler.RemoveFromWishlist)

		authed.GET("/listing", catalogHandler.GetListingView)
		authed.PUT("/listing/filters", catalogHandler.SetListingFilters)
		authed.PUT("/listing/page", catalogHandler.SetListingPage)
		authed.DELETE("/listing", catalogHandler.CloseListing)

		authed.GET("/compare", compareHandler.GetCompareTable)
		authed.POST("/compare", compareHandler.AddToCompare)
		authed.DELETE("/compare", compareHandler.ClearCompare)
		authed.DELETE("/compare/:product_id", compareHandler.RemoveFromCompare)
	}

	seller := router.Group("/seller", authMiddleware, middleware.RequireSeller())
	{
		seller.GET("/products", productHandler.ListMyProducts)
		seller.POST("/products", productHandler.CreateProduct)
		seller.PUT("/products/:product_id", productHandler.UpdateProduct)
		seller.DELETE("/products/:product_id", productHandler.DeleteProduct)
		seller.GET("/products/export", productHandler.ExportMyProducts)
	}

	router.GET("/ws/chats/:chat_id", chatWS.Handle)

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.DebugRoutes)

	appLogger.Info("starting server", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		appLogger.Fatal("server error", "error", err)
	}
}
