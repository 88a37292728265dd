package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/auth"
	"github.com/arnabdutta04/estate-backend/internal/config"
	"github.com/arnabdutta04/estate-backend/internal/handler"
	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/repository"
	"github.com/arnabdutta04/estate-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	// Redis опционален: без него logout не отзывает токены
	var revoker *auth.Revoker
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		revoker = auth.NewRevoker(rdb)
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	brokerRepo := repository.NewBrokerRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authService := service.NewAuthService(userRepo, brokerRepo, tokens, revoker)
	brokerService := service.NewBrokerService(brokerRepo, userRepo, propertyRepo)
	propertyService := service.NewPropertyService(propertyRepo, brokerRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)

	authH := &handler.AuthHandler{Auth: authService, Logger: logger}
	propertyH := &handler.PropertyHandler{Properties: propertyService, Brokers: brokerRepo, Logger: logger}
	brokerH := &handler.BrokerHandler{Brokers: brokerService, Logger: logger}
	adminH := &handler.AdminHandler{Brokers: brokerService, Logger: logger}
	messageH := &handler.MessageHandler{Messages: messageService, Logger: logger}

	// Типизированный nil в интерфейсе прошёл бы проверку revoker != nil
	var revocations middleware.TokenRevoker
	if revoker != nil {
		revocations = revoker
	}
	requireAuth := middleware.RequireAuth(tokens, revocations)
	optionalAuth := middleware.OptionalAuth(tokens, revocations)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	brokerOnly := middleware.RequireRole(model.RoleBroker)
	verifiedBroker := middleware.RequireVerifiedBroker(brokerRepo, logger)

	r := gin.Default()
	api := r.Group("/api")

	// 1. Открытые роуты
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/properties", optionalAuth, propertyH.Search)
	api.GET("/properties/:id", propertyH.GetByID)
	api.GET("/brokers", brokerH.Directory)

	// 2. Защищённые роуты (JWT обязательно)
	protected := api.Group("/")
	protected.Use(requireAuth)
	{
		protected.GET("/auth/me", authH.Me)
		protected.POST("/auth/logout", authH.Logout)

		// Мутации объявлений — только верифицированный брокер
		protected.POST("/properties", brokerOnly, verifiedBroker, propertyH.Create)
		protected.PUT("/properties/:id", propertyH.Update)
		protected.DELETE("/properties/:id", propertyH.Delete)
		protected.GET("/properties/broker/my-properties", brokerOnly, verifiedBroker, propertyH.MyProperties)
		protected.POST("/properties/:id/schedule-visit", propertyH.ScheduleVisit)
		protected.PUT("/properties/:id/featured", adminOnly, propertyH.SetFeatured)

		protected.GET("/brokers/me", brokerOnly, brokerH.MyProfile)
		protected.PUT("/brokers/complete-profile", brokerOnly, brokerH.CompleteProfile)
		protected.GET("/brokers/stats", brokerOnly, brokerH.MyStats)

		protected.GET("/admin/brokers", adminOnly, adminH.ListBrokers)
		protected.GET("/admin/brokers/:id", adminOnly, adminH.GetBroker)
		protected.PUT("/admin/brokers/:id/verify", adminOnly, adminH.VerifyBroker)
		protected.GET("/admin/stats", adminOnly, adminH.Stats)

		protected.POST("/messages", messageH.Send)
		protected.GET("/messages/conversations", messageH.Conversations)
		protected.GET("/messages/unread-count", messageH.UnreadCount)
		protected.GET("/messages/:otherUserId", messageH.Thread)
		protected.PUT("/messages/:id/read", messageH.MarkRead)
		protected.DELETE("/messages/:id", messageH.Delete)
	}

	logger.Info("estate-backend running", zap.String("addr", cfg.HTTP.Addr))
	if err := r.Run(cfg.HTTP.Addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
