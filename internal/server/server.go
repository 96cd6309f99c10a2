package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/vietlabs/base-backend/internal/apis"
	"github.com/vietlabs/base-backend/internal/config"
	"github.com/vietlabs/base-backend/internal/handler"
	"github.com/vietlabs/base-backend/internal/middleware"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/internal/service"
	"github.com/vietlabs/base-backend/internal/task"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"github.com/vietlabs/base-backend/pkg/mail"
	"github.com/vietlabs/base-backend/pkg/push"
	"github.com/vietlabs/base-backend/pkg/storage"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *task.Scheduler

	RoleService         service.RoleService
	NotificationService service.NotificationService
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	translator, err := i18n.New()
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	faqRepo := repository.NewFaqRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	fileRepo := repository.NewFileRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		return nil, err
	}

	transport, err := push.NewFCMTransport(context.Background())
	if err != nil {
		return nil, err
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	roleService := service.NewRoleService(roleRepo, userRepo, permissionRepo, translator)
	permissionService := service.NewPermissionService(permissionRepo, roleRepo, translator)
	notificationService := service.NewNotificationService(topicRepo, templateRepo, notificationRepo, deviceRepo, userRepo, transport, translator)
	fileService := service.NewFileService(fileRepo, fileStorage, translator)
	userService := service.NewUserService(userRepo, roleRepo, fileService, translator)
	authService := service.NewAuthService(cfg, userRepo, roleRepo, notificationService, service.NewOAuthVerifier(), mail.NewSMTPSender(), redisClient, translator)
	faqService := service.NewFaqService(faqRepo, meiliClient, translator)
	requestService := service.NewRequestService(requestRepo, userRepo, translator)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	faqHandler := handler.NewFaqHandler(faqService)
	requestHandler := handler.NewRequestHandler(requestService)
	fileHandler := handler.NewFileHandler(fileService)
	chatHandler := handler.NewChatHandler(redisClient)

	scheduler := task.NewScheduler(notificationRepo, cfg.NotificationRetention)
	if err := scheduler.Start(); err != nil {
		log.Printf("scheduler failed to start: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, roleService, cfg.JWTSecret, translator)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/login/google", authHandler.LoginGoogle)
		auth.POST("/login/facebook", authHandler.LoginFacebook)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.PUT("/profile", authMiddleware.Authorize(""), userHandler.UpdateProfile)
		protected.PUT("/profile/password", authMiddleware.Authorize(""), userHandler.ChangePassword)
		protected.POST("/profile/avatar", authMiddleware.Authorize(""), userHandler.UploadAvatar)

		users := protected.Group("/users")
		{
			users.POST("", authMiddleware.Authorize(apis.AddUser), userHandler.Create)
			users.GET("", authMiddleware.Authorize(apis.ViewUser), userHandler.Find)
			users.GET("/:id", authMiddleware.Authorize(apis.ViewUser), userHandler.FindOne)
			users.PUT("/:id", authMiddleware.Authorize(apis.EditUser), userHandler.Update)
			users.DELETE("/:id", authMiddleware.Authorize(apis.DeleteUser), userHandler.Remove)
		}

		roles := protected.Group("/roles")
		{
			roles.POST("", authMiddleware.Authorize(apis.AddRole), roleHandler.Create)
			roles.GET("", authMiddleware.Authorize(apis.ViewRole), roleHandler.Find)
			roles.GET("/:id", authMiddleware.Authorize(apis.ViewRole), roleHandler.FindOne)
			roles.PUT("/:id", authMiddleware.Authorize(apis.EditRole), roleHandler.Update)
			roles.DELETE("/:id", authMiddleware.Authorize(apis.DeleteRole), roleHandler.Remove)
		}

		permissions := protected.Group("/permissions")
		{
			permissions.GET("/catalog", authMiddleware.Authorize(apis.ViewPermission), permissionHandler.Catalog)
			permissions.POST("", authMiddleware.Authorize(apis.AddPermission), permissionHandler.Create)
			permissions.GET("", authMiddleware.Authorize(apis.ViewPermission), permissionHandler.Find)
			permissions.GET("/:id", authMiddleware.Authorize(apis.ViewPermission), permissionHandler.FindOne)
			permissions.PUT("/:id", authMiddleware.Authorize(apis.EditPermission), permissionHandler.Update)
			permissions.DELETE("/:id", authMiddleware.Authorize(apis.DeletePermission), permissionHandler.Remove)
		}

		topics := protected.Group("/notifications/topics")
		{
			topics.POST("", authMiddleware.Authorize(apis.AddTopic), notificationHandler.CreateTopic)
			topics.GET("", authMiddleware.Authorize(apis.ViewTopic), notificationHandler.FindTopics)
			topics.GET("/:id", authMiddleware.Authorize(apis.ViewTopic), notificationHandler.FindOneTopic)
			topics.PUT("/:id", authMiddleware.Authorize(apis.EditTopic), notificationHandler.UpdateTopic)
			topics.DELETE("/:id", authMiddleware.Authorize(apis.DeleteTopic), notificationHandler.RemoveTopic)
		}

		templates := protected.Group("/notifications/templates")
		{
			templates.POST("", authMiddleware.Authorize(apis.AddTemplate), notificationHandler.CreateTemplate)
			templates.GET("", authMiddleware.Authorize(apis.ViewTemplate), notificationHandler.FindTemplates)
			templates.GET("/:id", authMiddleware.Authorize(apis.ViewTemplate), notificationHandler.FindOneTemplate)
			templates.PUT("/:id", authMiddleware.Authorize(apis.EditTemplate), notificationHandler.UpdateTemplate)
			templates.DELETE("/:id", authMiddleware.Authorize(apis.DeleteTemplate), notificationHandler.RemoveTemplate)
			templates.POST("/:id/send", authMiddleware.Authorize(apis.SendNotice), notificationHandler.Send)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.POST("", notificationHandler.CreateMine)
			notifications.GET("", notificationHandler.FindMine)
			notifications.GET("/:id", notificationHandler.FindOneMine)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", notificationHandler.RemoveMine)
			notifications.DELETE("", notificationHandler.RemoveManyMine)
			notifications.DELETE("/all", notificationHandler.RemoveAllMine)
		}

		faqs := protected.Group("/faqs")
		{
			faqs.POST("", authMiddleware.Authorize(apis.AddFaq), faqHandler.Create)
			faqs.GET("", authMiddleware.Authorize(apis.ViewFaq), faqHandler.Find)
			faqs.GET("/:id", authMiddleware.Authorize(apis.ViewFaq), faqHandler.FindOne)
			faqs.PUT("/:id", authMiddleware.Authorize(apis.EditFaq), faqHandler.Update)
			faqs.DELETE("/:id", authMiddleware.Authorize(apis.DeleteFaq), faqHandler.Remove)
		}

		requests := protected.Group("/requests")
		{
			requests.POST("", authMiddleware.Authorize(""), requestHandler.Create)
			requests.GET("", authMiddleware.Authorize(""), requestHandler.Find)
			requests.GET("/:id", authMiddleware.Authorize(""), requestHandler.FindOne)
			requests.PUT("/:id", authMiddleware.Authorize(""), requestHandler.Update)
			requests.DELETE("/:id", authMiddleware.Authorize(""), requestHandler.Remove)
		}

		files := protected.Group("/files")
		{
			files.POST("", authMiddleware.Authorize(""), fileHandler.Upload)
			files.GET("", authMiddleware.Authorize(apis.ViewFile), fileHandler.Find)
			files.GET("/:id", authMiddleware.Authorize(apis.ViewFile), fileHandler.FindOne)
			files.DELETE("/:id", authMiddleware.Authorize(apis.DeleteFile), fileHandler.Remove)
		}

		protected.GET("/chat/ws", chatHandler.HandleWebSocket)
	}

	return &Server{
		engine:              router,
		db:                  db,
		redisClient:         redisClient,
		scheduler:           scheduler,
		RoleService:         roleService,
		NotificationService: notificationService,
	}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
