package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/internal/controller"
	"study_buddy_backend/internal/repository"
	"study_buddy_backend/internal/service"
	"study_buddy_backend/pkg/database"
	"study_buddy_backend/pkg/logger"
	"study_buddy_backend/pkg/monitoring"
	"study_buddy_backend/pkg/security"
	"study_buddy_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	document *repository.DocumentRepository
	session  *repository.SessionRepository
}

type services struct {
	storage    *service.StorageService
	mail       *service.MailService
	ai         *service.AIService
	auth       *service.AuthService
	oauth      *service.OAuthService
	quiz       *service.QuizService
	search     *service.SearchService
	library    *service.LibraryService
	suggestion *service.SuggestionService
	document   *service.DocumentService
	job        *service.JobService
}

type controllers struct {
	auth       *controller.AuthController
	oauth      *controller.OAuthController
	quiz       *controller.QuizController
	search     *controller.SearchController
	library    *controller.LibraryController
	suggestion *controller.SuggestionController
	document   *controller.DocumentController
	job        *controller.JobController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件变更后刷新可热更的配置项
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		document: repository.NewDocumentRepository(db),
		session:  repository.NewSessionRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.mail = service.NewMailService(cfg.Mail)
	s.ai = service.NewAIService(cfg.AI)

	s.auth = service.NewAuthService(repos.user, s.mail, cfg)

	// 回调地址注册在提供方控制台，必须和这里拼出的完全一致
	providers := map[string]service.ProviderClient{
		"google":    service.NewGoogleClient(cfg.OAuth.Google, cfg.Server.BaseURL+"/auth/google/callback"),
		"microsoft": service.NewMicrosoftClient(cfg.OAuth.Microsoft, cfg.Server.BaseURL+"/auth/microsoft/callback"),
	}
	s.oauth = service.NewOAuthService(providers, repos.session, repos.user, cfg)

	s.quiz = service.NewQuizService(s.ai)
	s.search = service.NewSearchService(cfg.Search)
	s.library = service.NewLibraryService()
	s.suggestion = service.NewSuggestionService(cfg.Sentiment, s.ai)
	s.document = service.NewDocumentService(repos.document, s.storage, time.Duration(cfg.Documents.MaxAgeHours)*time.Hour)
	s.job = service.NewJobService(cfg.Adzuna)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		oauth:      controller.NewOAuthController(s.oauth, cfg.OAuth.FrontendBaseURL),
		quiz:       controller.NewQuizController(s.quiz),
		search:     controller.NewSearchController(s.search),
		library:    controller.NewLibraryController(s.library),
		suggestion: controller.NewSuggestionController(s.suggestion),
		document:   controller.NewDocumentController(s.document),
		job:        controller.NewJobController(s.job),
		health:     controller.NewHealthController(),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	// 过期文档清理，对应生成文档的保留时长
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Documents.CleanupMinutes) * time.Minute)
		for range ticker.C {
			if err := s.document.CleanupExpired(context.Background()); err != nil {
				logger.Log.Error("document cleanup error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, cfg)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("study-buddy", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
