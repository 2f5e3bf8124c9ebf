package app

import (
	"context"
	"debate_backend/internal/config"
	"debate_backend/internal/controller"
	"debate_backend/internal/repository"
	"debate_backend/internal/service"
	"debate_backend/pkg/configwatcher"
	"debate_backend/pkg/database"
	"debate_backend/pkg/logger"
	"debate_backend/pkg/monitoring"
	"debate_backend/pkg/security"
	"debate_backend/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginAllowlist
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	stopHub         context.CancelFunc
}

type repositories struct {
	topic      *repository.TopicRepository
	question   *repository.QuestionRepository
	reply      *repository.ReplyRepository
	attachment *repository.AttachmentRepository
	evidence   *repository.EvidenceRepository
	guideline  *repository.GuidelineRepository
	contact    *repository.ContactRepository
	user       *repository.UserRepository
	admin      *repository.AdminUserRepository
}

type services struct {
	storage    *service.StorageService
	cache      *service.CacheService
	assembler  *service.TreeAssembler
	topic      *service.TopicService
	question   *service.QuestionService
	reply      *service.ReplyService
	hub        *service.VoteHub
	vote       *service.VoteService
	attachment *service.AttachmentService
	auth       *service.AuthService
	userAuth   *service.UserAuthService
	guideline  *service.GuidelineService
	contact    *service.ContactService
}

type controllers struct {
	health   *controller.HealthController
	topic    *controller.TopicController
	question *controller.QuestionController
	reply    *controller.ReplyController
	file     *controller.FileController
	admin    *controller.AdminController
	contact  *controller.ContactController
	userAuth *controller.UserAuthController
	live     *controller.LiveController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		topic:      repository.NewTopicRepository(db),
		question:   repository.NewQuestionRepository(db),
		reply:      repository.NewReplyRepository(db),
		attachment: repository.NewAttachmentRepository(db),
		evidence:   repository.NewEvidenceRepository(db),
		guideline:  repository.NewGuidelineRepository(db),
		contact:    repository.NewContactRepository(db),
		user:       repository.NewUserRepository(db),
		admin:      repository.NewAdminUserRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.cache = service.NewCacheService(rdb, time.Duration(cfg.Redis.TTL)*time.Second)
	s.assembler = service.NewTreeAssembler(
		db,
		repos.topic,
		repos.question,
		repos.reply,
		repos.attachment,
		repos.evidence,
	)

	s.topic = service.NewTopicService(repos.topic, s.storage, s.cache)
	s.question = service.NewQuestionService(repos.question, repos.topic, s.assembler, s.storage)
	s.reply = service.NewReplyService(repos.reply, repos.question, s.assembler, s.storage)
	s.hub = service.NewVoteHub(rdb, a.origins.Allowed)
	s.vote = service.NewVoteService(repos.question, repos.reply, s.hub)
	s.attachment = service.NewAttachmentService(
		repos.attachment,
		repos.evidence,
		repos.question,
		repos.reply,
		s.storage,
		cfg.Storage.MaxFileSize,
	)

	s.auth = service.NewAuthService(repos.admin, cfg)
	s.userAuth = service.NewUserAuthService(repos.user, service.NewIdentityVerifier(cfg.Google.ClientIDs()), cfg)
	s.guideline = service.NewGuidelineService(repos.guideline, s.cache)
	s.contact = service.NewContactService(repos.contact)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:   controller.NewHealthController(db, rdb),
		topic:    controller.NewTopicController(s.topic),
		question: controller.NewQuestionController(s.question, s.vote),
		reply:    controller.NewReplyController(s.reply, s.vote),
		file:     controller.NewFileController(s.attachment),
		admin:    controller.NewAdminController(s.auth, s.guideline),
		contact:  controller.NewContactController(s.contact),
		userAuth: controller.NewUserAuthController(s.userAuth),
		live:     controller.NewLiveController(s.hub),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// bootstrap 在接收请求前创建管理员账号并写入默认守则，重复执行无副作用
func (a *App) bootstrap(ctx context.Context, s *services) error {
	if err := s.auth.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if err := s.guideline.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed guidelines: %w", err)
	}
	return nil
}

// New 使用已建立的连接组装应用，rdb 可以为 nil（不使用缓存）
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		origins: security.NewOriginAllowlist(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.bootstrap(bootCtx, services); err != nil {
		return nil, err
	}

	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	hubCtx, stopHub := context.WithCancel(context.Background())
	app.stopHub = stopHub
	go services.hub.Run(hubCtx)

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 热更新：CORS 白名单和日志级别
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.origins.Replace(newCfg.CORS.AllowedOrigins)
		logger.SetLevel(logger.ResolveLevel(newCfg))
	})

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存只是加速层，不可用时直接读库
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to bootstrap application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	return app
}

// Close 停止实时推送并断开所有 WebSocket 连接
func (a *App) Close() {
	if a.stopHub != nil {
		a.stopHub()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.ConfigFile != "" {
		go func() {
			err := configwatcher.WatchConfig(watchCtx, a.Config.ConfigFile, func(newCfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(newCfg)
				}
			})
			if err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
