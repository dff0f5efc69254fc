package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "grimoire/docs"
	"grimoire/internal/clock"
	"grimoire/internal/config"
	"grimoire/internal/handlers"
	"grimoire/internal/pdf"
	"grimoire/internal/repositories"
	"grimoire/internal/routes"
	"grimoire/internal/services"
)

func Run() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()
	ctx := context.Background()

	// === Storage ===
	var stateRepo repositories.StateRepository
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.Postgres.DSN)
		if err != nil {
			log.Fatal("failed to connect to postgres: ", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("failed to close postgres: %v", err)
			}
		}()
		repo := repositories.NewPostgresStateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("failed to ensure storage schema: ", err)
		}
		stateRepo = repo
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		stateRepo = repositories.NewRedisStateRepository(rdb)
	default:
		log.Printf("storage driver %q: state will not survive restarts", cfg.Storage.Driver)
		stateRepo = repositories.NewMemoryStateRepository()
	}

	// === Services ===
	gameService, err := services.NewGameService(ctx, stateRepo, clock.System())
	if err != nil {
		log.Fatal("failed to load game state: ", err)
	}
	reportService := services.NewReportService(gameService, clock.System())

	var tg *services.TelegramService
	if cfg.Telegram.BotToken != "" {
		tg = services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}
	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
			cfg.Email.ToEmail,
		)
	}

	pdfGen := pdf.NewReportGenerator(cfg.Reports.RootDir)

	// === Handlers ===
	taskHandler := handlers.NewTaskHandler(gameService, tg)
	missionHandler := handlers.NewMissionHandler(gameService, tg)
	progressHandler := handlers.NewProgressHandler(gameService)
	reportHandler := handlers.NewReportHandler(reportService, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		taskHandler,
		missionHandler,
		progressHandler,
		reportHandler,
	)

	// === Day rollover ===
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(1).Day().At("00:05").Do(func() {
		rollover(ctx, gameService, tg, emailService)
	}); err != nil {
		log.Printf("[rollover][schedule][err] %v", err)
	}
	scheduler.StartAsync()

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("grimoire listening on %s (storage=%s)", listenAddr, cfg.Storage.Driver)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

// rollover regenerates the mission after midnight and pushes the digest.
// Session-start staleness is still handled lazily by GET /mission/today.
func rollover(ctx context.Context, game services.GameService, tg *services.TelegramService, email services.EmailService) {
	if game.TodaysMission() != nil {
		return
	}
	mission, err := game.GenerateDailyMission(ctx)
	if err != nil {
		log.Printf("[rollover][generate][err] %v", err)
		return
	}
	log.Printf("[rollover][ok] mission=%s tasks=%d", mission.ID, len(mission.Tasks))

	tg.NotifyDailyMission(mission)
	if email != nil {
		if err := email.SendDailyDigest(mission, game.Progress()); err != nil {
			log.Printf("[rollover][email][err] %v", err)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
