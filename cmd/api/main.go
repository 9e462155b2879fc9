package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/AmaraKouassi/djassa-coach-be/internal/core/audit"
	"github.com/AmaraKouassi/djassa-coach-be/internal/core/llm"
	"github.com/AmaraKouassi/djassa-coach-be/internal/core/retention"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/handlers"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/repositories"
	"github.com/AmaraKouassi/djassa-coach-be/internal/modules/boutique/services"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/config"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/database"
	"github.com/AmaraKouassi/djassa-coach-be/internal/shared/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting djassa-coach-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	productRepo := repositories.NewProductRepo(db.GORM)
	saleRepo := repositories.NewSaleRepo(db.GORM)
	expenseRepo := repositories.NewExpenseRepo(db.GORM)
	debtRepo := repositories.NewDebtRepo(db.GORM)
	chatLogRepo := repositories.NewChatLogRepo(db.GORM)

	// Init LLM service (multi-provider support)
	llmService := llm.NewService(cfg)

	// Init audit trail
	auditService := audit.NewService(db.GORM)

	// Init services
	committer := services.NewCommitter(saleRepo, expenseRepo, debtRepo, auditService)
	assistantService := services.NewAssistantService(productRepo, saleRepo, expenseRepo, debtRepo, chatLogRepo, llmService, committer)

	// Init handlers
	chatHandler := handlers.NewChatHandler(assistantService)
	auditHandler := handlers.NewAuditHandler(auditService)
	healthHandler := handlers.NewHealthHandler(llmService)

	// Daily retention purge for chat and audit history
	retentionService := retention.NewService(chatLogRepo, auditService, cfg.RetentionDays)
	if err := retentionService.Start(); err != nil {
		log.Fatalf("❌ Failed to schedule retention purge: %v", err)
	}
	defer retentionService.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Djassa Coach API",
	})

	// Middleware
	app.Use(cors.New())

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Assistant routes
	app.Post("/chat/message", chatHandler.PostMessage)
	app.Get("/chat/history", chatHandler.GetHistory)
	app.Delete("/chat/history", chatHandler.ClearHistory)

	// Audit trail
	app.Get("/audit/:entity/:id/history", auditHandler.GetEntityHistory)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ djassa-coach-api running at :%s", port)
	log.Fatal(app.Listen(":" + port))
}
