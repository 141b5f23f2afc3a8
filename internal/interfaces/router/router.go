package router

import (
	"context"

	eventsvc "agora-backend/internal/application/events"
	govsvc "agora-backend/internal/application/governance"
	ledgersvc "agora-backend/internal/application/ledger"
	registrysvc "agora-backend/internal/application/registry"
	"agora-backend/internal/config"
	"agora-backend/internal/infrastructure/database"
	achievementhandler "agora-backend/internal/interfaces/handlers/achievements"
	govhandler "agora-backend/internal/interfaces/handlers/governance"
	healthhandler "agora-backend/internal/interfaces/handlers/health"
	ledgerhandler "agora-backend/internal/interfaces/handlers/ledger"
	treasuryhandler "agora-backend/internal/interfaces/handlers/treasury"
	"agora-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware, services and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		app.Use(middleware.HealthMarker(rdb))
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CallerIdentity())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health routes (no caller required)
	healthHandlers := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", healthHandlers.Dashboard)
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)

	if db != nil {
		ledgerService := &ledgersvc.Service{DB: db, Admin: cfg.AdminAddress}
		registryService := &registrysvc.Service{DB: db, Engine: govsvc.EngineIdentity}
		engine := &govsvc.Service{
			DB:       db,
			Ledger:   ledgerService,
			Registry: registryService,
			Events:   &eventsvc.Publisher{Rdb: rdb},
		}
		if err := engine.Bootstrap(context.Background(), govsvc.SeedParams{
			ProposalThreshold: cfg.ProposalThreshold,
			VotingPeriod:      cfg.VotingPeriod,
			QuorumBps:         cfg.QuorumBps,
			AdminAddress:      cfg.AdminAddress,
		}); err != nil {
			return nil, nil, nil, err
		}

		// Governance module
		govHandlers := &govhandler.Handlers{Service: engine}
		govGroup := app.Group("/api/v1/governance")
		govGroup.Post("/create-proposal", middleware.RequireCaller(), govHandlers.CreateProposal)
		govGroup.Post("/cast-vote", middleware.RequireCaller(), govHandlers.CastVote)
		govGroup.Post("/finalize-proposal", govHandlers.FinalizeProposal)
		govGroup.Post("/execute-proposal", govHandlers.ExecuteProposal)
		govGroup.Post("/cancel-proposal", middleware.RequireCaller(), govHandlers.CancelProposal)
		govGroup.Patch("/update-parameters", middleware.AuthorizeAdmin(cfg.AdminKeyHash), govHandlers.UpdateParameters)
		govGroup.Get("/get-proposal/:proposal_id", govHandlers.GetProposal)
		govGroup.Get("/get-proposal-count", govHandlers.GetProposalCount)
		govGroup.Get("/has-voted/:proposal_id/:holder", govHandlers.HasVoted)

		// Treasury module
		treasuryHandlers := &treasuryhandler.Handlers{Service: engine}
		treasuryGroup := app.Group("/api/v1/treasury")
		treasuryGroup.Post("/deposit-funds", middleware.RequireCaller(), treasuryHandlers.DepositFunds)
		treasuryGroup.Post("/receive", middleware.RequireCaller(), treasuryHandlers.Receive)
		treasuryGroup.Get("/get-balance", treasuryHandlers.GetBalance)
		treasuryGroup.Get("/get-entries", treasuryHandlers.GetEntries)

		// Ledger module
		ledgerHandlers := &ledgerhandler.Handlers{Service: ledgerService}
		ledgerGroup := app.Group("/api/v1/ledger")
		ledgerGroup.Get("/balance-of/:holder", ledgerHandlers.BalanceOf)
		ledgerGroup.Get("/total-supply", ledgerHandlers.TotalSupply)
		ledgerGroup.Post("/mint-tokens", middleware.AuthorizeAdmin(cfg.AdminKeyHash), ledgerHandlers.MintTokens)
		ledgerGroup.Post("/transfer-tokens", middleware.RequireCaller(), ledgerHandlers.TransferTokens)
		ledgerGroup.Post("/burn-tokens", middleware.RequireCaller(), ledgerHandlers.BurnTokens)

		// Achievements module (read only over HTTP)
		achievementHandlers := &achievementhandler.Handlers{Service: registryService}
		achievementGroup := app.Group("/api/v1/achievements")
		achievementGroup.Get("/get-achievement/:token_id", achievementHandlers.GetAchievement)
		achievementGroup.Get("/get-owner-achievements/:holder", achievementHandlers.GetOwnerAchievements)
	}

	return app, db, rdb, nil
}
