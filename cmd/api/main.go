package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/config"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/infrastructure/database"
	"github.com/sangkips/atelier-api/internal/infrastructure/draftstore"
	"github.com/sangkips/atelier-api/internal/infrastructure/repository"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/request"
	"github.com/sangkips/atelier-api/internal/presentation/http/handler"
	"github.com/sangkips/atelier-api/internal/presentation/http/routes"
	"github.com/sangkips/atelier-api/pkg/mailer"
	"github.com/sangkips/atelier-api/pkg/printer"
	"github.com/sangkips/atelier-api/pkg/whatsapp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(&cfg.App)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	drafts := newDraftStore(ctx, &cfg.Redis, logger)

	if err := request.RegisterValidators(); err != nil {
		logger.Fatal("validator registration failed", zap.Error(err))
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Outbound channels
	mail := mailer.New(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	})
	wa := whatsapp.New(whatsapp.Config{
		BaseURL:       cfg.WhatsApp.APIURL,
		Token:         cfg.WhatsApp.Token,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		Timeout:       cfg.WhatsApp.Timeout,
	})
	counter, err := printer.Open(printer.Config{
		Kind:    cfg.Printer.Kind,
		Address: cfg.Printer.Address,
		Device:  cfg.Printer.Device,
		Width:   cfg.Printer.Width,
	})
	if err != nil {
		logger.Warn("receipt printer disabled", zap.Error(err))
		counter = printer.Discard{}
	}
	if !mail.Configured() {
		logger.Warn("SMTP host not set, campaign sending disabled")
	}
	if !wa.Configured() {
		logger.Warn("WhatsApp credentials not set, template sending disabled")
	}

	// Initialize services
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	subscriberService := service.NewSubscriberService(subscriberRepo, logger)
	contactService := service.NewContactService(customerRepo, subscriberRepo, cfg.Sales.SuggestionLimit, logger)
	saleService := service.NewSaleService(saleRepo, productRepo, cfg.Sales.DefaultTaxRate, cfg.Sales.NumberPrefix, logger)
	draftService := service.NewDraftService(drafts, productRepo, contactService, saleService, cfg.Sales.DefaultTaxRate, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	campaignService := service.NewCampaignService(campaignRepo, subscriberRepo, mail, cfg.App.PublicURL, logger)
	whatsappService := service.NewWhatsAppService(subscriberRepo, wa, cfg.WhatsApp.Concurrency, cfg.WhatsApp.RatePerSecond, logger)
	receiptService := service.NewReceiptService(saleRepo, counter, cfg.Printer.Width, cfg.Printer.StoreName, cfg.Printer.Footer, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:    handler.NewProductHandler(productService),
		Customer:   handler.NewCustomerHandler(customerService),
		Subscriber: handler.NewSubscriberHandler(subscriberService, whatsappService),
		Contact:    handler.NewContactHandler(contactService, cfg.Sales.SearchDebounce, cfg.CORS.AllowedOrigins, logger),
		Sale:       handler.NewSaleHandler(saleService),
		Draft:      handler.NewDraftHandler(draftService),
		Analytics:  handler.NewAnalyticsHandler(analyticsService),
		Campaign:   handler.NewCampaignHandler(campaignService),
		Receipt:    handler.NewReceiptHandler(receiptService),
	}

	router := routes.Setup(ctx, handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Log:             logger,
	})

	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("service", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(app *config.AppConfig) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if app.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(app.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build(zap.Fields(zap.String("service", app.Name)))
}

// newDraftStore uses redis when an address is configured and reachable,
// otherwise drafts live in process memory.
func newDraftStore(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) domainRepo.DraftRepository {
	if cfg.Addr == "" {
		logger.Info("draft store: memory")
		return newMemoryDraftStore(ctx, cfg.DraftTTL)
	}

	store := draftstore.NewRedisStore(draftstore.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB), cfg.DraftTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, falling back to memory draft store", zap.String("addr", cfg.Addr), zap.Error(err))
		return newMemoryDraftStore(ctx, cfg.DraftTTL)
	}
	logger.Info("draft store: redis", zap.String("addr", cfg.Addr))
	return store
}

func newMemoryDraftStore(ctx context.Context, ttl time.Duration) *draftstore.MemoryStore {
	store := draftstore.NewMemoryStore(ttl)
	store.StartSweeper(ctx, 5*time.Minute)
	return store
}

func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("idempotency cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("expired idempotency keys purged", zap.Int64("count", n))
			}
		}
	}
}
