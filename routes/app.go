package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"veggie-shop/config"
	"veggie-shop/database"
	"veggie-shop/libs"
	"veggie-shop/middleware"
	"veggie-shop/services"
	"veggie-shop/storage"
)

// App is a fully wired HTTP application plus the resources it must release.
type App struct {
	Router   *gin.Engine
	Services *Services

	closers []func()
}

// Close drains pending order notifications, then releases connections in
// reverse order of acquisition.
func (a *App) Close() {
	if a.Services != nil && a.Services.Orders != nil {
		a.Services.Orders.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openStorage(ctx context.Context, cfg *config.Config, app *App) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Info().Msg("using in-memory storage with demo catalog")
		return storage.NewMemoryStorage(), nil
	case config.StoragePostgres:
		if err := database.Migrate(cfg.DSN()); err != nil {
			return nil, err
		}
		pool, err := config.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		return storage.NewPostgresStorage(pool), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// NewServices wires the services over store. Optional integrations are
// passed as nil when not configured.
func NewServices(cfg *config.Config, store storage.Storage, cache *redis.Client, uploader services.ImageUploader, notifier services.OrderNotifier, publisher services.EventPublisher) *Services {
	products := services.NewProductService(store, cache, uploader)
	return &Services{
		Products: products,
		Cart:     services.NewCartService(store, store),
		Orders:   services.NewOrderService(store, notifier, publisher).WithCatalogCache(products),
		Wishlist: services.NewWishlistService(store),
		Auth: services.NewAuthService(store, services.AuthConfig{
			SessionSecret:  cfg.SessionSecret,
			SessionTTL:     cfg.SessionTTL,
			ProviderSecret: cfg.AuthProviderSecret,
			AdminEmails:    cfg.AdminEmails,
		}),
	}
}

// NewRouter builds the gin engine with the shop's middleware stack and routes.
func NewRouter(cfg *config.Config, svc *Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	SetupRoutes(router, cfg, svc)
	return router
}

// NewApp connects storage and every configured integration and returns the
// ready-to-serve application.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	store, err := openStorage(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	cache := config.ConnectRedis(ctx, cfg)
	if cache != nil {
		app.closers = append(app.closers, func() { cache.Close() })
	}

	var uploader services.ImageUploader
	if cld, err := libs.NewCloudinaryService(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
		log.Warn().Err(err).Msg("product image uploads disabled")
	} else {
		uploader = cld
	}

	var notifier services.OrderNotifier
	if mailer, err := libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom); err != nil {
		log.Warn().Err(err).Msg("order confirmation emails disabled")
	} else {
		notifier = mailer
	}

	var publisher services.EventPublisher
	if kafka, err := libs.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
		log.Info().Msg("Kafka not configured, order events disabled")
	} else {
		publisher = kafka
		app.closers = append(app.closers, func() {
			if err := kafka.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Kafka writer")
			}
		})
	}

	app.Services = NewServices(cfg, store, cache, uploader, notifier, publisher)
	app.Router = NewRouter(cfg, app.Services)
	return app, nil
}
