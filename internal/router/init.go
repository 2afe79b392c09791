package router

import (
	"context"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/internal/container"
	"github.com/oksasatya/go-library-rental/internal/infrastructure/cache"
	"github.com/oksasatya/go-library-rental/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-library-rental/internal/infrastructure/postgres"
	"github.com/oksasatya/go-library-rental/internal/infrastructure/search"
	"github.com/oksasatya/go-library-rental/internal/infrastructure/storage"
	handlers "github.com/oksasatya/go-library-rental/internal/interface/http"
	"github.com/oksasatya/go-library-rental/internal/router/modules"
	mailtpl "github.com/oksasatya/go-library-rental/pkg/mailer/templates"
)

// Services are the application services built from the container.
type Services struct {
	Users        *application.UserService
	Books        *application.BookService
	Reservations *application.ReservationService
}

// BuildServices wires repositories and adapters from the container.
// Optional infrastructure left unset in the container is simply not wired.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	books := pginfra.NewBookRepository(pool)
	reservations := pginfra.NewReservationRepository(pool)
	uow := pginfra.NewUnitOfWork(pool, logger)

	var index application.BookIndex
	if es := container.GetES(); es != nil {
		index = search.NewBookIndex(es, cfg.ESBooksIndex, logger)
	}
	var bookCache application.BookCache
	if rdb := container.GetRedis(); rdb != nil {
		bookCache = cache.NewBookCache(rdb, cfg.BookCacheTTL)
	}
	bookSvc := application.NewBookService(books, container.GetCatalog(), bookCache, index, logger, cfg.BookDefaultStock)

	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = messaging.NewNotifier(pub, mailtpl.BrandFromConfig(cfg))
	}
	var reports application.ReportStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		reports = storage.NewReportStore(gcs, cfg.GCSBucket, logger)
	}

	return Services{
		Users: application.NewUserService(users, logger),
		Books: bookSvc,
		Reservations: application.NewReservationService(
			users, bookSvc, reservations, uow, events, reports, logger, cfg.ReportsPrefix,
		),
	}
}

// InitModules registers all feature modules on the registry plus /health on the engine.
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	r.Add(modules.NewReservationModule(handlers.NewReservationHandler(svc.Reservations, logger)))
	r.Add(modules.NewBookModule(handlers.NewBookHandler(svc.Books, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	checks := map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error { return container.GetPGPool().Ping(ctx) },
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	r.Engine.GET("/health", handlers.NewHealthHandler(checks).Health)
}
