package router

import (
	"database/sql"
	_ "embed"
	"net/http"

	claudeai "cardulary/internal/adapters/ai/claude"
	memlimit "cardulary/internal/adapters/ratelimit/memory"
	redislimit "cardulary/internal/adapters/ratelimit/redis"
	mem "cardulary/internal/adapters/storage/memory"
	pg "cardulary/internal/adapters/storage/postgres"
	"cardulary/internal/config"
	"cardulary/internal/domain/delivery"
	"cardulary/internal/domain/events"
	"cardulary/internal/domain/exports"
	"cardulary/internal/domain/external"
	"cardulary/internal/domain/guests"
	"cardulary/internal/domain/personalization"
	"cardulary/internal/domain/submissions"
	"cardulary/internal/middleware"
	"cardulary/internal/platform/logger"
	"cardulary/internal/ports/auth"
	"cardulary/internal/ports/personalize"
	"cardulary/internal/ports/ratelimit"
	"cardulary/internal/ports/transport"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

type Options struct {
	Config config.Config
	Log    logger.Logger

	AuthVerifier auth.Verifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, intenta por DSN de
	// config, y si tampoco hay, repos in-memory.
	DB *sql.DB

	// Inyectables para tests; si vienen nil se arman los providers reales.
	Email        transport.EmailSender
	SMS          transport.SMSSender
	Limiter      ratelimit.Limiter
	Personalizer personalize.Personalizer
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openAPIDoc)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		eventsRepo events.Repository
		guestsRepo guests.Repository
		subsRepo   submissions.Repository
		delivRepo  delivery.Repository
		exportRepo exports.Repository
	)

	db := opts.DB
	if db == nil && cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed, falling back to in-memory", map[string]any{"err": err.Error()})
		} else {
			db = opened
		}
	}

	if db != nil {
		eventsRepo = pg.NewEventsRepo(db)
		guestsRepo = pg.NewGuestsRepo(db)
		subsRepo = pg.NewSubmissionsRepo(db)
		delivRepo = pg.NewDeliveryRepo(db)
		exportRepo = pg.NewExportsRepo(db)
	} else {
		store := mem.NewStore()
		eventsRepo = mem.NewEventsRepo(store)
		guestsRepo = mem.NewGuestsRepo(store)
		subsRepo = mem.NewSubmissionsRepo(store)
		delivRepo = mem.NewDeliveryRepo(store)
		exportRepo = mem.NewExportsRepo(store)
	}

	limiter := opts.Limiter
	if limiter == nil {
		if cfg.RedisURL != "" {
			pool, err := redislimit.NewPool(cfg.RedisURL)
			if err != nil {
				log.Error("redis connect failed, using in-memory limiter", map[string]any{"err": err.Error()})
			} else {
				limiter = redislimit.New(pool)
			}
		}
		if limiter == nil {
			limiter = memlimit.New()
		}
	}

	email := opts.Email
	if email == nil {
		email = newResendSender(cfg)
	}
	sms := opts.SMS
	if sms == nil {
		sms = newTwilioSender(cfg)
	}
	personalizer := opts.Personalizer
	if personalizer == nil {
		personalizer = claudeai.New(cfg.AnthropicAPIKey, log)
	}

	// Services por módulo
	eventsSvc := events.NewService(eventsRepo)
	guestsSvc := guests.NewService(guestsRepo)
	subsSvc := submissions.NewService(subsRepo, guestsSvc)
	delivSvc := delivery.NewService(delivRepo, guestsSvc, email, sms, cfg.BaseURL, log)
	exportSvc := exports.NewService(exportRepo)

	// Superficie pública del guest: el token autoriza, cuota chica por IP.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RateLimit(limiter, "submit", middleware.QuotaSubmit))
		submissions.RegisterPublicRoutes(pr, subsSvc, eventsSvc)
	})

	// Callbacks server-to-server del provider: sin cuota de usuario.
	delivery.RegisterWebhookRoutes(r, delivSvc)

	// API del organizador.
	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RateLimit(limiter, "api", middleware.QuotaAPI))

		events.RegisterRoutes(ar, eventsSvc, guestsSvc)
		guests.RegisterRoutes(ar, guestsSvc, eventsSvc)
		submissions.RegisterRoutes(ar, subsSvc, eventsSvc)
		delivery.RegisterRoutes(ar, delivSvc, eventsSvc)
		exports.RegisterRoutes(ar, exportSvc, eventsSvc, guestsSvc, subsSvc)
		personalization.RegisterRoutes(ar, personalizer)
	})

	// Integraciones con API key fija.
	r.Group(func(xr chi.Router) {
		xr.Use(middleware.RateLimit(limiter, "external", middleware.QuotaAPI))
		external.RegisterRoutes(xr, cfg.ExternalAPIKey, eventsSvc, guestsSvc, subsSvc)
	})

	return r
}
