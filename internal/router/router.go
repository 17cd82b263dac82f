package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"compliance-calendar/internal/adapters/export/ics"
	"compliance-calendar/internal/adapters/export/xlsx"
	mem "compliance-calendar/internal/adapters/storage/memory"
	pg "compliance-calendar/internal/adapters/storage/postgres"
	"compliance-calendar/internal/domain/agenda"
	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/events"
	"compliance-calendar/internal/domain/governance"
	"compliance-calendar/internal/middleware"
	"compliance-calendar/internal/platform/logger"
	"compliance-calendar/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: fuente externa de eventos; nil deshabilita el refresh.
	Source events.Source

	// DemoOrgID: si viene, instala los eventos demo de esa org al arrancar.
	DemoOrgID string

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
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

	var (
		eventsRepo events.Repository
		govRepo    governance.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("router: postgres unavailable, falling back to memory", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}

	if db != nil {
		eventsRepo = pg.NewEventsRepo(db)
		govRepo = pg.NewGovernanceRepo(db)
	} else {
		eventsRepo = mem.NewEventsRepo()
		govRepo = mem.NewGovernanceRepo()
	}

	// Services por módulo
	store := events.NewStore(eventsRepo, opts.Source, log)
	govSvc := governance.NewService(govRepo)

	if opts.DemoOrgID != "" {
		store.SeedDemo(opts.DemoOrgID)
		if err := store.Load(context.Background(), opts.DemoOrgID); err != nil {
			log.Warn("router: initial load failed", map[string]any{
				"org": opts.DemoOrgID,
				"err": err.Error(),
			})
		}
	}

	// Rutas por módulo, todas bajo la org
	r.Route("/orgs/{orgID}", func(or chi.Router) {
		events.RegisterRoutes(or, store, govSvc, log)
		agenda.RegisterRoutes(or, store, ics.NewFeed())
		governance.RegisterRoutes(or, govSvc, vendorApplier{store: store}, xlsx.NewExporter())
	})

	return r
}

// vendorApplier adapta el store de eventos a governance.VendorApplier.
type vendorApplier struct {
	store *events.Store
}

func (a vendorApplier) ApplyToOccurrence(ctx context.Context, orgID, eventID, vendorID, vendorName string) error {
	// Eventos de otra org: mismo trato que un id inexistente.
	if e, found := a.store.Get(eventID); !found || e.OrgID != orgID {
		return events.ErrNotFound
	}
	_, err := a.store.SetVendor(ctx, eventID, vendorID, vendorName)
	return err
}

func (a vendorApplier) ApplyToCategory(ctx context.Context, orgID string, cat categories.ServiceCategory, fromDate, vendorID, vendorName string) (int, error) {
	return a.store.SetVendorForCategory(ctx, orgID, cat, fromDate, vendorID, vendorName)
}
