package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pricematch-service/internal/config"
	"pricematch-service/internal/middleware"
	pmHnd "pricematch-service/internal/pricematch/handler"
	"pricematch-service/internal/pricematch/service"
	"pricematch-service/internal/pricestore"
	"pricematch-service/internal/progress"
	"pricematch-service/server/http/handlers"
)

// Deps: всё, что нужно роутеру от main.
type Deps struct {
	Matcher *service.Matcher
	Hub     *progress.Hub
	Store   *pricestore.Store
	Catalog service.CatalogSource
}

func NewRouter(cfg config.Config, logger zerolog.Logger, d Deps) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	r.Route("/api", func(api chi.Router) {
		api.Post("/match", pmHnd.Match(d.Matcher, d.Hub, logger))
		api.Get("/match/logs", pmHnd.Logs(d.Hub, logger))

		api.Get("/prices/search", pmHnd.SearchPrices(d.Store))
		api.Post("/prices/reload", pmHnd.ReloadPrices(d.Store, d.Catalog, logger))
	})

	return r
}
