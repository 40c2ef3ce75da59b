package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"pricematch-service/internal/pricematch/service"
	"pricematch-service/internal/pricestore"
)

// SearchPrices обслуживает GET /api/prices/search?q=...&limit=..., ручной подбор позиции прайса.
func SearchPrices(store *pricestore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > 100 {
			limit = 100
		}
		items, err := store.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// ReloadPrices обслуживает POST /api/prices/reload: перечитать файл прайса в индекс поиска.
func ReloadPrices(store *pricestore.Store, catalog service.CatalogSource, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := LoadPrices(r.Context(), store, catalog)
		if err != nil {
			logger.Error().Err(err).Msg("reload price list")
			writeError(w, statusFor(err), err.Error())
			return
		}
		logger.Info().Int("items", n).Msg("price list reloaded")
		writeJSON(w, http.StatusOK, map[string]int{"items": n})
	}
}
