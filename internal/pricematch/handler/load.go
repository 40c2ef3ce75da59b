package handler

import (
	"context"

	"pricematch-service/internal/pricematch/service"
	"pricematch-service/internal/pricestore"
)

// LoadPrices читает прайс и кладёт его в индекс поиска; возвращает число позиций.
func LoadPrices(ctx context.Context, store *pricestore.Store, catalog service.CatalogSource) (int, error) {
	items, err := catalog.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := store.Replace(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
