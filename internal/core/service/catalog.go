package service

import (
	"context"
	"fmt"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/ecoscore"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.Catalog = (*Catalog)(nil)

// A Catalog serves every product read path and applies the display rule
// uniformly: a stored score that normalizes to zero is replaced with the
// fallback estimate, computed fresh on each read and never persisted.
type Catalog struct {
	storage    port.ProductsStorage
	viewCounts port.ViewCounts
}

func NewCatalog(
	storage port.ProductsStorage, viewCounts port.ViewCounts,
) Catalog {
	return Catalog{storage, viewCounts}
}

func (c Catalog) Product(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "Catalog.Product"

	p, err := c.storage.ProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return c.decorate(p), nil
}

func (c Catalog) Products(
	ctx context.Context, limit, offset int,
) ([]domain.Product, error) {
	const op = "Catalog.Products"

	ps, err := c.storage.ProductsByScore(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decorateAll(ps), nil
}

func (c Catalog) Search(
	ctx context.Context, query string, limit int,
) ([]domain.Product, error) {
	const op = "Catalog.Search"

	ps, err := c.storage.SearchProducts(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decorateAll(ps), nil
}

func (c Catalog) ByCategory(
	ctx context.Context, category string, limit int,
) ([]domain.Product, error) {
	const op = "Catalog.ByCategory"

	ps, err := c.storage.ProductsByCategory(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.decorateAll(ps), nil
}

// Trending joins the view-count table with catalog rows, keeping the
// count ordering. Products removed since being viewed are skipped.
func (c Catalog) Trending(
	ctx context.Context, limit int,
) ([]domain.Product, error) {
	const op = "Catalog.Trending"

	counts, err := c.viewCounts.TopViewed(limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]int64, 0, len(counts))
	for _, vc := range counts {
		ids = append(ids, vc.ProductID)
	}

	ps, err := c.storage.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[int64]domain.Product, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
	}

	ordered := make([]domain.Product, 0, len(counts))
	for _, vc := range counts {
		p, ok := byID[vc.ProductID]
		if !ok {
			continue
		}
		ordered = append(ordered, c.decorate(p))
	}
	return ordered, nil
}

func (c Catalog) Create(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Catalog.Create"

	created, err := c.storage.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (c Catalog) Update(ctx context.Context, p domain.Product) error {
	const op = "Catalog.Update"

	if err := c.storage.UpdateProduct(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Catalog) Import(
	ctx context.Context, ps []domain.Product,
) (int, error) {
	const op = "Catalog.Import"

	n, err := c.storage.StoreProducts(ctx, ps)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (c Catalog) decorate(p domain.Product) domain.Product {
	return decorate(p)
}

func (c Catalog) decorateAll(ps []domain.Product) []domain.Product {
	return decorateAll(ps)
}

// decorate applies the display rule: a stored score normalizing to zero is
// replaced with the fallback estimate. Shared by every read path that
// returns products, including joined cart, wishlist and history rows.
func decorate(p domain.Product) domain.Product {
	p.EcoScore = ecoscore.Normalize(p.EcoScore)
	if ecoscore.NeedsFallback(p.EcoScore) {
		p.EcoScore = ecoscore.Estimate(p.Title, p.Text, p.Category)
	}
	return p
}

func decorateAll(ps []domain.Product) []domain.Product {
	for i := range ps {
		ps[i] = decorate(ps[i])
	}
	return ps
}
