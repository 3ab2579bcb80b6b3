package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/greencart/ecostore/internal/core/domain"
	"github.com/greencart/ecostore/internal/core/ecoscore"
	"github.com/greencart/ecostore/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

const productColumns = `
	id, title, text_body, category, main_category,
	price, average_rating, eco_score, images, asin, parent_asin, details
	`

var productColumnNames = []string{
	"id", "title", "text_body", "category", "main_category",
	"price", "average_rating", "eco_score", "images", "asin",
	"parent_asin", "details",
}

// prefixedProductColumns renders the product column list qualified with a
// table alias, for joined queries.
func prefixedProductColumns(alias string) string {
	cols := make([]string, len(productColumnNames))
	for i, c := range productColumnNames {
		cols[i] = alias + "." + c
	}
	return " " + strings.Join(cols, ", ") + " "
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanJoined scans extra leading columns followed by the product column
// list into p, normalizing the stored score on the way out.
func scanJoined(row rowScanner, p *domain.Product, extras ...any) error {
	var (
		rating   sql.NullFloat64
		ecoScore sql.NullFloat64
		detailsB []byte
	)
	dests := append(extras,
		&p.ID, &p.Title, &p.Text, &p.Category, &p.MainCategory,
		&p.Price, &rating, &ecoScore, &p.Images, &p.ASIN, &p.ParentASIN,
		&detailsB,
	)
	if err := row.Scan(dests...); err != nil {
		return err
	}

	if rating.Valid {
		p.AverageRating = rating.Float64
	}

	if ecoScore.Valid {
		p.EcoScore = ecoscore.Normalize(ecoScore.Float64)
	} else {
		p.EcoScore = ecoscore.Normalize(nil)
	}

	if len(detailsB) != 0 {
		if err := json.Unmarshal(detailsB, &p.Details); err != nil {
			return err
		}
	}
	return nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var v domain.Product
	if err := scanJoined(row, &v); err != nil {
		return domain.Product{}, err
	}
	return v, nil
}

func (r ProductsRepository) queryProducts(
	ctx context.Context, op, query string, args ...any,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) ProductByID(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "ProductsRepository.ProductByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `FROM products WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) ProductsByScore(
	ctx context.Context, limit, offset int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ProductsByScore"

	query := `
		SELECT` + productColumns + `
		FROM products
		ORDER BY eco_score DESC NULLS LAST, id ASC
		LIMIT $1 OFFSET $2;`

	return r.queryProducts(ctx, op, query, limit, offset)
}

func (r ProductsRepository) ProductsByIDs(
	ctx context.Context, ids []int64,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ProductsByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + productColumns + `FROM products WHERE id = ANY($1);`

	return r.queryProducts(ctx, op, query, ids)
}

func (r ProductsRepository) SearchProducts(
	ctx context.Context, q string, limit int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.SearchProducts"

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE title ILIKE $1 OR text_body ILIKE $1 OR category ILIKE $1
		ORDER BY eco_score DESC NULLS LAST, id ASC
		LIMIT $2;`

	return r.queryProducts(ctx, op, query, "%"+q+"%", limit)
}

func (r ProductsRepository) ProductsByCategory(
	ctx context.Context, category string, limit int,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ProductsByCategory"

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE category ILIKE $1 OR main_category ILIKE $1
		ORDER BY eco_score DESC NULLS LAST, id ASC
		LIMIT $2;`

	return r.queryProducts(ctx, op, query, category, limit)
}

func (r ProductsRepository) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductsRepository.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (
			title, text_body, category, main_category, price,
			average_rating, eco_score, images, asin, parent_asin, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id;`

	detailsB, _ := json.Marshal(p.Details)
	err := r.sqldb.QueryRowContext(ctx, query,
		p.Title, p.Text, p.Category, p.MainCategory, p.Price,
		nullFloat(p.AverageRating), scoreParam(p.EcoScore),
		p.Images, p.ASIN, p.ParentASIN, string(detailsB),
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) UpdateProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.UpdateProduct"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET
			title = $2, text_body = $3, category = $4, main_category = $5,
			price = $6, average_rating = $7, eco_score = $8, images = $9,
			asin = $10, parent_asin = $11, details = $12
		WHERE id = $1;`

	detailsB, _ := json.Marshal(p.Details)
	res, err := r.sqldb.ExecContext(ctx, query,
		p.ID, p.Title, p.Text, p.Category, p.MainCategory, p.Price,
		nullFloat(p.AverageRating), scoreParam(p.EcoScore),
		p.Images, p.ASIN, p.ParentASIN, string(detailsB),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// StoreProducts bulk-upserts imported rows in one transaction. Rows with a
// known asin are skipped instead of duplicated. Returns the number of rows
// actually inserted.
func (r ProductsRepository) StoreProducts(
	ctx context.Context, ps []domain.Product,
) (n int, storeErr error) {
	const op = "ProductsRepository.StoreProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO products (
			title, text_body, category, main_category, price,
			average_rating, eco_score, images, asin, parent_asin, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (asin) WHERE asin <> '' DO NOTHING;`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, p := range ps {
		detailsB, _ := json.Marshal(p.Details)
		res, err := stmt.ExecContext(ctx,
			p.Title, p.Text, p.Category, p.MainCategory, p.Price,
			nullFloat(p.AverageRating), scoreParam(p.EcoScore),
			p.Images, p.ASIN, p.ParentASIN, string(detailsB),
		)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to exec: %w", op, err)
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		n += int(inserted)
	}

	return n, nil
}

// scoreParam maps the canonical score string back to the nullable column:
// the zero sentinel stays NULL in storage.
func scoreParam(s string) any {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return nil
	}
	return f
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
