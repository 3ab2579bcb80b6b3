package httphandler

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/greencart/ecostore/internal/core/port"
	"github.com/greencart/ecostore/internal/dataset"
)

type ProductsHandler struct {
	catalog port.Catalog
}

func RegisterProducts(mux *http.ServeMux, catalog port.Catalog) {
	h := ProductsHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/search", h.SearchProducts)
	mux.HandleFunc("GET /v1/products/trending", h.TrendingProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /v1/products", h.PostProduct)
	mux.HandleFunc("PUT /v1/products/{id}", h.PutProduct)
	mux.HandleFunc("GET /v1/categories/{category}/products", h.ListByCategory)
	mux.HandleFunc("POST /v1/datasets", h.PostDataset)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)

	ps, err := h.catalog.Products(r.Context(), limit, offset)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(ps))
}

func (h ProductsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.SearchProducts"
	log := slog.With("op", op)

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", defaultListLimit)

	ps, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(ps))
}

func (h ProductsHandler) TrendingProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.TrendingProducts"
	log := slog.With("op", op)

	limit := queryInt(r, "limit", defaultTrendingLimit)

	ps, err := h.catalog.Trending(r.Context(), limit)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(ps))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var dto Product
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if dto.Title == "" || dto.Price <= 0 {
		http.Error(w, "title and positive price are required", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Create(r.Context(), toDomainProduct(dto))
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductDTO(p))

	log.Info("product created", "productID", p.ID)
}

func (h ProductsHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PutProduct"
	log := slog.With("op", op)

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var dto Product
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	dto.ID = id

	if dto.Title == "" || dto.Price <= 0 {
		http.Error(w, "title and positive price are required", http.StatusBadRequest)
		return
	}

	if err := h.catalog.Update(r.Context(), toDomainProduct(dto)); err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h ProductsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListByCategory"
	log := slog.With("op", op)

	category := r.PathValue("category")
	limit := queryInt(r, "limit", defaultListLimit)

	ps, err := h.catalog.ByCategory(r.Context(), category, limit)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(ps))
}

// PostDataset bulk-imports a CSV or JSON dump; the body format follows the
// Content-Type header.
func (h ProductsHandler) PostDataset(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostDataset"
	log := slog.With("op", op)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "invalid media type", http.StatusBadRequest)
		return
	}

	var format string
	switch mediaType {
	case "text/csv":
		format = "csv"
	case "application/json":
		format = "json"
	default:
		http.Error(w, "invalid media type", http.StatusBadRequest)
		return
	}

	ps, err := dataset.Decode(r.Body, format)
	if err != nil {
		http.Error(w, "invalid dataset", http.StatusBadRequest)
		log.Warn("failed to decode dataset", "format", format, "err", err)
		return
	}

	n, err := h.catalog.Import(r.Context(), ps)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"imported": n})
	log.Info("dataset imported", "nRows", len(ps), "nInserted", n)
}
