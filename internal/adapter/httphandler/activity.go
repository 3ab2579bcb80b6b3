package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/greencart/ecostore/internal/core/port"
)

type ActivityHandler struct {
	activity port.Activity
}

func RegisterActivity(mux *http.ServeMux, activity port.Activity, ident Identity) {
	h := ActivityHandler{activity}
	mux.HandleFunc("GET /v1/cart", ident.Wrap(h.GetCart))
	mux.HandleFunc("POST /v1/cart", ident.Wrap(h.PostCart))
	mux.HandleFunc("DELETE /v1/cart/{productID}", ident.Wrap(h.DeleteCartItem))
	mux.HandleFunc("GET /v1/wishlist", ident.Wrap(h.GetWishlist))
	mux.HandleFunc("POST /v1/wishlist", ident.Wrap(h.PostWishlist))
	mux.HandleFunc("DELETE /v1/wishlist/{productID}", ident.Wrap(h.DeleteWishlistItem))
	mux.HandleFunc("POST /v1/products/{id}/view", ident.Wrap(h.PostView))
	mux.HandleFunc("GET /v1/history", ident.Wrap(h.GetHistory))
}

func (h ActivityHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetCart"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	items, err := h.activity.Cart(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTOs(items))
}

func (h ActivityHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.PostCart"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	var req CartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	err := h.activity.AddToCart(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ActivityHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.DeleteCartItem"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	productID, err := pathID(r, "productID")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.activity.RemoveFromCart(r.Context(), userID, productID); err != nil {
		writeDomainErr(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ActivityHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetWishlist"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	items, err := h.activity.Wishlist(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlistDTOs(items))
}

func (h ActivityHandler) PostWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.PostWishlist"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	var req WishlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ProductID <= 0 {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	err := h.activity.AddToWishlist(r.Context(), userID, req.ProductID)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ActivityHandler) DeleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.DeleteWishlistItem"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	productID, err := pathID(r, "productID")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.activity.RemoveFromWishlist(r.Context(), userID, productID); err != nil {
		writeDomainErr(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ActivityHandler) PostView(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.PostView"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())

	productID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.activity.TrackView(r.Context(), userID, productID); err != nil {
		writeDomainErr(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ActivityHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "ActivityHandler.GetHistory"
	log := slog.With("op", op)

	userID, _ := userIDFrom(r.Context())
	limit := queryInt(r, "limit", defaultHistoryLimit)

	ps, err := h.activity.History(r.Context(), userID, limit)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTOs(ps))
}
