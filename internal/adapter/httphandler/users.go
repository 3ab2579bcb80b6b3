package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/greencart/ecostore/internal/core/port"
)

type UsersHandler struct {
	users port.Users
}

func RegisterUsers(mux *http.ServeMux, users port.Users, ident Identity) {
	h := UsersHandler{users}
	mux.HandleFunc("POST /v1/users", h.PostUser)
	mux.HandleFunc("GET /v1/users/me", ident.Wrap(h.GetMe))
}

func (h UsersHandler) PostUser(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.PostUser"
	log := slog.With("op", op)

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Age, req.Gender)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     IdentityCookie,
		Value:    strconv.FormatInt(u.ID, 10),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, toUserDTO(u))

	log.Info("user created", "userID", u.ID)
}

func (h UsersHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.GetMe"
	log := slog.With("op", op)

	userID, ok := userIDFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	u, err := h.users.User(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, log, err)
		return
	}

	dto := toUserDTO(u)
	session, err := h.users.Session(r.Context(), userID)
	if err != nil {
		log.Warn("failed to read session", "userID", userID, "err", err)
	} else {
		dto.LastSeen = session.LastSeen.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}
