package httphandler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/greencart/ecostore/internal/core/port"
)

// IdentityCookie names the cookie carrying the user id, set on user
// creation and required by every activity and recommendation route.
const IdentityCookie = "ecostore_uid"

type ctxKey int

const userIDKey ctxKey = iota

func userIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// AllowContent rejects request bodies that are neither JSON nor CSV, the
// two formats the API accepts.
func AllowContent(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || (mediaType != "application/json" && mediaType != "text/csv") {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// Identity resolves the user from the identity cookie and refreshes the
// session row on every authenticated request.
type Identity struct {
	users port.Users
}

func NewIdentity(users port.Users) Identity {
	return Identity{users}
}

func (m Identity) Wrap(next http.HandlerFunc) http.HandlerFunc {
	const op = "Identity.Wrap"
	log := slog.With("op", op)

	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(IdentityCookie)
		if err != nil {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(cookie.Value, 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		if err := m.users.TouchSession(r.Context(), userID, r.UserAgent()); err != nil {
			log.Warn("failed to touch session", "userID", userID, "err", err)
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
