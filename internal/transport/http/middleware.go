package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"wordplay-service/internal/domain"
)

// TokenVerifier resolves a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

type ctxKey int

const (
	identityKey ctxKey = iota
	kindKey
)

// authenticate attaches the caller identity. Requests without a token continue anonymously;
// a token that fails verification is rejected.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			h.fail(w, r, domain.ErrAnonymous)
			return
		}
		who, err := h.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, who)))
	})
}

// gameKind resolves the {kind} URL parameter. Unknown kinds look like missing games.
func (h *Handler) gameKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, ok := domain.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			h.fail(w, r, domain.ErrGameNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), kindKey, kind)))
	})
}

func identityFrom(ctx context.Context) domain.Identity {
	who, _ := ctx.Value(identityKey).(domain.Identity)
	return who
}

func kindFrom(ctx context.Context) domain.Kind {
	kind, _ := ctx.Value(kindKey).(domain.Kind)
	return kind
}
