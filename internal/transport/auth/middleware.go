package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"nacospay/internal/domain"
	"nacospay/internal/repository"
)

type ctxKey string

const memberKey ctxKey = "member"

// TokenMiddleware authenticates requests with a bearer token (header first,
// then the token query parameter for websocket clients) and loads the member
// into the request context.
func TokenMiddleware(tokens *repository.AccessTokenRepository, members *repository.MemberRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			plain := ""
			if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
				plain = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			}
			if plain == "" {
				plain = r.URL.Query().Get("token")
			}
			if plain == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token, err := tokens.FindByPlainToken(r.Context(), plain)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			member, err := members.FindByID(r.Context(), token.MemberID)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), memberKey, member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetMember(ctx context.Context) (*domain.Member, error) {
	member, ok := ctx.Value(memberKey).(*domain.Member)
	if !ok || member == nil {
		return nil, errors.New("member not found in context")
	}
	return member, nil
}

// WithMember is used by tests and the websocket endpoint to place an
// authenticated member into a context directly.
func WithMember(ctx context.Context, member *domain.Member) context.Context {
	return context.WithValue(ctx, memberKey, member)
}
