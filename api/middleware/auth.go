package middleware

import (
	"net/http"
	"strings"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/api/responses"
	pkgAuth "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/auth"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/config"
	pkgerrors "github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/errors"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// SessionAuth validates the bearer token minted at session creation and
// checks that it belongs to the session named by the {id} path parameter.
func SessionAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			sessionID := claims.SessionID.String()
			if param := chi.URLParam(r, "id"); param != "" && !strings.EqualFold(param, sessionID) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "token does not grant access to this session"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
				ctx = logg.WithProductID(ctx, claims.ProductID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}
