package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/protomem/oncall/internal/ctxstore"
	"github.com/protomem/oncall/internal/database"
	"github.com/protomem/oncall/internal/model"
	"github.com/protomem/oncall/internal/response"
	"github.com/protomem/oncall/internal/token"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

const (
	_traceIDKey  = ctxstore.Key("traceId")
	_authUserKey = ctxstore.Key("authUser")
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// authenticate resolves the bearer token into the acting user and stashes it
// in the request context. Expired, malformed, and unknown-subject tokens all
// produce the same 401 externally; the cause is kept apart in the logs.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := app.logger.With(
			_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
		)

		rawToken, ok := bearerToken(r)
		if !ok {
			app.unauthenticated(w, r)
			return
		}

		subject, err := app.tokens.Verify(rawToken)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpired):
				logger.Debug("rejected credential", "cause", "expired")
			default:
				logger.Debug("rejected credential", "cause", "invalid")
			}

			app.unauthenticated(w, r)
			return
		}

		dao := database.NewUserDAO(logger, app.db)

		user, err := dao.GetByUsername(ctx, subject)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Debug("rejected credential", "cause", "unknown subject", "subject", subject)
				app.unauthenticated(w, r)
				return
			}

			app.serverError(w, r, err)
			return
		}

		ctx = ctxstore.With(ctx, _authUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin must run after authenticate.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ctxstore.MustFrom[model.User](r.Context(), _authUserKey)
		if !user.IsAdmin {
			app.forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")

	scheme, rawToken, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
