package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/v1/status", app.handleStatus)
	mux.Post("/api/v1/token", app.handleCreateToken)

	mux.Group(func(mux chi.Router) {
		mux.Use(app.authenticate)

		mux.Get("/api/v1/users/me", app.handleCurrentUser)
		mux.Get("/api/v1/users", app.handleListUsers)

		mux.Get("/api/v1/oncall", app.handleListAssignments)
		mux.Get("/api/v1/oncall/current", app.handleCurrentOnCall)
		mux.Get("/api/v1/oncall/today", app.handleTodayOnCall)

		mux.Group(func(mux chi.Router) {
			mux.Use(app.requireAdmin)

			mux.Post("/api/v1/users", app.handleAddUser)
			mux.Post("/api/v1/oncall", app.handleAddAssignment)
			mux.Delete("/api/v1/oncall/{assignmentId}", app.handleDeleteAssignment)
		})
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
