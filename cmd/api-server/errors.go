package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/protomem/oncall/internal/ctxstore"
	"github.com/protomem/oncall/internal/response"
	"github.com/protomem/oncall/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		method = r.Method
		url    = r.URL.String()
	)

	requestAttrs := []any{"method", method, "url", url}
	if tid, ok := ctxstore.From[string](r.Context(), _traceIDKey); ok {
		requestAttrs = append(requestAttrs, _traceIDKey.String(), tid)
	}

	app.logger.Error(err.Error(), requestAttrs...)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	message = strings.ToUpper(message[:1]) + message[1:]

	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverError logs the underlying failure and answers with a generic 500.
// Store and driver details never reach the caller.
func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) unauthenticated(w http.ResponseWriter, r *http.Request) {
	headers := make(http.Header)
	headers.Set("WWW-Authenticate", "Bearer")

	message := "You must be authenticated to access this resource"
	app.errorMessage(w, r, http.StatusUnauthorized, message, headers)
}

func (app *application) invalidCredentials(w http.ResponseWriter, r *http.Request) {
	headers := make(http.Header)
	headers.Set("WWW-Authenticate", "Bearer")

	message := "Incorrect username or password"
	app.errorMessage(w, r, http.StatusUnauthorized, message, headers)
}

func (app *application) forbidden(w http.ResponseWriter, r *http.Request) {
	message := "You do not have permission to perform this action"
	app.errorMessage(w, r, http.StatusForbidden, message, nil)
}
