package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/protomem/oncall/internal/ctxstore"
	"github.com/protomem/oncall/internal/database"
	"github.com/protomem/oncall/internal/model"
	"github.com/protomem/oncall/internal/oncall"
	"github.com/protomem/oncall/internal/password"
	"github.com/protomem/oncall/internal/request"
	"github.com/protomem/oncall/internal/response"
	"github.com/protomem/oncall/internal/validator"
)

func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCreateToken struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type responseCreateToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (app *application) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestCreateToken
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	user, err := dao.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.invalidCredentials(w, r)
			return
		}

		app.serverError(w, r, err)
		return
	}

	matches, err := password.Matches(input.Password, user.HashedPassword)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if !matches {
		app.invalidCredentials(w, r)
		return
	}

	accessToken, expiresAt, err := app.tokens.Issue(user.Username)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := responseCreateToken{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := ctxstore.MustFrom[model.User](r.Context(), _authUserKey)

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddUser struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"fullName"`
	Password string  `json:"password"`
	IsAdmin  bool    `json:"isAdmin"`
}

func (app *application) handleAddUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestAddUser
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestAddUser(&v, input)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	userID, err := dao.Insert(ctx, database.InsertUserDTO{
		Username:       input.Username,
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hashedPassword,
		IsAdmin:        input.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, model.ErrExists) {
			app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	user, err := dao.Get(ctx, userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewUserDAO(logger, app.db)

	users, err := dao.Find(ctx, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"users": users}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddAssignment struct {
	UserID model.ID   `json:"userId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
	Notes  *string    `json:"notes"`
}

func (app *application) handleAddAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	actingUser := ctxstore.MustFrom[model.User](ctx, _authUserKey)

	var input requestAddAssignment
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestAddAssignment(&v, input)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewAssignmentDAO(logger, app.db)

	assignmentID, err := dao.Insert(ctx, database.InsertAssignmentDTO{
		User:      input.UserID,
		Start:     *input.Start,
		End:       *input.End,
		Notes:     input.Notes,
		CreatedBy: actingUser.ID,
	})
	if err != nil {
		// The store rejects unknown users and inverted windows via its
		// constraints; both are the caller's fault, not the server's.
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalid) {
			app.errorMessage(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	assignment, err := dao.Get(ctx, assignmentID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	view := assignmentView{
		AssignmentWithUser: assignment,
		Status:             oncall.Classify(assignment.Assignment, time.Now()),
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"assignment": view}); err != nil {
		app.serverError(w, r, err)
	}
}

// assignmentView decorates an assignment with its temporal status at the
// instant the response was produced.
type assignmentView struct {
	model.AssignmentWithUser
	Status oncall.Status `json:"status"`
}

func newAssignmentViews(assignments []model.AssignmentWithUser, now time.Time) []assignmentView {
	views := make([]assignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, assignmentView{
			AssignmentWithUser: a,
			Status:             oncall.Classify(a.Assignment, now),
		})
	}
	return views
}

func (app *application) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewAssignmentDAO(logger, app.db)

	assignments, err := dao.FindAll(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	views := newAssignmentViews(assignments, time.Now())

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"assignments": views}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleCurrentOnCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewAssignmentDAO(logger, app.db)

	assignments, err := dao.FindAll(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	current, ok := oncall.Resolve(assignments, time.Now())
	if !ok {
		app.errorMessage(w, r, http.StatusNotFound, "no one is currently on call", nil)
		return
	}

	resp := response.JSONObject{
		"user":       current.Owner,
		"assignment": current.Assignment,
	}

	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleTodayOnCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	dao := database.NewAssignmentDAO(logger, app.db)

	assignments, err := dao.FindAll(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	now := time.Now()
	views := newAssignmentViews(oncall.FilterToday(assignments, now, app.location), now)

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"assignments": views}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	assignmentID, err := assignmentIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewAssignmentDAO(logger, app.db)

	if err := dao.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
			return
		}

		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
