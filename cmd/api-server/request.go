package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/oncall/internal/database"
	"github.com/protomem/oncall/internal/model"
)

func assignmentIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "assignmentId"))
	return model.ID(id), err
}

func findOptionsFromRequest(r *http.Request) database.FindOptions {
	opts := database.DefaultFindOptions()
	opts.Limit = defaultIntQueryParams(r, "limit", opts.Limit)
	opts.Offset = defaultIntQueryParams(r, "offset", opts.Offset)

	if opts.Limit <= 0 {
		opts.Limit = database.DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = database.DefaultOffset
	}

	return opts
}

func defaultIntQueryParams(r *http.Request, key string, def int) int {
	val, ok := r.URL.Query().Get(key), r.URL.Query().Has(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}
