// Package controllers holds the HTTP layer: decode the request, validate
// it, call one service method, write the envelope. No business rules here.
package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/danuartha/kopistore/pkg/response"
	"github.com/danuartha/kopistore/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// decode unmarshals the JSON body into dst and runs struct-tag validation.
// Writes the error response itself and reports whether the handler should
// continue.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if errs := validate.Struct(dst); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

// idParam reads a numeric URL parameter. Writes a 400 on garbage and
// reports whether the handler should continue.
func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
