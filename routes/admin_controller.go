package routes

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"

	"github.com/dynform/dynform/app"
	"github.com/dynform/dynform/httpx"
	"github.com/dynform/dynform/log"
	"github.com/dynform/dynform/model"
	"github.com/dynform/dynform/schema"
	"github.com/dynform/dynform/store"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
			return
		}

		msg, err := model.CheckFormPayload(r.Context(), body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if msg != "" {
			httpx.JSONError(w, http.StatusBadRequest, "create_form.payload", msg)
			return
		}

		form := model.Form{}
		if err := json.Unmarshal(body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if strings.TrimSpace(form.Title) == "" {
			httpx.JSONError(w, http.StatusBadRequest, "create_form.title", "title required")
			return
		}
		if dup := schema.FirstDuplicateName(form.Fields); dup != "" {
			httpx.JSONError(w, http.StatusBadRequest, "create_form.fields", "Duplicate field name: "+dup)
			return
		}

		created, err := app.CreateForm(r.Context(), form)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_form", err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Store.ListForms(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		form, err := app.Store.GetForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONNotFound(w, "get_form", "Form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

// UpdateForm replaces title/description/fields wholesale, bumping the
// version iff the incoming field list structurally differs from the stored
// one. Name uniqueness is deliberately not re-checked here: only Create
// blocks duplicates, and a test documents that duplicates can re-enter
// through updates.
func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.read_body")
			return
		}

		msg, err := model.CheckFormPayload(r.Context(), body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if msg != "" {
			httpx.JSONError(w, http.StatusBadRequest, "update_form.payload", msg)
			return
		}

		patch := model.FormPatch{}
		if err := json.Unmarshal(body, &patch); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.Store.GetForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONNotFound(w, "update_form", "Form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		fieldsChanged := patch.Fields != nil && !model.FieldsEqual(form.Fields, *patch.Fields)

		if patch.Title != nil {
			form.Title = *patch.Title
		}
		if patch.Description != nil {
			form.Description = *patch.Description
		}
		if patch.Fields != nil {
			form.Fields = *patch.Fields
		}
		if fieldsChanged {
			form.Version++
		}

		updated, err := app.Store.SaveForm(r.Context(), form)
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONNotFound(w, "update_form", "Form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.update_form", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		err := app.Store.DeleteForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONNotFound(w, "delete_form", "Form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.delete_form", err)
			return
		}

		// submissions are left in place: they keep their formId reference
		render.JSON(w, r, map[string]any{"ok": true})
	}
}

// CheckForm runs the editor consistency check server-side, so the editor UI
// can surface "Duplicate field name" style feedback without saving.
func CheckForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		err := render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if msg := schema.CheckBeforeSave(form.Title, form.Fields); msg != "" {
			httpx.JSONError(w, http.StatusBadRequest, "check_form", msg)
			return
		}
		render.JSON(w, r, map[string]any{"ok": true})
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		page, limit := pagination(r)

		total, subs, err := app.Store.ListSubmissions(r.Context(), formId, page, limit)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"submissions": subs,
		})
	}
}

// pagination reads ?page and ?limit, clamping page to >= 1 and limit to
// [1, 100] with a default of 20.
func pagination(r *http.Request) (page, limit int) {
	page = 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 1 {
		page = p
	}
	limit = 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		switch {
		case l < 1:
			limit = 1
		case l > 100:
			limit = 100
		default:
			limit = l
		}
	}
	return
}
