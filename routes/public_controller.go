package routes

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/dynform/dynform/app"
	"github.com/dynform/dynform/httpx"
	"github.com/dynform/dynform/log"
	"github.com/dynform/dynform/model"
	"github.com/dynform/dynform/schema"
	"github.com/dynform/dynform/store"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"ok":   true,
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func PublicListForms(app app.App) http.HandlerFunc {
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

// PublicGetForm serves the full form definition, nested blocks included, for
// the renderer.
func PublicGetForm(app app.App) http.HandlerFunc {
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

// SubmitForm validates one answers payload against the form's compiled
// validator and records the normalized result with a form version snapshot.
func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		answers := map[string]any{}
		err := render.DecodeJSON(r.Body, &answers)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.Store.GetForm(r.Context(), formId)
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONNotFound(w, "submit.get_form", "Form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		result := schema.Validate(form.Fields, answers)
		if !result.OK() {
			httpx.JSONFieldErrors(w, "submit.validate", result.Errors)
			return
		}

		sub, err := app.CreateSubmission(r.Context(), model.Submission{
			FormID:      form.ID,
			FormVersion: form.Version,
			Answers:     result.Value,
			Meta: model.SubmissionMeta{
				IP:        clientIP(r),
				UserAgent: r.UserAgent(),
			},
		})
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"ok":           true,
			"submissionId": sub.ID,
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > -1 {
		host = host[:i]
	}
	return host
}
