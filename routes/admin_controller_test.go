package routes_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textField(name string) map[string]any {
	return map[string]any{"label": name, "name": name, "type": "text"}
}

func createForm(t *testing.T, h http.Handler, payload map[string]any) string {
	t.Helper()

	rec := do(t, h, "POST", "/api/admin/forms", payload)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	id, _ := decode(t, rec)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateForm(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, "POST", "/api/admin/forms", map[string]any{
		"title":  "Survey",
		"fields": []any{textField("a"), textField("b")},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, float64(1), body["version"])
	assert.Equal(t, "Survey", body["title"])
	assert.NotEmpty(t, body["createdAt"])
}

func TestCreateForm_TitleRequired(t *testing.T) {
	h := newTestHandler(t)

	for _, title := range []any{nil, "", "   "} {
		payload := map[string]any{"fields": []any{textField("a")}}
		if title != nil {
			payload["title"] = title
		}
		rec := do(t, h, "POST", "/api/admin/forms", payload)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "title required", decode(t, rec)["error"])
	}
}

func TestCreateForm_DuplicateFieldName(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, "POST", "/api/admin/forms", map[string]any{
		"title":  "Survey",
		"fields": []any{textField("a"), textField("b"), textField("a")},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate field name: a", decode(t, rec)["error"])
}

func TestCreateForm_RejectsUnknownFieldType(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, "POST", "/api/admin/forms", map[string]any{
		"title":  "Survey",
		"fields": []any{map[string]any{"label": "A", "name": "a", "type": "hologram"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}

func TestUpdateForm_VersionBumpsOnlyOnFieldChanges(t *testing.T) {
	h := newTestHandler(t)
	id := createForm(t, h, map[string]any{
		"title":  "Survey",
		"fields": []any{textField("a")},
	})

	// identical fields: no bump
	rec := do(t, h, "PUT", "/api/admin/forms/"+id, map[string]any{
		"title":  "Survey",
		"fields": []any{textField("a")},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["version"])

	// title only, fields omitted: no bump
	rec = do(t, h, "PUT", "/api/admin/forms/"+id, map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Renamed", body["title"])
	assert.Equal(t, float64(1), body["version"])

	// structural change: bump by exactly one
	rec = do(t, h, "PUT", "/api/admin/forms/"+id, map[string]any{
		"fields": []any{textField("a"), textField("b")},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["version"])

	// fields kept from previous update when omitted again
	rec = do(t, h, "GET", "/api/admin/forms/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fields, _ := decode(t, rec)["fields"].([]any)
	assert.Len(t, fields, 2)
}

// Update intentionally skips the duplicate-name check that Create enforces;
// this pins the permissive behavior down.
func TestUpdateForm_AllowsDuplicateNames(t *testing.T) {
	h := newTestHandler(t)
	id := createForm(t, h, map[string]any{
		"title":  "Survey",
		"fields": []any{textField("a")},
	})

	rec := do(t, h, "PUT", "/api/admin/forms/"+id, map[string]any{
		"fields": []any{textField("a"), textField("a")},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["version"])
}

func TestUpdateForm_NotFound(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, "PUT", "/api/admin/forms/missing", map[string]any{"title": "X"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", decode(t, rec)["error"])
}

func TestDeleteForm(t *testing.T) {
	h := newTestHandler(t)
	id := createForm(t, h, map[string]any{"title": "Survey"})

	rec := do(t, h, "DELETE", "/api/admin/forms/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])

	rec = do(t, h, "DELETE", "/api/admin/forms/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, "GET", "/api/admin/forms/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Form not found", decode(t, rec)["error"])
}

func TestListForms(t *testing.T) {
	h := newTestHandler(t)
	createForm(t, h, map[string]any{"title": "One"})
	createForm(t, h, map[string]any{"title": "Two"})

	rec := do(t, h, "GET", "/api/admin/forms", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	forms, _ := decode(t, rec)["forms"].([]any)
	require.Len(t, forms, 2)
	brief, _ := forms[0].(map[string]any)
	assert.NotEmpty(t, brief["id"])
	assert.NotEmpty(t, brief["title"])
	assert.Equal(t, float64(1), brief["version"])
	assert.NotEmpty(t, brief["createdAt"])
}

func TestCheckForm(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, "POST", "/api/admin/forms/check", map[string]any{
		"title":  "",
		"fields": []any{textField("a")},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required", decode(t, rec)["error"])

	rec = do(t, h, "POST", "/api/admin/forms/check", map[string]any{
		"title":  "T",
		"fields": []any{textField("a"), map[string]any{"label": "B", "name": " ", "type": "text"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Field 2 name is required", decode(t, rec)["error"])

	rec = do(t, h, "POST", "/api/admin/forms/check", map[string]any{
		"title":  "T",
		"fields": []any{textField("a"), textField("a")},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate field name: a", decode(t, rec)["error"])

	rec = do(t, h, "POST", "/api/admin/forms/check", map[string]any{
		"title":  "T",
		"fields": []any{textField("a")},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])
}
