package routes_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/dynform/dynform/app"
	"github.com/dynform/dynform/config"
	"github.com/dynform/dynform/database"
	"github.com/dynform/dynform/httpx"
	"github.com/dynform/dynform/routes"
	"github.com/dynform/dynform/store"
)

// newTestHandler wires the full router against a fresh sqlite file, with no
// token secret so the admin surface is reachable without credentials.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.Open(config.Config{DBUrl: filepath.Join(t.TempDir(), "test.sqlite")})
	require.NoError(t, err)

	st := store.New(db)
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{}
	return routes.Wire(app.App{
		Store:        st,
		BearerServer: httpx.NewBearerServer(st, cfg),
		Config:       cfg,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.7:1234"
	req.Header.Set("User-Agent", "routes_test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}
