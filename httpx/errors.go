package httpx

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dynform/dynform/log"
)

// Will log an error, and send an HTTP response with status 500 and default
// text. Internal detail never reaches the client.
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log a debug message, and send a {"error": msg} response with the
// given status.
func JSONError(w http.ResponseWriter, status int, code string, msg string) {
	log.Debugf("%s: %s", code, msg)
	writeJSON(w, status, map[string]string{"error": msg})
}

// Will log a debug message, and send a 404 {"error": "... not found"}
// response for the given entity.
func JSONNotFound(w http.ResponseWriter, code string, entity string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	writeJSON(w, http.StatusNotFound, map[string]string{"error": entity + " not found"})
}

// Will log a debug message, and send a 400 {"errors": {field: msg}} response
// carrying every violated field.
func JSONFieldErrors(w http.ResponseWriter, code string, errs map[string]string) {
	log.Debugf("%s: %v", code, errs)
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("httpx.write_json: %s", err)
	}
}
