package api

import (
	"database/sql"
	"net/http"

	apperrors "vpark/internal/errors"
)

// Health reports whether the database is reachable.
func Health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			apperrors.NewHTTPError(http.StatusServiceUnavailable, "database unreachable").Write(w)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	}
}
