package server

import (
	"encoding/json"
	"net/http"

	"material-mastery/internal/game"

	"github.com/gin-gonic/gin"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindValidation, game.KindConflict:
		return http.StatusBadRequest
	case game.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError maps an engine error to its status code. Store failures
// are logged and reported without internal detail.
func (s *Server) writeDomainError(c *gin.Context, err error) {
	kind := game.KindOf(err)
	status := statusFor(kind)
	message := game.Message(err)
	if kind == game.KindStoreFailure {
		s.log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		message = "Internal server error."
	}
	_ = c.Error(err)
	writeError(c.Writer, status, message)
}
