package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/discovery"
	"github.com/sells-group/prospector-cli/internal/locate"
)

// envelope is the body of every /api response.
type envelope struct {
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Notices []string `json:"notices,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, status int, data any, n *app.Notices) {
	writeJSON(w, status, envelope{Data: data, Notices: n.List})
}

func writeError(w http.ResponseWriter, status int, msg string, n *app.Notices) {
	var notices []string
	if n != nil {
		notices = n.List
	}
	writeJSON(w, status, envelope{Error: msg, Notices: notices})
}

// errorStatus maps controller errors to HTTP status codes. Anything
// unrecognized is a failed backend call.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, discovery.ErrMissingQuery),
		errors.Is(err, app.ErrInvalidStatus),
		errors.Is(err, app.ErrUnknownView):
		return http.StatusBadRequest
	case errors.Is(err, discovery.ErrUnknownLead):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNoSelection),
		errors.Is(err, discovery.ErrSuperseded),
		errors.Is(err, chat.ErrTurnPending):
		return http.StatusConflict
	case errors.Is(err, locate.ErrDenied),
		errors.Is(err, locate.ErrUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) fail(w http.ResponseWriter, err error, n *app.Notices) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Warn("api: request failed", zap.Error(err))
	}
	writeError(w, status, err.Error(), n)
}

// decode reads a JSON body into v and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err), nil)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
	return err.Error()
}
