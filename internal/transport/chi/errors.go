package chi

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/estaterec/internal/domain"
	"github.com/kailas-cloud/estaterec/internal/logger"
	"github.com/kailas-cloud/estaterec/internal/validation"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// errorHandlers map errors to responses; the first match wins.
var errorHandlers = []errorHandler{
	validationHandler,
	payloadTooLargeHandler,
	sentinelHandler(domain.ErrMissingCredentials, http.StatusBadRequest, "Username and password required"),
	sentinelHandler(domain.ErrDuplicateUsername, http.StatusBadRequest, "Username exists"),
	sentinelHandler(domain.ErrInvalidPassword, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrInvalidUsername, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"),
	sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"),
	sentinelHandler(domain.ErrForbidden, http.StatusForbidden, "Forbidden"),
	sentinelHandler(domain.ErrInvalidProfile, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrInvalidFeedback, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrInvalidReference, http.StatusBadRequest, "property does not exist"),
	sentinelHandler(domain.ErrMissingColumns, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrParse, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrEmptyFile, http.StatusBadRequest, ""),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not found"),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty message sends the error's own text (see clientMessage).
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = clientMessage(err)
		}
		writeError(w, status, msg)
		return true
	}
}

func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *validation.RequestValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeError(w, http.StatusBadRequest, ve.Error())
	return true
}

func payloadTooLargeHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) && !errors.Is(err, domain.ErrPayloadTooLarge) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, domain.ErrPayloadTooLarge.Error())
	return true
}

// clientMessage strips wrapping context from validation errors.
func clientMessage(err error) string {
	var pe *domain.PasswordPolicyError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var mc *domain.MissingColumnsError
	if errors.As(err, &mc) {
		return mc.Error()
	}
	var ce *domain.ParseError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range errorHandlers {
		if h(w, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}
