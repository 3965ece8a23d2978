package chi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/estaterec/internal/domain"
	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
	"github.com/kailas-cloud/estaterec/internal/domain/session"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
	"github.com/kailas-cloud/estaterec/internal/logger"
	authuc "github.com/kailas-cloud/estaterec/internal/usecase/auth"
	healthuc "github.com/kailas-cloud/estaterec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/estaterec/internal/usecase/recommend"
	"github.com/kailas-cloud/estaterec/internal/validation"
)

const (
	maxJSONBody       = 1 << 20
	multipartMemory   = 8 << 20
	defaultUploadSize = 10 << 20
	uploadField       = "file"
)

// Authenticator is the auth use case as seen by handlers.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (domuser.User, error)
	Login(ctx context.Context, username, password string) (authuc.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (session.Identity, error)
}

// Ingester replaces the listing set from a CSV stream.
type Ingester interface {
	Upload(ctx context.Context, r io.Reader) (int, error)
}

// Recommender runs profile matching.
type Recommender interface {
	Recommend(ctx context.Context, req recommenduc.Request) ([]domprop.Property, error)
}

// FeedbackService records and reads labels.
type FeedbackService interface {
	Submit(ctx context.Context, userID, propertyID uint, label string) (domfb.Feedback, error)
	Get(ctx context.Context, userID, propertyID uint) (domfb.Feedback, error)
	List(ctx context.Context, userID uint) ([]domfb.Feedback, error)
}

// PropertyLister lists the current listings.
type PropertyLister interface {
	List(ctx context.Context) ([]domprop.Property, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Services bundles the use cases served over HTTP.
type Services struct {
	Auth       Authenticator
	Ingest     Ingester
	Recommend  Recommender
	Feedback   FeedbackService
	Properties PropertyLister
	Health     HealthChecker
}

// Options tunes cookies and request limits.
type Options struct {
	CookieName     string
	CookieSecure   bool
	MaxUploadBytes int64
}

// Server implements the estaterec HTTP API.
type Server struct {
	svc    Services
	opts   Options
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, opts Options, logger *zap.Logger) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "estaterec_session"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultUploadSize
	}
	return &Server{svc: svc, opts: opts, logger: logger}
}

// Register handles POST /api/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := s.svc.Auth.Register(r.Context(), req.Username, req.Password); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered"})
}

// Login handles POST /api/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt(),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		UserID:   res.User.ID(),
		Username: res.User.Username(),
		Token:    res.Token,
		Expires:  res.Session.ExpiresAt(),
	})
}

// Logout handles POST /api/logout. It succeeds with or without a session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), s.token(r)); err != nil {
		s.handleError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Upload handles POST /api/upload (multipart field "file").
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.handleError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	ctx := logger.WithFields(r.Context(), zap.String("filename", header.Filename), zap.Int64("size", header.Size))
	n, err := s.svc.Ingest.Upload(ctx, file)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Message: "File uploaded successfully", Count: n})
}

// Recommendations handles POST /api/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	var req recommendRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !req.UserID.matches(id) {
		s.handleError(w, r, fmt.Errorf("%w: user_id does not match the session", domain.ErrForbidden))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		s.handleError(w, r, err)
		return
	}
	p, err := req.toProfile()
	if err != nil {
		s.handleError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidProfile, err))
		return
	}

	props, err := s.svc.Recommend.Recommend(r.Context(), recommenduc.Request{
		UserID:       id.UserID,
		Profile:      p,
		IncludeLiked: req.includeLiked(),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertiesToResponse(props))
}

// SubmitFeedback handles POST /api/feedback.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	var req feedbackRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !req.UserID.matches(id) {
		s.handleError(w, r, fmt.Errorf("%w: user_id does not match the session", domain.ErrForbidden))
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if _, err := s.svc.Feedback.Submit(r.Context(), id.UserID, *req.PropertyID, req.Feedback); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Feedback submitted"})
}

// ListFeedback handles GET /api/feedback.
func (s *Server) ListFeedback(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	fs, err := s.svc.Feedback.List(r.Context(), id.UserID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	out := make([]feedbackResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, feedbackToResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetFeedback handles GET /api/feedback/{property_id}.
func (s *Server) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	propertyID, err := strconv.ParseUint(chi.URLParam(r, "property_id"), 10, 64)
	if err != nil || propertyID == 0 {
		writeError(w, http.StatusBadRequest, "property_id must be a positive integer")
		return
	}
	f, err := s.svc.Feedback.Get(r.Context(), id.UserID, uint(propertyID))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackToResponse(f))
}

// ListProperties handles GET /api/properties.
func (s *Server) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.svc.Properties.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertiesToResponse(props))
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v, answering 400/413 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.handleError(w, r, err)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// token extracts the session token from the cookie, falling back to a Bearer header.
func (s *Server) token(r *http.Request) string {
	if c, err := r.Cookie(s.opts.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	return ""
}
