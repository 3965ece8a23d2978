package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/estaterec/internal/domain"
	domfb "github.com/kailas-cloud/estaterec/internal/domain/feedback"
	domprop "github.com/kailas-cloud/estaterec/internal/domain/property"
	"github.com/kailas-cloud/estaterec/internal/domain/session"
	domuser "github.com/kailas-cloud/estaterec/internal/domain/user"
	authuc "github.com/kailas-cloud/estaterec/internal/usecase/auth"
	healthuc "github.com/kailas-cloud/estaterec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/estaterec/internal/usecase/recommend"
)

const goodToken = "good-token"

var alice = session.Identity{UserID: 7, Username: "alice", SessionID: "sess-1"}

type mockAuth struct {
	registerErr  error
	loginErr     error
	loggedOut    []string
	authErr      error
	registeredAs string
}

func (m *mockAuth) Register(_ context.Context, username, _ string) (domuser.User, error) {
	if m.registerErr != nil {
		return domuser.User{}, m.registerErr
	}
	m.registeredAs = username
	return domuser.Reconstruct(1, username, "hash", time.Now()), nil
}

func (m *mockAuth) Login(_ context.Context, username, _ string) (authuc.LoginResult, error) {
	if m.loginErr != nil {
		return authuc.LoginResult{}, m.loginErr
	}
	sess, _ := session.New("sess-1", 7, username, time.Now(), time.Hour)
	return authuc.LoginResult{
		User:    domuser.Reconstruct(7, username, "hash", time.Now()),
		Session: sess,
		Token:   goodToken,
	}, nil
}

func (m *mockAuth) Logout(_ context.Context, token string) error {
	m.loggedOut = append(m.loggedOut, token)
	return nil
}

func (m *mockAuth) Authenticate(_ context.Context, token string) (session.Identity, error) {
	if m.authErr != nil {
		return session.Identity{}, m.authErr
	}
	if token != goodToken {
		return session.Identity{}, domain.ErrUnauthenticated
	}
	return alice, nil
}

type mockIngest struct {
	body string
	n    int
	err  error
}

func (m *mockIngest) Upload(_ context.Context, r io.Reader) (int, error) {
	b, _ := io.ReadAll(r)
	m.body = string(b)
	return m.n, m.err
}

type mockRecommend struct {
	got   recommenduc.Request
	props []domprop.Property
	err   error
}

func (m *mockRecommend) Recommend(_ context.Context, req recommenduc.Request) ([]domprop.Property, error) {
	m.got = req
	return m.props, m.err
}

type mockFeedback struct {
	userID, propertyID uint
	label              string
	err                error
	stored             []domfb.Feedback
}

func (m *mockFeedback) Submit(_ context.Context, userID, propertyID uint, label string) (domfb.Feedback, error) {
	m.userID, m.propertyID, m.label = userID, propertyID, label
	if m.err != nil {
		return domfb.Feedback{}, m.err
	}
	return domfb.Reconstruct(1, userID, propertyID, domfb.Label(label), time.Now(), time.Now()), nil
}

func (m *mockFeedback) Get(_ context.Context, userID, propertyID uint) (domfb.Feedback, error) {
	for _, f := range m.stored {
		if f.UserID() == userID && f.PropertyID() == propertyID {
			return f, nil
		}
	}
	return domfb.Feedback{}, domain.ErrNotFound
}

func (m *mockFeedback) List(_ context.Context, userID uint) ([]domfb.Feedback, error) {
	var out []domfb.Feedback
	for _, f := range m.stored {
		if f.UserID() == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockProperties struct{ props []domprop.Property }

func (m *mockProperties) List(context.Context) ([]domprop.Property, error) { return m.props, nil }

type mockHealth struct{ report healthuc.Report }

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type fixture struct {
	auth     *mockAuth
	ingest   *mockIngest
	rec      *mockRecommend
	feedback *mockFeedback
	props    *mockProperties
	health   *mockHealth
	handler  http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:     &mockAuth{},
		ingest:   &mockIngest{},
		rec:      &mockRecommend{},
		feedback: &mockFeedback{},
		props:    &mockProperties{},
		health:   &mockHealth{report: healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK}}},
	}
	srv := NewServer(Services{
		Auth:       f.auth,
		Ingest:     f.ingest,
		Recommend:  f.rec,
		Feedback:   f.feedback,
		Properties: f.props,
		Health:     f.health,
	}, Options{CookieName: "sid", MaxUploadBytes: 1 << 10}, zap.NewNop())
	f.handler = NewRouter(srv, RouterConfig{LoginRequests: 3, LoginWindow: time.Minute})
	return f
}

func (f *fixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.AddCookie(&http.Cookie{Name: "sid", Value: goodToken})
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func sampleProperty(t *testing.T, id uint, image string) domprop.Property {
	t.Helper()
	return domprop.Reconstruct(id, domprop.Attributes{
		Name: fmt.Sprintf("House %d", id), Location: "Springfield", Price: 250000,
		Bedrooms: 3, Bathrooms: 2, Area: 1400, CommuteTime: 20, SchoolRating: 8,
		DistanceTrain: 1.5, DistanceGrocery: 0.5, Image: image,
	})
}

const validProfile = `"budget": 300000, "min_bedrooms": 2, "min_bathrooms": 1, "min_sqft": 1000,
	"max_commute": 30, "max_distance_train_station": 2, "max_distance_grocery": 1, "min_school_rating": 7`

func TestRegister(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/register", `{"username":"alice","password":"Secr3t!pw"}`, false)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusCreated)
	}
	if f.auth.registeredAs != "alice" {
		t.Errorf("registered as %q", f.auth.registeredAs)
	}
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"duplicate", fmt.Errorf("register %q: %w", "alice", domain.ErrDuplicateUsername), http.StatusBadRequest, "Username exists"},
		{"missing", domain.ErrMissingCredentials, http.StatusBadRequest, "Username and password required"},
		{"policy", &domain.PasswordPolicyError{Rule: domuser.RuleLength}, http.StatusBadRequest, domuser.RuleLength},
		{"storage", &domain.StorageError{Op: "create user", Err: errors.New("disk full")}, http.StatusInternalServerError, "create user: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.auth.registerErr = tt.err
			rr := f.do(http.MethodPost, "/api/register", `{"username":"alice","password":"x"}`, false)
			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.status)
			}
			if got := decodeError(t, rr); got != tt.message {
				t.Errorf("message: got %q, want %q", got, tt.message)
			}
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/register", `{"username":`, false)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestLogin_SetsCookie(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/login", `{"username":"alice","password":"Secr3t!pw"}`, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "sid" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if cookie.Value != goodToken || !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("unexpected cookie: %+v", cookie)
	}

	var resp loginResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Login successful" || resp.UserID != 7 || resp.Token != goodToken {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.auth.loginErr = domain.ErrInvalidCredentials
	rr := f.do(http.MethodPost, "/api/login", `{"username":"alice","password":"nope"}`, false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := decodeError(t, rr); got != "Invalid credentials" {
		t.Errorf("message: got %q", got)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.auth.loginErr = domain.ErrInvalidCredentials
	var last *httptest.ResponseRecorder
	for range 4 {
		last = f.do(http.MethodPost, "/api/login", `{"username":"alice","password":"nope"}`, false)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status: got %d, want %d", last.Code, http.StatusTooManyRequests)
	}
}

func TestLogout_ClearsCookieWithoutSession(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/logout", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cookies)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/logout", "", true)
	if len(f.auth.loggedOut) != 1 || f.auth.loggedOut[0] != goodToken {
		t.Errorf("logout tokens: %v", f.auth.loggedOut)
	}
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/recommendations"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/feedback"},
		{http.MethodGet, "/api/feedback/1"},
		{http.MethodGet, "/api/properties"},
	}
	f := newFixture(t)
	for _, rt := range routes {
		rr := f.do(rt.method, rt.path, "{}", false)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want %d", rt.method, rt.path, rr.Code, http.StatusUnauthorized)
			continue
		}
		if got := decodeError(t, rr); got != "Unauthorized" {
			t.Errorf("%s %s: message %q", rt.method, rt.path, got)
		}
	}
}

func TestBearerToken_Authenticates(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/properties", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+goodToken)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body: got %q, want []", rr.Body.String())
	}
}

func multipartBody(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, "props.csv")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(fw, content)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, mw.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, field, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	req.AddCookie(&http.Cookie{Name: "sid", Value: goodToken})
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	f.ingest.n = 2
	rr := f.upload(t, "file", "name,location\n")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp uploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Message != "File uploaded successfully" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if f.ingest.body != "name,location\n" {
		t.Errorf("ingest received %q", f.ingest.body)
	}
}

func TestUpload_NoFile(t *testing.T) {
	f := newFixture(t)
	rr := f.upload(t, "other", "x")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rr); got != "No file provided" {
		t.Errorf("message: got %q", got)
	}
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t)
	rr := f.upload(t, "file", strings.Repeat("a", 4<<10))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestUpload_MissingColumns(t *testing.T) {
	f := newFixture(t)
	f.ingest.err = fmt.Errorf("upload: %w", &domain.MissingColumnsError{Columns: []string{"price"}})
	rr := f.upload(t, "file", "name\n")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeError(t, rr); got != "CSV missing required columns: price" {
		t.Errorf("message: got %q", got)
	}
}

func TestRecommendations(t *testing.T) {
	f := newFixture(t)
	f.rec.props = []domprop.Property{sampleProperty(t, 1, ""), sampleProperty(t, 2, "a.jpg")}
	rr := f.do(http.MethodPost, "/api/recommendations", `{"user_id":"alice",`+validProfile+`}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp []propertyResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("got %d properties, want 2", len(resp))
	}
	if resp[0].PropertyImages != nil || resp[1].PropertyImages == nil || *resp[1].PropertyImages != "a.jpg" {
		t.Errorf("unexpected images: %+v", resp)
	}
	if f.rec.got.UserID != alice.UserID || !f.rec.got.IncludeLiked {
		t.Errorf("unexpected request: %+v", f.rec.got)
	}
	if th := f.rec.got.Profile.Thresholds(); th.MinBedrooms != 2 || th.MaxCommute != 30 || th.Budget != 300000 {
		t.Errorf("unexpected thresholds: %+v", th)
	}
}

func TestRecommendations_RoundsIntegerBounds(t *testing.T) {
	f := newFixture(t)
	body := `{"budget": 1, "min_bedrooms": 2.5, "min_bathrooms": 0, "min_sqft": 0, "max_commute": 30.9,
		"max_distance_train_station": 1, "max_distance_grocery": 1, "min_school_rating": 6.1, "include_liked": false}`
	rr := f.do(http.MethodPost, "/api/recommendations", body, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	th := f.rec.got.Profile.Thresholds()
	if th.MinBedrooms != 3 || th.MaxCommute != 30 || th.MinSchoolRating != 7 {
		t.Errorf("unexpected thresholds: %+v", th)
	}
	if f.rec.got.IncludeLiked {
		t.Error("include_liked=false ignored")
	}
}

func TestRecommendations_OtherUser(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/recommendations", `{"user_id":"bob",`+validProfile+`}`, true)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRecommendations_NumericUserID(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/recommendations", `{"user_id":7,`+validProfile+`}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRecommendations_InvalidProfile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"budget": 1}`},
		{"negative", `{"budget": -1, "min_bedrooms": 2, "min_bathrooms": 1, "min_sqft": 1000,
			"max_commute": 30, "max_distance_train_station": 2, "max_distance_grocery": 1, "min_school_rating": 7}`},
		{"wrong type", `{"budget": "cheap"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(http.MethodPost, "/api/recommendations", tt.body, true)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestRecommendations_EmptyIsArray(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/recommendations", `{`+validProfile+`}`, true)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body: got %q, want []", rr.Body.String())
	}
}

func TestSubmitFeedback(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodPost, "/api/feedback", `{"user_id":"alice","property_id":3,"feedback":"like"}`, true)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if f.feedback.userID != 7 || f.feedback.propertyID != 3 || f.feedback.label != "like" {
		t.Errorf("unexpected submit: %+v", f.feedback)
	}
}

func TestSubmitFeedback_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"other user", `{"user_id":"bob","property_id":3,"feedback":"like"}`, nil, http.StatusForbidden},
		{"missing property", `{"feedback":"like"}`, nil, http.StatusBadRequest},
		{"bad label", `{"property_id":3,"feedback":"meh"}`, fmt.Errorf("%w: %q", domain.ErrInvalidFeedback, "meh"), http.StatusBadRequest},
		{"unknown property", `{"property_id":99,"feedback":"like"}`, domain.ErrInvalidReference, http.StatusBadRequest},
		{"storage", `{"property_id":3,"feedback":"like"}`, &domain.StorageError{Op: "upsert feedback", Err: errors.New("locked")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.feedback.err = tt.err
			rr := f.do(http.MethodPost, "/api/feedback", tt.body, true)
			if rr.Code != tt.status {
				t.Fatalf("status: got %d, want %d: %s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}

func TestFeedbackReads(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	f.feedback.stored = []domfb.Feedback{
		domfb.Reconstruct(1, 7, 3, domfb.Like, now, now),
		domfb.Reconstruct(2, 8, 3, domfb.Dislike, now, now),
	}

	rr := f.do(http.MethodGet, "/api/feedback", "", true)
	var list []feedbackResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].PropertyID != 3 || list[0].Feedback != "like" {
		t.Errorf("unexpected list: %+v", list)
	}

	if rr := f.do(http.MethodGet, "/api/feedback/3", "", true); rr.Code != http.StatusOK {
		t.Errorf("get: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr := f.do(http.MethodGet, "/api/feedback/4", "", true); rr.Code != http.StatusNotFound {
		t.Errorf("get missing: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if rr := f.do(http.MethodGet, "/api/feedback/abc", "", true); rr.Code != http.StatusBadRequest {
		t.Errorf("get bad id: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if rr := f.do(http.MethodGet, "/health", "", false); rr.Code != http.StatusOK {
		t.Errorf("healthy: got %d, want %d", rr.Code, http.StatusOK)
	}
	f.health.report = healthuc.Report{Status: healthuc.Unhealthy, Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError}}
	rr := f.do(http.MethodGet, "/health", "", false)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/health", "", false)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestUnknownRoute_JSON404(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/api/nope", "", false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := decodeError(t, rr); got != "not found" {
		t.Errorf("message: got %q", got)
	}
}
