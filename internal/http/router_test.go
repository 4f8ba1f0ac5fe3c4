package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	jwttoken "docflow/internal/jwt_token"
	"docflow/internal/platform/metrics"
	"docflow/internal/translation"
	"docflow/internal/translation/events"
	"docflow/internal/translation/pdf"
	"docflow/internal/translation/pdf/pdftest"
	"docflow/internal/translation/service"
	"docflow/internal/translation/store/blob"
	"docflow/internal/translation/store/document"
	"docflow/pkg/requestcontext"
)

type RouterSuite struct {
	suite.Suite
	server    *httptest.Server
	tokens    *jwttoken.JWTService
	published *events.Memory
	healthErr error
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	s.tokens = jwttoken.NewJWTService("router-test-key", "", "")
	s.published = events.NewMemory()
	s.healthErr = nil

	workflow := translation.NewWorkflow(document.NewInMemory(), service.WithPublisher(s.published))
	svc := translation.NewService(workflow, blob.NewInMemory("document-vault"), pdf.NewInspector(0))
	s.server = httptest.NewServer(NewRouter(Deps{
		Logger:       logger,
		Metrics:      metrics.New(reg),
		Gatherer:     reg,
		Validator:    jwttoken.NewJWTServiceAdapter(s.tokens),
		Translations: translation.NewHandler(svc, logger, 0),
		HealthChecks: map[string]HealthCheck{
			"store": func(context.Context) error { return s.healthErr },
		},
	}))
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) token(email string, role requestcontext.Role) string {
	token, err := s.tokens.GenerateAccessToken(email, role, time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *RouterSuite) do(method, path, token string, body io.Reader, contentType string) (int, map[string]any) {
	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 && raw[0] == '{' {
		s.Require().NoError(json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *RouterSuite) postJSON(path, token string, body any) (int, map[string]any) {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	return s.do(http.MethodPost, path, token, bytes.NewReader(raw), "application/json")
}

func (s *RouterSuite) postFile(path, token, filename string, fields map[string]string) (int, map[string]any) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write(pdftest.Minimal(1))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())
	return s.do(http.MethodPost, path, token, &buf, mw.FormDataContentType())
}

func (s *RouterSuite) TestTranslationLifecycle() {
	user := s.token("ana@example.com", requestcontext.RoleUser)
	admin := s.token("translator@example.com", requestcontext.RoleAdmin)

	status, body := s.postFile("/translations", user, "Birth_certificate.pdf", map[string]string{"userName": "Ana"})
	s.Require().Equal(http.StatusCreated, status, body)
	docID := body["document_id"].(string)
	s.Equal("PENDING", body["status"])

	status, body = s.do(http.MethodPost, "/translations/"+docID+"/confirm", user, nil, "")
	s.Equal(http.StatusConflict, status)
	s.Equal("invalid_state", body["error"])

	status, body = s.postFile("/admin/translations/"+docID+"/upload", admin, "birth_en.pdf", nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("TRANSLATED", body["status"])

	status, body = s.postJSON("/translations/"+docID+"/request-changes", user, map[string]string{"reason": "name misspelled"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("CHANGES_REQUESTED", body["status"])

	status, _ = s.postFile("/admin/translations/"+docID+"/upload", admin, "birth_en_v2.pdf", nil)
	s.Require().Equal(http.StatusOK, status)

	status, body = s.do(http.MethodPost, "/translations/"+docID+"/confirm", user, nil, "")
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("USER_CONFIRMED", body["status"])
	s.NotNil(body["confirmed_at"])

	status, body = s.postJSON("/admin/translations/"+docID+"/verify", admin, map[string]string{"notes": "done"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("ADMIN_VERIFIED", body["status"])

	status, body = s.do(http.MethodGet, "/translations/"+docID, user, nil, "")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("ADMIN_VERIFIED", body["status"])
	s.Equal("name misspelled", body["rejection_reason"])
	s.NotNil(body["original_file_url"])
	s.NotNil(body["translated_file_url"])

	status, body = s.do(http.MethodGet, "/translations", user, nil, "")
	s.Require().Equal(http.StatusOK, status)
	s.Equal(float64(1), body["total"])

	published := s.published.Events()
	s.Require().Len(published, 6)
	s.Equal(events.TypeSubmitted, published[0].Type())
	s.Equal("translator@example.com", published[len(published)-1].Actor)
}

func (s *RouterSuite) TestAuthentication() {
	s.Run("missing token", func() {
		status, body := s.do(http.MethodGet, "/translations", "", nil, "")
		s.Equal(http.StatusUnauthorized, status)
		s.Equal("unauthorized", body["error"])
	})

	s.Run("requester on admin route", func() {
		status, body := s.do(http.MethodGet, "/admin/translations", s.token("ana@example.com", requestcontext.RoleUser), nil, "")
		s.Equal(http.StatusForbidden, status)
		s.Equal("forbidden", body["error"])
	})

	s.Run("other requester cannot read", func() {
		owner := s.token("ana@example.com", requestcontext.RoleUser)
		status, body := s.postFile("/translations", owner, "death_record.pdf", map[string]string{"userName": "Ana"})
		s.Require().Equal(http.StatusCreated, status)

		status, _ = s.do(http.MethodGet, "/translations/"+body["document_id"].(string), s.token("bob@example.com", requestcontext.RoleUser), nil, "")
		s.Equal(http.StatusForbidden, status)
	})
}

func (s *RouterSuite) TestHealthAndMetrics() {
	status, body := s.do(http.MethodGet, "/healthz", "", nil, "")
	s.Equal(http.StatusOK, status)
	s.Equal("ok", body["status"])

	s.healthErr = errors.New("connection refused")
	status, body = s.do(http.MethodGet, "/healthz", "", nil, "")
	s.Equal(http.StatusServiceUnavailable, status)
	s.Equal("degraded", body["status"])

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(raw), "docflow_http_requests_total")
}
