package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-llm/internal/llm"
	"persona-llm/internal/reddit"
	"persona-llm/internal/repository"
	"persona-llm/internal/service"
)

func newProtectedRouter(t *testing.T, adminKey string) (*gin.Engine, *service.JWTService) {
	t.Helper()
	logger := zap.NewNop()
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	svc := service.NewPersonaService(
		func() reddit.Gateway { return &fakeGateway{} },
		&llm.MockClient{},
		service.NewPersonaEnricher(),
		nil,
		repository.NewMemoryAnalysisRepository(),
		logger,
		5,
	)
	personaH := NewPersonaHandler(logger, svc, nil)
	historyH := NewHistoryHandler(logger, svc, true)
	authH := NewAuthHandler(logger, jwtSvc, adminKey)
	return NewRouter(logger, personaH, historyH, authH, jwtSvc, true), jwtSvc
}

func TestNewAuthHandlerRequiresAdminKey(t *testing.T) {
	if h := NewAuthHandler(zap.NewNop(), service.NewJWTService("s", time.Hour), ""); h != nil {
		t.Fatalf("expected nil handler without admin key")
	}
	if h := NewAuthHandler(zap.NewNop(), nil, "key"); h != nil {
		t.Fatalf("expected nil handler without jwt service")
	}
}

func TestIssueTokenHappyPath(t *testing.T) {
	r, jwtSvc := newProtectedRouter(t, "super-secret")

	w := postJSON(r, "/auth/token", `{"admin_key": "super-secret", "client_name": "dashboard"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token service.AccessToken `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	claims, err := jwtSvc.ParseAccessToken(resp.Token.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.ClientName != "dashboard" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestIssueTokenWrongKey(t *testing.T) {
	r, _ := newProtectedRouter(t, "super-secret")

	w := postJSON(r, "/auth/token", `{"admin_key": "wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestIssueTokenMissingKey(t *testing.T) {
	r, _ := newProtectedRouter(t, "super-secret")

	w := postJSON(r, "/auth/token", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHistoryRequiresToken(t *testing.T) {
	r, _ := newProtectedRouter(t, "super-secret")

	w := getPath(r, "/api/analyses/kojied")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestHistoryRejectsBadToken(t *testing.T) {
	r, _ := newProtectedRouter(t, "super-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/kojied", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}
}

func TestHistoryAcceptsIssuedToken(t *testing.T) {
	r, jwtSvc := newProtectedRouter(t, "super-secret")

	token, err := jwtSvc.Issue("dashboard")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/analyses/kojied", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "analyses") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetAuthClaimsRoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetAuthClaims(c); ok {
		t.Fatalf("expected no claims on a fresh context")
	}

	c.Set(authClaimsKey, service.Claims{ClientName: "dashboard"})
	claims, ok := GetAuthClaims(c)
	if !ok || claims.ClientName != "dashboard" {
		t.Fatalf("expected stored claims, got (%+v, %v)", claims, ok)
	}
}

func TestClientNameFallsBackToPublic(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := clientName(c); got != "public" {
		t.Fatalf("expected public without claims, got %q", got)
	}
	c.Set(authClaimsKey, service.Claims{ClientName: "dashboard"})
	if got := clientName(c); got != "dashboard" {
		t.Fatalf("expected client name from claims, got %q", got)
	}
}

func TestAnalyzeEndpointStaysPublic(t *testing.T) {
	r, _ := newProtectedRouter(t, "super-secret")

	w := postJSON(r, "/api/user/link", `{"url": "https://example.com/nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("analyze endpoint must not require auth: got %d", w.Code)
	}
}
