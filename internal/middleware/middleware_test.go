package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return gin.New()
}

func newTestJWTProvider(duration time.Duration) *security.JWTProvider {
	cfg := &config.JWTConfig{
		Secret:              "test-secret-key-for-testing",
		AccessTokenDuration: duration,
		Issuer:              "test",
	}
	return security.NewJWTProvider(cfg)
}

// RequestID Tests
func TestRequestID(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates new request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusOK)
		}

		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" {
			t.Error("RequestID header not set")
		}
		if w.Body.String() != headerID {
			t.Errorf("Body = %v, header = %v", w.Body.String(), headerID)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "custom-request-id")
		router.ServeHTTP(w, req)

		headerID := w.Header().Get(RequestIDHeader)
		if headerID != "custom-request-id" {
			t.Errorf("RequestID = %v, want custom-request-id", headerID)
		}
	})
}

func TestGetRequestID(t *testing.T) {
	t.Run("request ID exists", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set(RequestIDKey, "test-id")

		if got := GetRequestID(c); got != "test-id" {
			t.Errorf("GetRequestID() = %v, want test-id", got)
		}
	})

	t.Run("request ID not exists", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		if got := GetRequestID(c); got != "" {
			t.Errorf("GetRequestID() = %v, want empty", got)
		}
	})
}

// Auth Tests
func newAuthRouter(provider *security.JWTProvider) *gin.Engine {
	securityService := security.NewSecurityService(provider)
	auth := NewAuthMiddleware(provider, securityService)

	router := newTestRouter()
	router.GET("/protected", auth.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, securityService.GetCurrentUserID(c))
	})
	router.GET("/optional", auth.OptionalAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, securityService.GetCurrentUserID(c))
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	provider := newTestJWTProvider(time.Hour)
	router := newAuthRouter(provider)

	t.Run("valid token", func(t *testing.T) {
		token, err := provider.GenerateToken("u1", "alice")
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusOK)
		}
		if w.Body.String() != "u1" {
			t.Errorf("user id = %v, want u1", w.Body.String())
		}
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token something")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expiredProvider := newTestJWTProvider(-time.Minute)
		token, err := expiredProvider.GenerateToken("u1", "alice")
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	provider := newTestJWTProvider(time.Hour)
	router := newAuthRouter(provider)

	t.Run("anonymous allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusOK)
		}
		if w.Body.String() != "" {
			t.Errorf("user id = %v, want empty", w.Body.String())
		}
	})

	t.Run("token attaches identity", func(t *testing.T) {
		token, err := provider.GenerateToken("u2", "bob")
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		if w.Body.String() != "u2" {
			t.Errorf("user id = %v, want u2", w.Body.String())
		}
	})
}

// CORS Tests
func TestCORS(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS(DefaultCORSConfig()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusNoContent)
		}
		if w.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Error("Allow-Methods header not set")
		}
		if w.Header().Get("Access-Control-Max-Age") != "43200" {
			t.Errorf("Max-Age = %v, want 43200", w.Header().Get("Access-Control-Max-Age"))
		}
	})

	t.Run("simple request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://example.com")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusOK)
		}
		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("Allow-Origin header not set")
		}
	})
}

// Recovery Tests
func TestRecovery(t *testing.T) {
	router := newTestRouter()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %v, want %v", w.Code, http.StatusInternalServerError)
	}
}
