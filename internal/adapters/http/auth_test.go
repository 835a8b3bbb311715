package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/telecare/signaling/internal/adapters/signal"
	"github.com/telecare/signaling/internal/domain"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		id, _ := signal.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": string(id.UserID), "role": string(id.Role)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := authTestRouter()

	expired := func(t *testing.T) string {
		t.Helper()
		claims := TokenClaims{
			ID: "patient-1", FullName: "Alice", Role: "user",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired(t), "", http.StatusUnauthorized},
		{"valid bearer header", "Bearer " + signToken(t, "patient-1", "Alice", "user"), "", http.StatusOK},
		{"valid query token", "", signToken(t, "doctor-1", "Dr. Bob", "doctor"), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/protected"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := authTestRouter()

	claims := TokenClaims{ID: "patient-1", Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// A token with no role claim is a plain patient account.
func TestAuthMiddleware_DefaultRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got domain.Role
	r := gin.New()
	r.GET("/p", AuthMiddleware(testSecret), func(c *gin.Context) {
		id, _ := signal.IdentityFrom(c)
		got = id.Role
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/p?token="+signToken(t, "patient-1", "Alice", ""), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got != domain.RoleUser {
		t.Fatalf("role = %q, want user", got)
	}
}
