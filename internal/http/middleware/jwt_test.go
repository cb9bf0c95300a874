package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

func jwtTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": uid})
	})
	return r
}

func TestJWT_MissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWT_BadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWT_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()
	r := jwtTestRouter()

	token, err := service.GenerateJWT(17)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
