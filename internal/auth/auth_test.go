package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func TestGenerateToken(t *testing.T) {
	secret := "test-secret-key"
	userID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	signed, expiresAt, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Error("token expires too soon")
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse JWT: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected MapClaims")
	}
	if sub, _ := claims["sub"].(string); sub != userID {
		t.Errorf("expected sub=%s, got=%s", userID, sub)
	}
	if uid, _ := claims["user_id"].(string); uid != userID {
		t.Errorf("expected user_id=%s, got=%s", userID, uid)
	}
	if exp, _ := claims["exp"].(float64); exp == 0 {
		t.Fatal("expected non-zero exp")
	}
}

func TestGenerateTokenValidation(t *testing.T) {
	if _, _, err := GenerateToken("", "secret", time.Hour); err == nil {
		t.Error("expected error for empty user id")
	}
	if _, _, err := GenerateToken("u1", "", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestUserIDFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	t.Run("missing token", func(t *testing.T) {
		c := e.NewContext(req, rec)
		if _, err := UserIDFromContext(c); err == nil {
			t.Fatal("expected error without token")
		}
	})

	t.Run("user_id claim", func(t *testing.T) {
		c := e.NewContext(req, rec)
		c.Set(ContextKey, jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":     "ignored",
			"user_id": "u-123",
		}))
		got, err := UserIDFromContext(c)
		if err != nil {
			t.Fatalf("UserIDFromContext returned error: %v", err)
		}
		if got != "u-123" {
			t.Errorf("got %q, want u-123", got)
		}
	})

	t.Run("falls back to sub", func(t *testing.T) {
		c := e.NewContext(req, rec)
		c.Set(ContextKey, jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u-456",
		}))
		got, err := UserIDFromContext(c)
		if err != nil {
			t.Fatalf("UserIDFromContext returned error: %v", err)
		}
		if got != "u-456" {
			t.Errorf("got %q, want u-456", got)
		}
	})

	t.Run("no id claims", func(t *testing.T) {
		c := e.NewContext(req, rec)
		c.Set(ContextKey, jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}))
		if _, err := UserIDFromContext(c); err == nil {
			t.Fatal("expected error without id claims")
		}
	})
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	secret := "middleware-secret"
	signed, _, err := GenerateToken("u-789", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	e := echo.New()
	e.Use(JWTMiddleware(secret, nil))
	e.GET("/whoami", func(c echo.Context) error {
		userID, err := UserIDFromContext(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, userID)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "u-789" {
		t.Errorf("body = %q, want u-789", rec.Body.String())
	}

	// no token
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 400 or 401", rec.Code)
	}
}
