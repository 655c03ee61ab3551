package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSessionAuthResolvesDoctorID(t *testing.T) {
	doctorID := uuid.New()
	var gotID uuid.UUID
	var gotOK bool
	handler := SessionAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = DoctorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/assistant", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", doctorID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !gotOK || gotID != doctorID {
		t.Fatalf("expected doctor id in context, got %v ok=%v", gotID, gotOK)
	}
}

func TestSessionAuthRejectsMissingHeader(t *testing.T) {
	handler := SessionAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/assistant", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthRejectsWrongSecret(t *testing.T) {
	handler := SessionAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/assistant", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", uuid.NewString()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthRejectsNonUUIDSubject(t *testing.T) {
	handler := SessionAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad subject")
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/assistant", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "not-a-uuid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
