package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, err)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestAbortWithErrorMapsDomainSentinels(t *testing.T) {
	rec := performWithError(t, billingdomain.ErrInvalidAmount)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "invalid_amount" {
		t.Errorf("code = %q, want invalid_amount", code)
	}
}

func TestAbortWithErrorMapsWrappedSentinels(t *testing.T) {
	wrapped := errors.Join(errors.New("apply payment"), billingdomain.ErrLedgerNotInitialized)
	rec := performWithError(t, wrapped)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAbortWithErrorInvalidModelOutputFallsBack(t *testing.T) {
	rec := performWithError(t, insightdomain.ErrInvalidModelOutput)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fallback, got %d", rec.Code)
	}

	var body struct {
		Fallback bool   `json:"fallback"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode fallback body: %v", err)
	}
	if !body.Fallback {
		t.Error("fallback flag should be set")
	}
	if body.Message != insightdomain.FallbackMessage {
		t.Errorf("message = %q, want the fallback message", body.Message)
	}
}

func TestAbortWithErrorValidationErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	err := validator.New().Struct(payload{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	rec := performWithError(t, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code   string `json:"code"`
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "validation_failed" {
		t.Errorf("code = %q, want validation_failed", body.Error.Code)
	}
	if len(body.Error.Fields) != 1 || body.Error.Fields[0].Field != "email" {
		t.Errorf("fields = %+v, want one email entry", body.Error.Fields)
	}
}

func TestAbortWithErrorUnknownErrorIsInternal(t *testing.T) {
	rec := performWithError(t, errors.New("disk on fire"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "internal_error" {
		t.Errorf("code = %q, want internal_error", code)
	}
}
