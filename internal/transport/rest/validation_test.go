package rest

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateInitiateRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/payments/initiate", strings.NewReader(`{"fee_item_id": 2}`))
	req, err := ValidateInitiateRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.FeeItemID != 2 {
		t.Fatalf("expected fee_item_id 2, got %d", req.FeeItemID)
	}
}

func TestValidateInitiateRequest_Missing(t *testing.T) {
	r := httptest.NewRequest("POST", "/payments/initiate", strings.NewReader(`{}`))
	_, err := ValidateInitiateRequest(r)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "fee_item_id" {
		t.Fatalf("expected fee_item_id field, got %s", ve.Field)
	}
}

func TestValidateInitiateRequest_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/payments/initiate", strings.NewReader(`{`))
	if _, err := ValidateInitiateRequest(r); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateLoginRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"ada@example.com","password":"pw"}`))
	req, err := ValidateLoginRequest(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.Email != "ada@example.com" {
		t.Fatalf("unexpected email %s", req.Email)
	}

	r = httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"","password":"pw"}`))
	var ve *ValidationError
	if _, err := ValidateLoginRequest(r); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty email, got %v", err)
	}
}
