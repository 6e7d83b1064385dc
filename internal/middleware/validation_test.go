package middleware

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

type createPayload struct {
	Name   string   `json:"name" validate:"required"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Images []string `json:"images" validate:"required,min=1"`
}

func TestDecodeAndValidateAcceptsValidPayload(t *testing.T) {
	body := `{"name":"X1","price":10,"images":["a.jpg"]}`
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

	var payload createPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		t.Fatalf("Expected valid payload, got error: %v", err)
	}

	if payload.Name != "X1" {
		t.Errorf("Expected name 'X1', got %q", payload.Name)
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":`))

	var payload createPayload
	if err := DecodeAndValidate(r, &payload); err == nil {
		t.Fatal("Expected decode error for malformed JSON")
	}
}

func TestDecodeAndValidateRejectsMissingRequiredFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"price":10}`))

	var payload createPayload
	err := DecodeAndValidate(r, &payload)
	if err == nil {
		t.Fatal("Expected validation error for missing fields")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d: %v", len(formatted), formatted)
	}
}

func TestDecodeAndValidateZeroPriceIsValid(t *testing.T) {
	// A present zero is not a missing value
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"free","price":0,"images":["a.jpg"]}`))

	var payload createPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		t.Fatalf("Expected zero price to validate, got error: %v", err)
	}
}

func TestDecodeAndValidateRejectsEmptyImages(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"X1","price":10,"images":[]}`))

	var payload createPayload
	err := DecodeAndValidate(r, &payload)
	if err == nil {
		t.Fatal("Expected validation error for empty images")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 1 || formatted[0].Field != "Images" {
		t.Fatalf("Expected one Images error, got %v", formatted)
	}
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`not json`))

	var payload createPayload
	err := DecodeAndValidate(r, &payload)

	if formatted := FormatValidationErrors(err); len(formatted) != 0 {
		t.Errorf("Expected no formatted errors for a decode failure, got %v", formatted)
	}
}
