package lib

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1,max=100"`
}

type orderRequest struct {
	Name  string        `json:"name" validate:"max=5"`
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
}

func TestExtractAndValidateBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantValid bool
		contains  string
	}{
		{name: "valid body", body: `{"name":"Jan","items":[{"product_id":1,"quantity":2}]}`},
		{name: "malformed json", body: `{"name":`, wantErr: true, contains: "not valid JSON"},
		{name: "unknown field", body: `{"name":"Jan","extra":1,"items":[{"product_id":1,"quantity":1}]}`, wantErr: true, contains: "not valid JSON"},
		{name: "missing items", body: `{"name":"Jan"}`, wantErr: true, wantValid: true, contains: "items is required"},
		{name: "name too long", body: `{"name":"Johannes","items":[{"product_id":1,"quantity":1}]}`, wantErr: true, wantValid: true, contains: "name must be at most 5 characters"},
		{name: "quantity too high", body: `{"items":[{"product_id":1,"quantity":101}]}`, wantErr: true, wantValid: true, contains: "quantity must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/orders", strings.NewReader(tt.body))

			body, err := ExtractAndValidateBody[orderRequest](req)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, body.Items, 1)
				return
			}

			require.Error(t, err)
			assert.Nil(t, body)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.contains)

			var ve *ValidationError
			assert.Equal(t, tt.wantValid, errors.As(err, &ve))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be greater than 0"},
	}}
	assert.Equal(t, "name is required; price must be greater than 0", err.Error())
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
