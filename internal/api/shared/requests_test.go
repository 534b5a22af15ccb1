package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name   string `json:"name"`
		Rating int    `json:"rating_value"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"Corner Bakery","rating_value":4}`},
		{name: "trailing comma", body: `{"name":"x",}`, wantErr: true},
		{name: "empty body", body: "", wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(tc.body))
			var got payload

			err := DecodeJSON(req, &got)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, payload{Name: "Corner Bakery", Rating: 4}, got)
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)

	type tagged struct {
		Email string `validate:"required,email"`
	}
	assert.NoError(t, ValidateRequest(&tagged{Email: "a@b.co"}))
	assert.Error(t, ValidateRequest(&tagged{Email: "nope"}))
}
