package shared

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		target      interface{}
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"name": "test", "age": 30}`,
			target: &struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}{},
			wantErr: false,
		},
		{
			name:        "invalid json",
			requestBody: `{"name": "test", "age": 30,}`, // trailing comma
			target:      &struct{}{},
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "empty body",
			requestBody: "",
			target:      &struct{}{},
			wantErr:     true,
			errContains: "EOF",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Create request with body
			req := httptest.NewRequest(
				http.MethodPost,
				"/test",
				bytes.NewBufferString(tc.requestBody),
			)

			// Call function
			err := DecodeJSON(req, tc.target)

			// Check result
			if tc.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
			} else {
				assert.NoError(t, err)

				// For valid JSON case, check that the target was populated correctly
				if tc.name == "valid json" {
					data := tc.target.(*struct {
						Name string `json:"name"`
						Age  int    `json:"age"`
					})
					assert.Equal(t, "test", data.Name)
					assert.Equal(t, 30, data.Age)
				}
			}
		})
	}
}

// Mock for http.Request that will return a read error
type errorReader struct{}

func (er errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	// Create request with a body that will error on read
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	// Call function
	var target struct{}
	err := DecodeJSON(req, &target)

	// Check result
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))

	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &target)

	assert.Error(t, err)
}

type generateBody struct {
	Topic    string `json:"topic" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type selfValidating struct {
	Name string
}

func (v *selfValidating) Validate() error {
	if v.Name == "invalid" {
		return &validator.ValidationErrors{}
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{name: "self validating ok", req: &selfValidating{Name: "test"}},
		{name: "self validating invalid", req: &selfValidating{Name: "invalid"}, wantErr: true},
		{name: "struct tags ok", req: &generateBody{Topic: "robots", Category: "fun"}},
		{name: "struct tags missing topic", req: &generateBody{Category: "fun"}, wantErr: true},
		{name: "no rules", req: &struct{ Name string }{"test"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
