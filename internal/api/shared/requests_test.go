package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Kind  string   `json:"kind" validate:"omitempty,oneof=a b"`
	Items []string `json:"items" validate:"omitempty,min=2"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"test"}`},
		{name: "empty body", body: "", wantErr: ErrEmptyBody.Error()},
		{name: "malformed", body: `{"name":"test",}`, wantErr: "invalid character"},
		{name: "unknown field", body: `{"name":"test","age":3}`, wantErr: "unknown field"},
		{name: "trailing object", body: `{"name":"a"}{"name":"b"}`, wantErr: "single JSON object"},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "test", v.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
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
	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "ok"}))
	assert.Error(t, ValidateRequest(&sampleRequest{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		req  sampleRequest
		want string
	}{
		{name: "required", req: sampleRequest{}, want: "Invalid name: required field"},
		{name: "max", req: sampleRequest{Name: "toolong"}, want: "Invalid name: must have at most 5 items or characters"},
		{name: "oneof", req: sampleRequest{Name: "x", Kind: "c"}, want: "Invalid kind: must be one of a b"},
		{name: "min", req: sampleRequest{Name: "x", Items: []string{"1"}}, want: "Invalid items: must have at least 2 items or characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidationMessage(ValidateRequest(&tt.req)))
		})
	}

	assert.Equal(t, "Validation error", ValidationMessage(assert.AnError))
}
