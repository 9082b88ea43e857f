package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/response"
)

// fakeInvalid mimics service aggregated validation error to test mapping without reaching into internals.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", &fakeInvalid{fe: []service.FieldError{{Field: "name", Message: "bad"}}}, 400, "invalid_input"},
		{"field_not_found", fmt.Errorf("%w: %q", query.ErrFieldNotFound, "Colour"), 400, "field_not_found"},
		{"invalid_argument", query.ErrInvalidArgument, 400, "invalid_argument"},
		{"type_mismatch", query.ErrTypeMismatch, 400, "type_mismatch"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists"},
		{"conflict", repository.ErrConflict, 409, "conflict"},
		{"constraint", fmt.Errorf("%w: products_price_check", repository.ErrConstraint), 400, "constraint_violation"},
		{"canceled", fmt.Errorf("list products: %w", context.Canceled), 499, "client_closed_request"},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), 504, "timeout"},
		{"internal", errors.New("boom"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantErr, payload.Code)
			if tc.wantErr == "invalid_input" {
				assert.NotEmpty(t, payload.FieldErrors)
			}
		})
	}
}

func TestMapError_FieldNotFoundMessageNamesField(t *testing.T) {
	_, payload := response.MapError(fmt.Errorf("%w: %q", query.ErrFieldNotFound, "Colour"))
	assert.Contains(t, payload.Message, "Colour")
}

func TestWriteError_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.WriteError(c, repository.ErrNotFound)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)
	assert.Nil(t, env.Data)
}

func TestWriteError_CanceledIsNotRecordedAsServerFault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.WriteError(c, context.Canceled)

	assert.Equal(t, response.StatusClientClosedRequest, w.Code)
	assert.Empty(t, c.Errors)
}

func TestWriteData_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.WriteMessage(c, http.StatusCreated, "saved", map[string]int{"id": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"saved","data":{"id":1}}`, w.Body.String())
}
