package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"github.com/Tharnickanth/credit-ratings-model-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestRespondError(t *testing.T) {
	immutable := &services.StateConflictError{
		Resource: "assessment template", ID: "t1", Current: "approved", Action: "edit",
		Err: &services.ValidationError{Message: "approved template cannot be edited"},
	}

	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"validation", &services.ValidationError{Message: "unanswered questions", Fields: []string{"q1"}}, http.StatusBadRequest, response.CodeValidation},
		{"not found", &services.NotFoundError{Resource: "customer assessment", ID: "a1"}, http.StatusNotFound, response.CodeNotFound},
		{"state conflict", &services.StateConflictError{Resource: "customer assessment", ID: "a1", Current: "approved", Action: "approve"}, http.StatusConflict, response.CodeStateConflict},
		{"immutable template", immutable, http.StatusConflict, response.CodeStateConflict},
		{"dependency", &services.DependencyError{Dependency: "customer directory", Err: errors.New("timeout")}, http.StatusServiceUnavailable, response.CodeDependency},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, response.CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, expected %d", w.Code, tt.status)
			}
			if resp := decodeResponse(t, w); resp.Code != tt.code {
				t.Errorf("code = %d, expected %d", resp.Code, tt.code)
			}
		})
	}
}

func TestRespondError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, &services.ValidationError{Message: "unanswered questions", Fields: []string{"q1", "q3"}})

	var data struct {
		Fields []string `json:"fields"`
	}
	if err := json.Unmarshal(decodeResponse(t, w).Data, &data); err != nil {
		t.Fatalf("invalid data: %v", err)
	}
	if len(data.Fields) != 2 || data.Fields[0] != "q1" || data.Fields[1] != "q3" {
		t.Errorf("fields = %v, expected [q1 q3]", data.Fields)
	}
}
