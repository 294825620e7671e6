package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestWorkspace(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     int32
	}{
		{"valid header", "42", http.StatusOK, 42},
		{"missing header", "", http.StatusUnauthorized, 0},
		{"not a number", "abc", http.StatusBadRequest, 0},
		{"zero", "0", http.StatusBadRequest, 0},
		{"negative", "-3", http.StatusBadRequest, 0},
		{"overflows int32", "3000000000", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
			if tt.header != "" {
				req.Header.Set(WorkspaceHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var gotID int32
			handler := func(c echo.Context) error {
				gotID = GetWorkspaceID(c)
				return c.NoContent(http.StatusOK)
			}

			if err := Workspace()(handler)(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if gotID != tt.wantID {
				t.Errorf("Expected workspace %d, got %d", tt.wantID, gotID)
			}
		})
	}
}

func TestGetWorkspaceID_NotSet(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if id := GetWorkspaceID(c); id != 0 {
		t.Errorf("Expected 0, got %d", id)
	}
}
