package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
	"github.com/pageza/coffeeshop/backend/internal/mocks"
	"github.com/pageza/coffeeshop/backend/internal/testhelpers"
	"github.com/pageza/coffeeshop/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T, auth *testhelpers.TestAuth) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", middleware.RequiresAuth(auth.Service, "get:drinks-detail"), func(c *gin.Context) {
		claims, ok := middleware.GetClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"subject":     middleware.GetSubject(c),
			"permissions": claims.Permissions,
		})
	})
	return router
}

func TestRequiresAuth(t *testing.T) {
	auth := testhelpers.NewTestAuth(t)
	router := setupAuthRouter(t, auth)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: types.CodeHeaderMissing},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: types.CodeInvalidHeader},
		{name: "no token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantCode: types.CodeInvalidHeader},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantCode: types.CodeInvalidHeader},
		{name: "too many parts", header: "Bearer a b", wantStatus: http.StatusUnauthorized, wantCode: types.CodeInvalidHeader},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantCode: types.CodeMalformedToken},
		{name: "no permissions claim", header: "Bearer " + auth.Token(t), wantStatus: http.StatusForbidden, wantCode: types.CodePermissionsMissing},
		{name: "permission not granted", header: "Bearer " + auth.Token(t, "get:drinks"), wantStatus: http.StatusForbidden, wantCode: types.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantStatus, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRequiresAuth_Granted(t *testing.T) {
	auth := testhelpers.NewTestAuth(t)
	router := setupAuthRouter(t, auth)

	for _, scheme := range []string{"Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", scheme+" "+auth.Token(t, "get:drinks", "get:drinks-detail"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"subject":"auth0|test-user","permissions":["get:drinks","get:drinks-detail"]}`, w.Body.String())
	}
}

func TestRequiresAuth_ValidatorFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := new(mocks.MockAuthService)
	validator.On("ValidateToken", mock.Anything, "opaque").Return(nil, errors.New("unexpected"))

	router := gin.New()
	router.GET("/protected", middleware.RequiresAuth(validator, "get:drinks"), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer opaque")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.CodeMalformedToken, resp.Code)
	validator.AssertExpectations(t)
}
