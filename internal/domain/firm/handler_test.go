package firm

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intakeflow/internal/middleware"
	"intakeflow/internal/pkg/jwt"
)

func TestSettingsEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	f := createAcme(t, svc)

	jwtService := jwt.New("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(f.ID, "")
	require.NoError(t, err)

	r := gin.New()
	dash := r.Group("/api/v1/dashboard", middleware.JWTAuth(jwtService))
	RegisterRoutes(dash, NewHandler(svc))

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodGet, "/api/v1/dashboard/settings", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"intake_url":"https://intake.example.com/intake/acme-immigration"`)

	rr = do(http.MethodPut, "/api/v1/dashboard/settings", map[string]any{"service_states": []string{"Gondor"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")

	rr = do(http.MethodPut, "/api/v1/dashboard/settings", map[string]any{"min_budget": 10000})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"min_budget":10000`)

	_, err = svc.Create(t.Context(), CreateFirmRequest{Name: "Other", Slug: "other-firm", Email: "o@o.test"})
	require.NoError(t, err)
	rr = do(http.MethodPut, "/api/v1/dashboard/settings", map[string]any{"firm_slug": "other-firm"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "SLUG_TAKEN")
}
