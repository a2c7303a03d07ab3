package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"intakeflow/internal/domain"
	"intakeflow/internal/middleware"
	"intakeflow/internal/pkg/jwt"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixture, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := setup(t)
	fx.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	fx.mailer.On("SendHotLeadAlert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	jwtService := jwt.New("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(fx.firm.ID, "ops@acme.test")
	require.NoError(t, err)

	r := gin.New()
	dash := r.Group("/api/v1/dashboard", middleware.JWTAuth(jwtService), middleware.OperatorOnly())
	RegisterRoutes(dash, NewHandler(fx.svc))
	return r, fx, token
}

func doRequest(r http.Handler, token, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type listEnvelope struct {
	Data LeadListResponse `json:"data"`
}

type leadEnvelope struct {
	Data  domain.Lead `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestLeadEndpoints_RequireToken(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := doRequest(r, "", http.MethodGet, "/api/v1/dashboard/leads", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLeadEndpoints_ListFiltersAndPaging(t *testing.T) {
	r, fx, token := setupTestRouter(t)
	ctx := context.Background()

	for i, budget := range []domain.Budget{domain.BudgetOver20k, domain.Budget2kTo5k, domain.BudgetUnder2k} {
		at := fixedNow.Add(time.Duration(i) * time.Minute)
		fx.svc.now = func() time.Time { return at }
		_, err := fx.svc.Submit(ctx, draft("California", string(budget), string(domain.Timeline1To3Months)), "acme-immigration")
		require.NoError(t, err)
	}

	rr := doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var list listEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list.Data.Leads, 2)
	assert.Equal(t, int64(3), list.Data.Total)
	assert.Equal(t, domain.TierUnqualified, list.Data.Leads[0].Score)

	rr = doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads?score=hot", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data.Leads, 1)
	assert.Equal(t, domain.TierHot, list.Data.Leads[0].Score)

	rr = doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads?score=lukewarm", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads?status=archived", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestLeadEndpoints_GetAndUpdate(t *testing.T) {
	r, fx, token := setupTestRouter(t)

	lead, err := fx.svc.Submit(context.Background(), draft("Texas", string(domain.Budget2kTo5k), string(domain.Timeline3To6Months)), "acme-immigration")
	require.NoError(t, err)
	path := "/api/v1/dashboard/leads/" + lead.ID.String()

	rr := doRequest(r, token, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var env leadEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, lead.ID, env.Data.ID)
	assert.Equal(t, domain.TierQualified, env.Data.Score)

	rr = doRequest(r, token, http.MethodPatch, path, map[string]string{"status": "scheduled", "notes": "Consult on Friday"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.LeadStatusScheduled, env.Data.Status)
	require.NotNil(t, env.Data.Notes)
	assert.Equal(t, "Consult on Friday", *env.Data.Notes)

	rr = doRequest(r, token, http.MethodPatch, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMPTY_UPDATE")

	rr = doRequest(r, token, http.MethodPatch, path, map[string]string{"status": "won"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_ID")

	rr = doRequest(r, token, http.MethodGet, "/api/v1/dashboard/leads/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// An operator token for one firm never exposes another firm's leads.
func TestLeadEndpoints_ScopedToTokenFirm(t *testing.T) {
	r, fx, _ := setupTestRouter(t)

	lead, err := fx.svc.Submit(context.Background(), draft("Texas", "", ""), "acme-immigration")
	require.NoError(t, err)

	other, err := jwt.New("test-secret", time.Hour).GenerateToken(uuid.New(), "")
	require.NoError(t, err)

	rr := doRequest(r, other, http.MethodGet, "/api/v1/dashboard/leads/"+lead.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(r, other, http.MethodGet, "/api/v1/dashboard/leads", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"total":0`)
}
