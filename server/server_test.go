package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/services"
)

func testServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	os.Setenv("GIN_MODE", "test")
	gin.SetMode(gin.TestMode)

	conf := &config.Config{DataDir: t.TempDir(), PublicDir: t.TempDir()}
	session := services.NewSession()
	session.ReplaceCities(map[string]*models.City{
		"curitiba": {Nome: "Curitiba", Habitantes: 1963726, Partido: "PSD"},
		"londrina": {Nome: "Londrina", Habitantes: 575377, Partido: "PT"},
	})
	session.ReplaceCampaign(map[string]models.CampaignTotals{
		"curitiba": {Votes: 100, Money: 5000},
	})

	s := &Server{
		Config:         conf,
		Session:        session,
		LoaderService:  services.NewDataLoader(nil, nil, nil, nil, conf),
		EnrichService:  services.NewEnrichService(),
		HeatmapService: services.NewHeatmapService(),
		FilterService:  services.NewFilterService(),
		ImportService:  services.NewImportService(nil, nil, nil),
		ExportService:  services.NewExportService(),
		ChatService:    services.NewChatService(conf),
		SyncService:    services.NewSyncService(nil, conf),
	}
	router := gin.New()
	s.defineRoutes(router)
	return s, router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetCidades(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/data/cidades", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.Contains(t, data, "curitiba")
	assert.Contains(t, data, "londrina")
}

func TestGetCampaignData(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/campaign/data", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	curitiba := data["curitiba"].(map[string]interface{})
	assert.EqualValues(t, 100, curitiba["votes"])
}

func TestMapColorsPartyMode(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/map/colors?mode=party", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	colors := data["colors"].(map[string]interface{})
	assert.Equal(t, "#F59E0B", colors["curitiba"])
	assert.Equal(t, "#DC2626", colors["londrina"])
}

func TestMapColorsInvalidMode(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/map/colors?mode=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignUpdateRequiresCitySlug(t *testing.T) {
	// No JWT secret configured: caller is the local admin, so the request
	// reaches the handler and fails validation instead of auth.
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/campaign/update", `{"votes": 10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampaignUpdateUpsertsSession(t *testing.T) {
	s, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/campaign/update",
		`{"city_slug":"londrina","votes":42,"money":1234.5}`)
	require.Equal(t, http.StatusOK, w.Code)

	totals := s.Session.Totals("londrina")
	assert.Equal(t, 42, totals.Votes)
	assert.InDelta(t, 1234.5, totals.Money, 1e-9)
}

func TestCampaignUpdateBulk(t *testing.T) {
	s, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/campaign/update_bulk",
		`{"items":[{"city_slug":"curitiba","votes":1,"money":2},{"city_slug":"londrina","votes":3,"money":4}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.Session.Totals("curitiba").Votes)
	assert.Equal(t, 3, s.Session.Totals("londrina").Votes)
}

func TestCampaignUpdateBulkRejectsEmpty(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/campaign/update_bulk", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthorizeRejectsBadTokenWhenSecretSet(t *testing.T) {
	s, router := testServer(t)
	s.Config.JWTSecret = "segredo"

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/votos", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteVotosClearsSession(t *testing.T) {
	s, router := testServer(t)
	s.Session.ReplaceVotes(map[string][]models.VoteEntry{
		"curitiba": {{Ano: 2020, Votos: 100}},
	})

	w := do(router, http.MethodDelete, "/api/v1/votos", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Session.Votes())
	assert.Equal(t, 0, s.Session.Totals("curitiba").Votes)
	// Money is kept; it rebuilds from investments, not votes.
	assert.InDelta(t, 5000, s.Session.Totals("curitiba").Money, 1e-9)
}

func TestSaveVotosReplacesCollection(t *testing.T) {
	s, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/votos/save",
		`{"votos":{"curitiba":[{"ano":2022,"votos":777}]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	votes := s.Session.Votes()
	require.Len(t, votes["curitiba"], 1)
	assert.Equal(t, 777, votes["curitiba"][0].Votos)
}

func TestImportVotosRequiresFile(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/import/votos", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	s, router := testServer(t)
	s.Session.ReplaceInvestments([]models.InvestmentRecord{
		{CityID: "curitiba", Ano: 2022, Valor: 1000},
	})

	w := do(router, http.MethodGet, "/api/v1/analytics/dashboard?ano=2022", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1000, data["total_invested"])
}

func TestSummaryEndpoint(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/analytics/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["count"])
}

func TestExportExcelEndpoint(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/export_excel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Resumo_Campanha_Parana.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestChatWithoutKeyReturnsFallback(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/chat", `{"message":"Como estão os votos?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.Contains(t, data["response"], "API Key da OpenAI")
}

func TestSyncWithoutScraperURL(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/sync/ibge", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSyncInvalidTarget(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/sync/everything", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminMeLocalAdmin(t *testing.T) {
	_, router := testServer(t)
	w := do(router, http.MethodGet, "/api/v1/admin/me", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := envelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "ADMIN", data["role"])
}

func TestMapSourceSwitchResetsFilters(t *testing.T) {
	s, router := testServer(t)
	w := do(router, http.MethodPost, "/api/v1/map/filters", `{"ano":"2022","area":"Saúde","tipo":"Emenda"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, "/api/v1/map/source", `{"source":"votes"}`)
	require.Equal(t, http.StatusOK, w.Code)

	state := s.FilterService.State()
	assert.Equal(t, "votes", state.Source)
	assert.Equal(t, "all", state.Filters.Area)
	assert.Equal(t, "all", state.Filters.Tipo)
	assert.Equal(t, "2022", state.Filters.Ano)
}
