package tracking_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"giftfinder/internal/database/testdb"
	"giftfinder/internal/domain"
	"giftfinder/internal/domain/tracking"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	svc := tracking.NewService(tracking.NewRepository(db), tracking.NopCache{}, nil, zerolog.Nop(), tracking.Options{})

	r := gin.New()
	tracking.RegisterRoutes(r.Group("/api"), tracking.NewHandler(svc))
	return r, db
}

func seedLink(t *testing.T, db *gorm.DB, active bool) *domain.AffiliateLink {
	t.Helper()
	product := testdb.MustCreate(t, db, &domain.Product{
		ID:       "11111111-1111-1111-1111-111111111111",
		Name:     "Ceramic Teapot",
		Price:    40,
		Currency: "USD",
	})
	return testdb.MustCreate(t, db, &domain.AffiliateLink{
		ID:             "22222222-2222-2222-2222-222222222222",
		ProductID:      product.ID,
		Network:        "awin",
		URL:            "https://shop.example/teapot?aff=gf",
		CommissionRate: 0.1,
		Active:         active,
	})
}

func doRequest(r http.Handler, method, path string, body any, ip, referer string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.RemoteAddr = ip + ":40000"
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestRecordClick(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	rr, env := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, map[string]any{"searchId": "s-1"}, "10.0.0.1", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var click tracking.ClickResponse
	require.NoError(t, json.Unmarshal(env.Data, &click))
	assert.Len(t, click.ClickID, 26)
	assert.Equal(t, link.URL, click.RedirectURL)
	assert.Equal(t, link.ProductID, click.ProductID)
	assert.False(t, click.Duplicate)

	var stored tracking.Click
	require.NoError(t, db.First(&stored, "id = ?", click.ClickID).Error)
	assert.Equal(t, "s-1", stored.SearchID)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
}

func TestRecordClick_WithoutBody(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	rr, _ := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, nil, "10.0.0.1", "")
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestRecordClick_UnknownOrInactiveLink(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, false)

	rr, env := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, nil, "10.0.0.1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "LINK_NOT_FOUND", env.Error.Code)

	rr, env = doRequest(r, http.MethodPost, "/api/tracking/click/does-not-exist", nil, "10.0.0.1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "LINK_NOT_FOUND", env.Error.Code)
}

func TestRecordConversion(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	_, env := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, nil, "10.0.0.1", "")
	var click tracking.ClickResponse
	require.NoError(t, json.Unmarshal(env.Data, &click))

	body := map[string]any{"clickId": click.ClickID, "orderId": "A-1001", "orderValue": 40}
	rr, env := doRequest(r, http.MethodPost, "/api/tracking/conversion", body, "", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var conv tracking.Conversion
	require.NoError(t, json.Unmarshal(env.Data, &conv))
	assert.Equal(t, 4.0, conv.Commission)
	assert.Equal(t, "USD", conv.Currency)
	assert.Equal(t, link.ID, conv.LinkID)

	rr, env = doRequest(r, http.MethodPost, "/api/tracking/conversion", body, "", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "DUPLICATE_CONVERSION", env.Error.Code)
}

func TestRecordConversion_Validation(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, env := doRequest(r, http.MethodPost, "/api/tracking/conversion", map[string]any{"orderValue": -1}, "", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "clickId")
	assert.Contains(t, env.Error.Details, "orderId")
	assert.Equal(t, "gte", env.Error.Details["orderValue"])

	req := httptest.NewRequest(http.MethodPost, "/api/tracking/conversion", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	r.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestRecordConversion_UnknownClick(t *testing.T) {
	r, _ := setupTestRouter(t)

	body := map[string]any{"clickId": "01HZX3Q4S5T6V7W8X9Y0Z1A2B3", "orderId": "A-1", "orderValue": 10}
	rr, env := doRequest(r, http.MethodPost, "/api/tracking/conversion", body, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "CLICK_NOT_FOUND", env.Error.Code)
}

func TestGetStats(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	var firstClick tracking.ClickResponse
	for i, visit := range []struct{ ip, referer string }{
		{"10.0.0.1", "https://blog.example/gift-guide"},
		{"10.0.0.2", "https://blog.example/gift-guide"},
		{"10.0.0.1", "https://search.example/"},
	} {
		rr, env := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, nil, visit.ip, visit.referer)
		require.Equal(t, http.StatusCreated, rr.Code)
		if i == 0 {
			require.NoError(t, json.Unmarshal(env.Data, &firstClick))
		}
	}
	// duplicates are stored but excluded from totals
	_, err := testdb.Create(context.Background(), db, &tracking.Click{
		ID:        "01HZX3Q4S5T6V7W8X9Y0Z1DUPE",
		LinkID:    link.ID,
		ProductID: link.ProductID,
		IPAddress: "10.0.0.1",
		Referer:   "https://search.example/",
		Duplicate: true,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	body := map[string]any{"clickId": firstClick.ClickID, "orderId": "A-1", "orderValue": 25.5}
	rr, _ := doRequest(r, http.MethodPost, "/api/tracking/conversion", body, "", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := doRequest(r, http.MethodGet, "/api/tracking/stats/"+link.ProductID, nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var stats tracking.ProductStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(3), stats.TotalClicks)
	assert.Equal(t, int64(1), stats.DuplicateClicks)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.Conversions)
	assert.InDelta(t, 1.0/3.0, stats.ConversionRate, 0.0001)
	assert.Equal(t, 25.5, stats.Revenue)
	assert.Equal(t, 2.55, stats.Commission)

	require.Len(t, stats.Daily, 1)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), stats.Daily[0].Date)
	assert.Equal(t, int64(3), stats.Daily[0].Clicks)
	assert.Equal(t, int64(1), stats.Daily[0].Conversions)

	require.Len(t, stats.TopReferers, 2)
	assert.Equal(t, tracking.RefererStat{Referer: "https://blog.example/gift-guide", Clicks: 2}, stats.TopReferers[0])
	assert.Equal(t, tracking.RefererStat{Referer: "https://search.example/", Clicks: 1}, stats.TopReferers[1])
}

func TestGetStats_RangeExcludesOtherDays(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	rr, _ := doRequest(r, http.MethodPost, "/api/tracking/click/"+link.ID, nil, "10.0.0.1", "")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := doRequest(r, http.MethodGet, "/api/tracking/stats/"+link.ProductID+"?from=2001-01-01&to=2001-01-31", nil, "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var stats tracking.ProductStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Zero(t, stats.TotalClicks)
	assert.Zero(t, stats.ConversionRate)
	assert.Empty(t, stats.Daily)
	assert.Empty(t, stats.TopReferers)
}

func TestGetStats_Errors(t *testing.T) {
	r, db := setupTestRouter(t)
	link := seedLink(t, db, true)

	rr, env := doRequest(r, http.MethodGet, "/api/tracking/stats/unknown-product", nil, "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error.Code)

	rr, env = doRequest(r, http.MethodGet, "/api/tracking/stats/"+link.ProductID+"?from=2026-02-10&to=2026-02-01", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_RANGE", env.Error.Code)
}
