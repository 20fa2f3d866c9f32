package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/config"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/infrastructure/draftstore"
	"github.com/sangkips/atelier-api/internal/presentation/http/handler"
	"github.com/sangkips/atelier-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type productRepo struct {
	repository.ProductRepository
	products map[uuid.UUID]entity.Product
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type saleRepo struct {
	repository.SaleRepository
	mu    sync.Mutex
	sales map[uuid.UUID]entity.Sale
}

func (r *saleRepo) Create(ctx context.Context, s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = *s
	return nil
}

func (r *saleRepo) Replace(ctx context.Context, s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales[s.ID] = *s
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *saleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

type customerRepo struct {
	repository.CustomerRepository
}

func (customerRepo) All(ctx context.Context) ([]entity.Customer, error) { return nil, nil }

type subscriberRepo struct {
	repository.SubscriberRepository
}

func (subscriberRepo) ListActive(ctx context.Context, ids []uuid.UUID) ([]entity.Subscriber, error) {
	return nil, nil
}

type idempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

func (r *idempotencyRepo) GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[clientID+"|"+key]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (r *idempotencyRepo) Create(ctx context.Context, k *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k.ClientID+"|"+k.Key] = *k
	return nil
}

func (r *idempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

type testServer struct {
	router *gin.Engine
	ring   uuid.UUID
	sales  *saleRepo
}

func newTestServer(t *testing.T, requestsPerMinute int) *testServer {
	t.Helper()
	log := zap.NewNop()

	ring := entity.Product{
		ID:            uuid.New(),
		Name:          "Altın yüzük",
		Code:          "PRD-RING",
		SalePrice:     decimal.NewFromInt(1000),
		PurchasePrice: decimal.NewFromInt(600),
		IsActive:      true,
	}
	products := &productRepo{products: map[uuid.UUID]entity.Product{ring.ID: ring}}
	sales := &saleRepo{sales: map[uuid.UUID]entity.Sale{}}

	contacts := service.NewContactService(customerRepo{}, subscriberRepo{}, 5, log)
	saleService := service.NewSaleService(sales, products, 18, "SAT", log)
	draftService := service.NewDraftService(draftstore.NewMemoryStore(0), products, contacts, saleService, 18, log)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "atelier-api"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{Requests: requestsPerMinute, Duration: 60},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := Setup(ctx, &Handlers{
		Product:  handler.NewProductHandler(service.NewProductService(products)),
		Contact:  handler.NewContactHandler(contacts, 0, nil, log),
		Sale:     handler.NewSaleHandler(saleService),
		Draft:    handler.NewDraftHandler(draftService),
		Receipt:  handler.NewReceiptHandler(service.NewReceiptService(sales, printer.Discard{}, 32, "Atelier", "", log)),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(customerRepo{})),
	}, &Deps{
		Cfg:             cfg,
		IdempotencyRepo: &idempotencyRepo{keys: map[string]entity.IdempotencyKey{}},
		Log:             log,
	})

	return &testServer{router: router, ring: ring.ID, sales: sales}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, header ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDraftFlow(t *testing.T) {
	s := newTestServer(t, 100)

	rec, env := s.do(t, http.MethodPost, "/api/sales/drafts", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var draft struct {
		ID     string `json:"id"`
		Totals struct {
			SubTotal    float64 `json:"subTotal"`
			TaxAmount   float64 `json:"taxAmount"`
			TotalAmount float64 `json:"totalAmount"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.NotEmpty(t, draft.ID)
	base := "/api/sales/drafts/" + draft.ID

	rec, _ = s.do(t, http.MethodPost, base+"/items", map[string]interface{}{"productId": uuid.NewString(), "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodPost, base+"/items", map[string]interface{}{"productId": s.ring.String(), "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, 2000.0, draft.Totals.SubTotal)
	assert.Equal(t, 360.0, draft.Totals.TaxAmount)
	assert.Equal(t, 2360.0, draft.Totals.TotalAmount)

	rec, env = s.do(t, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Errors)
	assert.Equal(t, 0, s.sales.count())

	rec, _ = s.do(t, http.MethodPut, base+"/tab", map[string]string{"tab": "payment"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPut, base+"/basic", map[string]string{"customerName": "Ayşe Yılmaz"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sale struct {
		ID          uuid.UUID `json:"id"`
		SaleNo      string    `json:"saleNo"`
		TotalAmount float64   `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sale))
	assert.NotEmpty(t, sale.SaleNo)
	assert.Equal(t, 2360.0, sale.TotalAmount)
	assert.Equal(t, 1, s.sales.count())

	rec, _ = s.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/sales/"+sale.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/sales/"+sale.ID.String()+"/receipt", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDraftRejectsUnknownTab(t *testing.T) {
	s := newTestServer(t, 100)

	_, env := s.do(t, http.MethodPost, "/api/sales/drafts", nil)
	var draft struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))

	rec, _ := s.do(t, http.MethodPut, "/api/sales/drafts/"+draft.ID+"/tab", map[string]string{"tab": "shipping"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/sales/drafts/"+draft.ID+"/items/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSaleIsIdempotent(t *testing.T) {
	s := newTestServer(t, 100)
	body := map[string]interface{}{
		"customerName": "Mehmet Demir",
		"items":        []map[string]interface{}{{"product": s.ring.String(), "quantity": 1}},
	}

	first, env := s.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var sale struct {
		SaleNo string `json:"saleNo"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sale))

	second, env := s.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	var replayed struct {
		SaleNo string `json:"saleNo"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &replayed))
	assert.Equal(t, sale.SaleNo, replayed.SaleNo)
	assert.Equal(t, 1, s.sales.count())

	body["customerName"] = "Someone Else"
	third, _ := s.do(t, http.MethodPost, "/api/sales", body, "Idempotency-Key", "till-1-0001")
	assert.Equal(t, http.StatusUnprocessableEntity, third.Code)
	assert.Equal(t, 1, s.sales.count())
}

func TestCreateSaleValidation(t *testing.T) {
	s := newTestServer(t, 100)

	rec, env := s.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
		"customerName":  "Mehmet Demir",
		"customerEmail": "not-an-email",
		"items":         []map[string]interface{}{{"product": s.ring.String(), "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "customerEmail", env.Errors[0].Field)
	assert.Equal(t, 0, s.sales.count())
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	for range 2 {
		rec, _ := s.do(t, http.MethodGet, "/api/sales/drafts/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec, _ := s.do(t, http.MethodGet, "/api/sales/drafts/missing", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	health := httptest.NewRecorder()
	s.router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}
