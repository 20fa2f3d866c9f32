package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"github.com/sangkips/atelier-api/pkg/whatsapp"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) find(match func(*entity.Product) bool) *entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (r *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.Slug == slug }), nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.find(func(p *entity.Product) bool { return p.Code == code }), nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.Create(ctx, p)
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers []entity.Customer
	err       error
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers = append(r.customers, *c)
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	for i := range r.customers {
		if r.customers[i].ID == id {
			cp := r.customers[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	for i := range r.customers {
		if e := r.customers[i].Email; e != nil && strings.EqualFold(*e, email) {
			cp := r.customers[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = *c
		}
	}
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.Params, search string) ([]entity.Customer, int64, error) {
	return r.customers, int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) All(ctx context.Context) ([]entity.Customer, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.customers, nil
}

type fakeSubscriberRepo struct {
	mu          sync.Mutex
	subscribers []entity.Subscriber
	err         error
}

func (r *fakeSubscriberRepo) Create(ctx context.Context, s *entity.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.subscribers = append(r.subscribers, *s)
	return nil
}

func (r *fakeSubscriberRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subscribers {
		if r.subscribers[i].ID == id {
			cp := r.subscribers[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriberRepo) GetByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subscribers {
		if e := r.subscribers[i].Email; e != nil && strings.EqualFold(*e, email) {
			cp := r.subscribers[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriberRepo) Update(ctx context.Context, s *entity.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subscribers {
		if r.subscribers[i].ID == s.ID {
			r.subscribers[i] = *s
		}
	}
	return nil
}

func (r *fakeSubscriberRepo) List(ctx context.Context, params *repository.SubscriberFilterParams) ([]entity.Subscriber, int64, error) {
	return r.subscribers, int64(len(r.subscribers)), nil
}

func (r *fakeSubscriberRepo) ListActive(ctx context.Context, ids []uuid.UUID) ([]entity.Subscriber, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.Subscriber
	for _, s := range r.subscribers {
		if s.IsActive && (len(ids) == 0 || want[s.ID]) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]entity.Sale
	err   error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[uuid.UUID]entity.Sale{}}
}

func (r *fakeSaleRepo) store(s *entity.Sale) {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	for i := range cp.Items {
		if cp.Items[i].ID == uuid.Nil {
			cp.Items[i].ID = uuid.New()
		}
		cp.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = cp
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.store(s)
	return nil
}

func (r *fakeSaleRepo) Replace(ctx context.Context, s *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.store(s)
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s, nil
}

func (r *fakeSaleRepo) GetBySaleNo(ctx context.Context, saleNo string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.SaleNo == saleNo {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

type fakeAnalyticsRepo struct {
	days       []repository.DailyProfitRow
	top        []repository.TopProductRow
	start, end time.Time
}

func (r *fakeAnalyticsRepo) DailyProfit(ctx context.Context, start, end time.Time) ([]repository.DailyProfitRow, error) {
	r.start, r.end = start, end
	return r.days, nil
}

func (r *fakeAnalyticsRepo) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductRow, error) {
	return r.top, nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]entity.Campaign
	updates   int
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[uuid.UUID]entity.Campaign{}}
}

func (r *fakeCampaignRepo) Create(ctx context.Context, c *entity.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.campaigns[c.ID] = *c
	return nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, c *entity.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.campaigns[c.ID] = *c
	return nil
}

func (r *fakeCampaignRepo) MarkSending(ctx context.Context, id uuid.UUID, recipients int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || (c.Status != enum.CampaignStatusDraft && c.Status != enum.CampaignStatusFailed) {
		return false, nil
	}
	c.Status = enum.CampaignStatusSending
	c.RecipientCount = recipients
	r.campaigns[id] = c
	return true, nil
}

func (r *fakeCampaignRepo) List(ctx context.Context, params *pagination.Params) ([]entity.Campaign, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Campaign
	for _, c := range r.campaigns {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type fakeMailer struct {
	mu         sync.Mutex
	configured bool
	fail       map[string]bool
	sent       map[string]string
	calls      int
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{configured: true, fail: map[string]bool{}, sent: map[string]string{}}
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail[to] {
		return errors.New("mailbox unavailable")
	}
	m.sent[to] = body
	return nil
}

type fakeTemplateSender struct {
	mu         sync.Mutex
	configured bool
	fail       map[string]bool
	messages   []whatsapp.TemplateMessage
}

func newFakeTemplateSender() *fakeTemplateSender {
	return &fakeTemplateSender{configured: true, fail: map[string]bool{}}
}

func (f *fakeTemplateSender) Configured() bool { return f.configured }

func (f *fakeTemplateSender) SendTemplate(ctx context.Context, msg whatsapp.TemplateMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[msg.To] {
		return "", &whatsapp.APIError{StatusCode: 400, Code: 131026, Message: "message undeliverable"}
	}
	f.messages = append(f.messages, msg)
	return "wamid." + msg.To, nil
}

func strPtr(s string) *string { return &s }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ring(price, cost string) *entity.Product {
	return &entity.Product{
		ID:            uuid.New(),
		Name:          "Gold Ring",
		Slug:          "gold-ring",
		Code:          "PRD-RING",
		SalePrice:     money(price),
		PurchasePrice: money(cost),
		IsActive:      true,
	}
}
