package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/composer"
	"github.com/sangkips/atelier-api/internal/domain/contact"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/infrastructure/draftstore"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type draftFixture struct {
	svc       *DraftService
	store     *draftstore.MemoryStore
	sales     *fakeSaleRepo
	customers *fakeCustomerRepo
	subs      *fakeSubscriberRepo
	product   *entity.Product
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()

	f := &draftFixture{
		store:     draftstore.NewMemoryStore(0),
		sales:     newFakeSaleRepo(),
		customers: &fakeCustomerRepo{},
		subs:      &fakeSubscriberRepo{},
		product:   ring("100", "60"),
	}
	products := newFakeProductRepo(f.product)
	log := zap.NewNop()
	contacts := NewContactService(f.customers, f.subs, 5, log)
	sales := NewSaleService(f.sales, products, 18, "SAT", log)
	f.svc = NewDraftService(f.store, products, contacts, sales, 18, log)
	return f
}

func TestDraftComposeAndSubmit(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, err := f.svc.CreateDraft(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, composer.TabBasic, d.ActiveTab)
	assert.True(t, money("18").Equal(d.Pricing.TaxRate))

	_, err = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe Yılmaz"})
	require.NoError(t, err)

	d, err = f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 2)
	require.NoError(t, err)
	assert.Equal(t, "", d.PendingProduct)
	assert.Equal(t, 1, d.PendingQuantity)

	d, err = f.svc.UpdatePricing(ctx, d.ID, composer.PricingInput{DiscountAmount: floatPtr(20)})
	require.NoError(t, err)
	assert.True(t, money("212.4").Equal(d.Totals.TotalAmount))

	d, err = f.svc.SwitchTab(ctx, d.ID, "payment")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", d.Basic.CustomerName)
	assert.Len(t, d.Items, 1)

	sale, err := f.svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, money("212.4").Equal(sale.TotalAmount))
	assert.Equal(t, 1, f.sales.count())

	_, err = f.svc.GetDraft(ctx, d.ID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestDraftSubmitValidationKeepsDraft(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, err := f.svc.CreateDraft(ctx, nil)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, d.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.StatusOf(err))
	assert.Zero(t, f.sales.count())

	kept, err := f.svc.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, kept.Submitting)

	_, err = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe"})
	assert.NoError(t, err)
}

func TestDraftSubmitStorageFailureKeepsDraft(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	_, _ = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe"})
	_, err := f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 1)
	require.NoError(t, err)

	f.sales.err = errStoreDown
	_, err = f.svc.Submit(ctx, d.ID)
	require.ErrorIs(t, err, errStoreDown)

	f.sales.err = nil
	sale, err := f.svc.Submit(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, sale.Items, 1)
}

func TestDraftConcurrentSubmitPersistsOnce(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	_, _ = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe"})
	_, err := f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Submit(ctx, d.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.sales.count())
}

func TestDraftRejectsMutationWhileSubmitting(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	d.Submitting = true
	require.NoError(t, f.store.Save(ctx, d))

	_, err := f.svc.SwitchTab(ctx, d.ID, "items")
	assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
	assert.Equal(t, http.StatusConflict, apperror.StatusOf(f.svc.DiscardDraft(ctx, d.ID)))
}

func TestDraftSubmitGuardHeld(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	ok, err := f.store.AcquireSubmit(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.Submit(ctx, d.ID)
	assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))
}

func TestDraftEditRacingSubmitDoesNotRecreateDraft(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	_, _ = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe"})
	_, err := f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 1)
	require.NoError(t, err)

	// The edit loaded the draft before the submit started.
	_, err = f.svc.mutate(ctx, d.ID, func(d *composer.Draft) error {
		_, err := f.svc.Submit(ctx, d.ID)
		require.NoError(t, err)
		d.Basic.Notes = "late edit"
		return nil
	})
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	_, err = f.svc.GetDraft(ctx, d.ID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	_, err = f.svc.Submit(ctx, d.ID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	assert.Equal(t, 1, f.sales.count())
}

func TestDraftEditRefusedWhileSubmitGuardHeld(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	_, err := f.svc.mutate(ctx, d.ID, func(d *composer.Draft) error {
		ok, err := f.store.AcquireSubmit(ctx, d.ID)
		require.NoError(t, err)
		require.True(t, ok)
		d.Basic.Notes = "late edit"
		return nil
	})
	assert.Equal(t, http.StatusConflict, apperror.StatusOf(err))

	stored, err := f.store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Basic.Notes)
}

func TestDraftAddItemFailuresLeaveLedger(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	d, _ := f.svc.CreateDraft(ctx, nil)

	free := ring("0", "0")
	require.NoError(t, f.svc.productRepo.Create(ctx, free))

	cases := []struct {
		name      string
		productID string
		quantity  int
		status    int
	}{
		{"no product", "", 1, http.StatusBadRequest},
		{"zero quantity", f.product.ID.String(), 0, http.StatusBadRequest},
		{"unknown product", uuid.NewString(), 1, http.StatusNotFound},
		{"malformed id", "not-a-uuid", 1, http.StatusNotFound},
		{"no sale price", free.ID.String(), 1, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddItem(ctx, d.ID, tc.productID, tc.quantity)
			assert.Equal(t, tc.status, apperror.StatusOf(err))

			stored, err := f.svc.GetDraft(ctx, d.ID)
			require.NoError(t, err)
			assert.Empty(t, stored.Items)
		})
	}
}

func TestDraftRemoveItem(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	d, _ := f.svc.CreateDraft(ctx, nil)

	_, err := f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 1)
	require.NoError(t, err)

	d, err = f.svc.RemoveItem(ctx, d.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, d.Items)
	assert.True(t, d.Totals.TotalAmount.IsZero())

	_, err = f.svc.RemoveItem(ctx, d.ID, 0)
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestDraftUpdatePricingRange(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	d, _ := f.svc.CreateDraft(ctx, nil)

	_, err := f.svc.UpdatePricing(ctx, d.ID, composer.PricingInput{TaxRate: floatPtr(120)})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.StatusOf(err))

	_, err = f.svc.UpdatePricing(ctx, d.ID, composer.PricingInput{DiscountAmount: floatPtr(-5)})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.StatusOf(err))
}

func TestDraftSwitchUnknownTab(t *testing.T) {
	f := newDraftFixture(t)
	d, _ := f.svc.CreateDraft(context.Background(), nil)

	_, err := f.svc.SwitchTab(context.Background(), d.ID, "shipping")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestDraftSelectSubscriberContact(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	sub := entity.Subscriber{
		ID:         uuid.New(),
		Name:       "Elif Kaya",
		Phone:      strPtr("905321234567"),
		Email:      strPtr("elif@example.com"),
		City:       "İstanbul",
		District:   "Kadıköy",
		Street:     "Bağdat Cad.",
		BuildingNo: "12",
		IsActive:   true,
	}
	f.subs.subscribers = append(f.subs.subscribers, sub)

	d, _ := f.svc.CreateDraft(ctx, nil)
	d, err := f.svc.SelectCustomer(ctx, d.ID, contact.KeyFor(contact.KindSubscriber, sub.ID))
	require.NoError(t, err)

	assert.Equal(t, "Elif Kaya", d.Basic.CustomerName)
	assert.Equal(t, "elif@example.com", d.Basic.CustomerEmail)
	require.NotNil(t, d.SubscriberID)
	assert.Equal(t, sub.ID, *d.SubscriberID)
	assert.Nil(t, d.CustomerID)
	assert.Equal(t, "İstanbul", d.Invoice.Address.Line1)
	assert.Equal(t, "Kadıköy, Bağdat Cad. No: 12", d.Invoice.Address.Line2)
	assert.Equal(t, d.Invoice.Address, d.Delivery.Address)

	_, err = f.svc.SelectCustomer(ctx, d.ID, "customer:"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	_, err = f.svc.SelectCustomer(ctx, d.ID, "vendor:1")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestDraftFromSaleUpdatesThatSale(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()

	d, _ := f.svc.CreateDraft(ctx, nil)
	_, _ = f.svc.UpdateBasic(ctx, d.ID, composer.Basic{CustomerName: "Ayşe"})
	_, _ = f.svc.AddItem(ctx, d.ID, f.product.ID.String(), 1)
	original, err := f.svc.Submit(ctx, d.ID)
	require.NoError(t, err)

	edit, err := f.svc.CreateDraft(ctx, &original.ID)
	require.NoError(t, err)
	require.NotNil(t, edit.SaleID)
	assert.Len(t, edit.Items, 1)

	_, err = f.svc.AddItem(ctx, edit.ID, f.product.ID.String(), 1)
	require.NoError(t, err)
	_, err = f.svc.UpdatePayment(ctx, edit.ID, entity.PaymentInfo{PaidAmount: money("50")}, false)
	require.NoError(t, err)

	updated, err := f.svc.Submit(ctx, edit.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.SaleNo, updated.SaleNo)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, enum.PaymentStatusPartial, updated.Payment.Status)
	assert.Equal(t, 1, f.sales.count())

	missing := uuid.New()
	_, err = f.svc.CreateDraft(ctx, &missing)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
}

func TestDraftSameAsInvoiceCopiesOnce(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	d, _ := f.svc.CreateDraft(ctx, nil)

	inv := entity.InvoiceInfo{Address: entity.AddressBlock{Line1: "Moda Cad. 5", City: "İstanbul", District: "Kadıköy"}}
	_, err := f.svc.UpdateInvoice(ctx, d.ID, inv)
	require.NoError(t, err)

	d, err = f.svc.UpdateDelivery(ctx, d.ID, entity.DeliveryInfo{SameAsInvoice: true})
	require.NoError(t, err)
	assert.Equal(t, inv.Address, d.Delivery.Address)

	inv.Address.Line1 = "Bahariye Cad. 9"
	d, err = f.svc.UpdateInvoice(ctx, d.ID, inv)
	require.NoError(t, err)
	assert.Equal(t, "Moda Cad. 5", d.Delivery.Address.Line1)
}
