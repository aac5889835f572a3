package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/eventease/api/internal/enum"
	"github.com/eventease/api/internal/pricing"
	"github.com/eventease/api/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// invoiceMockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type invoiceMockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
}

func (m *invoiceMockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *invoiceMockTx) Commit(ctx context.Context) error {
	m.committed = true
	return m.commitErr
}
func (m *invoiceMockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *invoiceMockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *invoiceMockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *invoiceMockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *invoiceMockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *invoiceMockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *invoiceMockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *invoiceMockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *invoiceMockTx) Conn() *pgx.Conn { panic("not implemented") }

type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockInvoiceStore implements InvoiceStore with configurable behavior.
type mockInvoiceStore struct {
	getEventFn          func(ctx context.Context, id uuid.UUID) (store.Event, error)
	getInvoiceByEventFn func(ctx context.Context, eventID uuid.UUID) (store.Invoice, error)
	updateInvoiceFn     func(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error)
	updateEventFn       func(ctx context.Context, arg store.UpdateEventParams) (store.Event, error)
}

func (m *mockInvoiceStore) GetEvent(ctx context.Context, id uuid.UUID) (store.Event, error) {
	return m.getEventFn(ctx, id)
}
func (m *mockInvoiceStore) GetInvoiceByEvent(ctx context.Context, eventID uuid.UUID) (store.Invoice, error) {
	return m.getInvoiceByEventFn(ctx, eventID)
}
func (m *mockInvoiceStore) UpdateInvoice(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error) {
	return m.updateInvoiceFn(ctx, arg)
}
func (m *mockInvoiceStore) UpdateEvent(ctx context.Context, arg store.UpdateEventParams) (store.Event, error) {
	return m.updateEventFn(ctx, arg)
}

func defaultInvoiceStore(eventID uuid.UUID) *mockInvoiceStore {
	return &mockInvoiceStore{
		getEventFn: func(ctx context.Context, id uuid.UUID) (store.Event, error) {
			if id == eventID {
				return store.Event{ID: eventID, Name: "Garcia Wedding", Location: "Austin, TX", EventDate: "2026-10-17", GuestCount: 4}, nil
			}
			return store.Event{}, pgx.ErrNoRows
		},
		getInvoiceByEventFn: func(ctx context.Context, eid uuid.UUID) (store.Invoice, error) {
			if eid == eventID {
				return store.Invoice{ID: uuid.New(), EventID: eventID, Status: enum.InvoiceStatusDraft, GuestCount: 4}, nil
			}
			return store.Invoice{}, pgx.ErrNoRows
		},
		updateInvoiceFn: func(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error) {
			return store.Invoice{
				ID: uuid.New(), EventID: arg.EventID, Status: enum.InvoiceStatusDraft,
				GuestCount: arg.GuestCount, TaxExemptStatus: arg.TaxExemptStatus,
				WaiveServiceFee: arg.WaiveServiceFee, Services: arg.Services,
				CustomLineItems: arg.CustomLineItems, ItemsSubtotal: arg.ItemsSubtotal,
				DeliveryTotal: arg.DeliveryTotal, ServiceFee: arg.ServiceFee,
				TaxAmount: arg.TaxAmount, GrandTotal: arg.GrandTotal,
			}, nil
		},
		updateEventFn: func(ctx context.Context, arg store.UpdateEventParams) (store.Event, error) {
			return store.Event{ID: arg.ID, Name: arg.Name, Location: arg.Location,
				EventDate: arg.EventDate, GuestCount: arg.GuestCount}, nil
		},
	}
}

func newTestInvoiceService(st *mockInvoiceStore) (*InvoiceService, *invoiceMockTx) {
	tx := &invoiceMockTx{}
	svc := NewInvoiceService(st, &mockTxBeginner{tx: tx},
		func(db store.DBTX) InvoiceStore { return st },
		PricingConfig{
			ServiceFee: pricing.ServiceFeeConfig{Type: enum.FeeTypePercentage, Value: decimal.NewFromInt(5)},
			TaxRate:    decimal.RequireFromString("0.10"),
		})
	return svc, tx
}

func venueDocument(guests int) pricing.InvoiceDocument {
	raw := `{
		"guestCount": ` + strconv.Itoa(guests) + `,
		"services": [{"id": "svc-v", "serviceType": "venues", "vendorId": "vendor-1", "price": "200", "quantity": 1}]
	}`
	var doc pricing.InvoiceDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(err)
	}
	return doc
}

// --- Tests ---

func TestQuote_InjectsPlatformConfig(t *testing.T) {
	svc, _ := newTestInvoiceService(defaultInvoiceStore(uuid.New()))
	doc := venueDocument(4)

	bd := svc.Quote(&doc)

	// 200 + 5% fee (10) + 10% tax on 200 (20) = 230
	if !bd.ServiceFee.Equal(decimal.RequireFromString("10")) {
		t.Errorf("service fee: got %v, want 10", bd.ServiceFee)
	}
	if !bd.Tax.Equal(decimal.RequireFromString("20")) {
		t.Errorf("tax: got %v, want 20", bd.Tax)
	}
	if !bd.GrandTotal.Equal(decimal.RequireFromString("230")) {
		t.Errorf("grand total: got %v, want 230", bd.GrandTotal)
	}
}

func TestUpdate_MissingVendor(t *testing.T) {
	eventID := uuid.New()
	svc, _ := newTestInvoiceService(defaultInvoiceStore(eventID))

	doc := venueDocument(4)
	doc.Services[0].VendorID = ""

	_, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleHost, Document: doc,
	})
	if !errors.Is(err, ErrMissingVendor) {
		t.Errorf("got %v, want ErrMissingVendor", err)
	}
}

func TestUpdate_BelowMinimumGuests(t *testing.T) {
	eventID := uuid.New()
	svc, _ := newTestInvoiceService(defaultInvoiceStore(eventID))

	doc := venueDocument(10)
	doc.Services[0].MinimumGuests = 25

	_, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleHost, Document: doc,
	})
	if !errors.Is(err, ErrBelowMinimumGuests) {
		t.Errorf("got %v, want ErrBelowMinimumGuests", err)
	}
}

func TestUpdate_EventNotFound(t *testing.T) {
	svc, _ := newTestInvoiceService(defaultInvoiceStore(uuid.New()))

	_, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: uuid.New(), ActorRole: enum.UserRoleHost, Document: venueDocument(4),
	})
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
}

func TestUpdate_NonAdminCannotFlipOverrides(t *testing.T) {
	eventID := uuid.New()
	svc, _ := newTestInvoiceService(defaultInvoiceStore(eventID))

	doc := venueDocument(4)
	doc.TaxExemptStatus = true

	_, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleHost, Document: doc,
	})
	if !errors.Is(err, ErrOverrideForbidden) {
		t.Errorf("got %v, want ErrOverrideForbidden", err)
	}
}

func TestUpdate_NonAdminCannotAddLineItems(t *testing.T) {
	eventID := uuid.New()
	svc, _ := newTestInvoiceService(defaultInvoiceStore(eventID))

	doc := venueDocument(4)
	doc.CustomLineItems = []pricing.LineItemDocument{
		{Label: "Sneaky credit", Type: enum.AdjustmentTypeFixed, Mode: enum.AdjustmentModeDiscount},
	}

	_, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleHost, Document: doc,
	})
	if !errors.Is(err, ErrOverrideForbidden) {
		t.Errorf("got %v, want ErrOverrideForbidden", err)
	}
}

func TestUpdate_AdminSetsOverrides(t *testing.T) {
	eventID := uuid.New()
	st := defaultInvoiceStore(eventID)

	var captured store.UpdateInvoiceParams
	st.updateInvoiceFn = func(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error) {
		captured = arg
		return store.Invoice{ID: uuid.New(), EventID: arg.EventID, GuestCount: arg.GuestCount}, nil
	}

	svc, tx := newTestInvoiceService(st)

	doc := venueDocument(4)
	doc.TaxExemptStatus = true
	doc.WaiveServiceFee = true

	res, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleAdmin, Document: doc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}

	if !captured.TaxExemptStatus || !captured.WaiveServiceFee {
		t.Errorf("overrides not persisted: %+v", captured)
	}
	if !captured.ServiceFee.IsZero() || !captured.TaxAmount.IsZero() {
		t.Errorf("fee/tax should be suppressed: fee=%v tax=%v", captured.ServiceFee, captured.TaxAmount)
	}
	if !res.Breakdown.GrandTotal.Equal(decimal.RequireFromString("200")) {
		t.Errorf("grand total: got %v, want 200", res.Breakdown.GrandTotal)
	}
}

func TestUpdate_RenormalizesIgnoringClientTotals(t *testing.T) {
	eventID := uuid.New()
	st := defaultInvoiceStore(eventID)

	var captured store.UpdateInvoiceParams
	st.updateInvoiceFn = func(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error) {
		captured = arg
		return store.Invoice{ID: uuid.New(), EventID: arg.EventID, GuestCount: arg.GuestCount}, nil
	}

	svc, _ := newTestInvoiceService(st)

	// The client claims the venue costs 1.00; the stored total must be the
	// recomputed 200.00, with a warning about the mismatch.
	raw := `{
		"guestCount": 4,
		"services": [{"id": "svc-v", "serviceType": "venues", "vendorId": "vendor-1",
		              "price": "200", "quantity": 1, "totalPrice": "1.00"}]
	}`
	var doc pricing.InvoiceDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	res, err := svc.Update(context.Background(), UpdateInvoiceRequest{
		EventID: eventID, ActorRole: enum.UserRoleHost, Document: doc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !captured.ItemsSubtotal.Equal(decimal.RequireFromString("200")) {
		t.Errorf("items subtotal: got %v, want 200", captured.ItemsSubtotal)
	}
	if len(res.Breakdown.Warnings) != 1 {
		t.Errorf("expected a stored-total mismatch warning, got %v", res.Breakdown.Warnings)
	}

	var persisted []pricing.ServiceDocument
	if err := json.Unmarshal(captured.Services, &persisted); err != nil {
		t.Fatalf("unmarshal persisted services: %v", err)
	}
	if persisted[0].TotalPrice == nil || !persisted[0].TotalPrice.Equal(decimal.RequireFromString("200")) {
		t.Errorf("persisted total: got %+v, want 200.00", persisted[0].TotalPrice)
	}
}

func TestSummary_NotFound(t *testing.T) {
	svc, _ := newTestInvoiceService(defaultInvoiceStore(uuid.New()))

	_, err := svc.Summary(context.Background(), uuid.New())
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("got %v, want ErrEventNotFound", err)
	}
}

func TestSummary_RecomputesBreakdownFromStoredDocument(t *testing.T) {
	eventID := uuid.New()
	st := defaultInvoiceStore(eventID)
	st.getInvoiceByEventFn = func(ctx context.Context, eid uuid.UUID) (store.Invoice, error) {
		return store.Invoice{
			ID: uuid.New(), EventID: eventID, Status: enum.InvoiceStatusDraft,
			GuestCount: 4,
			Services:   []byte(`[{"id": "svc-v", "serviceType": "venues", "vendorId": "vendor-1", "price": "200", "quantity": 1}]`),
		}, nil
	}

	svc, _ := newTestInvoiceService(st)

	res, err := svc.Summary(context.Background(), eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 200 + 10 fee + 20 tax
	if !res.Breakdown.GrandTotal.Equal(decimal.RequireFromString("230")) {
		t.Errorf("grand total: got %v, want 230", res.Breakdown.GrandTotal)
	}
	if res.Document.EventName != "Garcia Wedding" {
		t.Errorf("event name: got %q", res.Document.EventName)
	}
}
