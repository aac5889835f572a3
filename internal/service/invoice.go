package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eventease/api/internal/enum"
	"github.com/eventease/api/internal/pricing"
	"github.com/eventease/api/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Errors returned by the invoice service.
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrMissingVendor      = errors.New("vendor_id is required for every service")
	ErrBelowMinimumGuests = errors.New("guest count is below a service minimum")
	ErrOverrideForbidden  = errors.New("overrides and custom line items require admin role")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InvoiceStore defines the DB methods needed by the invoice service.
// Satisfied by *store.Store over a pool or a transaction.
type InvoiceStore interface {
	GetEvent(ctx context.Context, id uuid.UUID) (store.Event, error)
	GetInvoiceByEvent(ctx context.Context, eventID uuid.UUID) (store.Invoice, error)
	UpdateInvoice(ctx context.Context, arg store.UpdateInvoiceParams) (store.Invoice, error)
	UpdateEvent(ctx context.Context, arg store.UpdateEventParams) (store.Event, error)
}

// NewInvoiceStore creates an InvoiceStore from a DBTX (pool or tx), so the
// service can run updates inside a transaction.
type NewInvoiceStore func(db store.DBTX) InvoiceStore

// PricingConfig is the platform-level pricing the service injects into every
// normalization: clients never supply the fee or tax rate.
type PricingConfig struct {
	ServiceFee pricing.ServiceFeeConfig
	TaxRate    decimal.Decimal
}

// UpdateInvoiceRequest is the validated input for updating an event's invoice.
type UpdateInvoiceRequest struct {
	EventID   uuid.UUID
	ActorRole string
	Document  pricing.InvoiceDocument
}

// InvoiceSummary is an invoice with its event and freshly computed breakdown.
type InvoiceSummary struct {
	Event     store.Event
	Invoice   store.Invoice
	Document  pricing.InvoiceDocument
	Breakdown pricing.Breakdown
}

// InvoiceService handles invoice business logic.
type InvoiceService struct {
	store    InvoiceStore
	pool     TxBeginner
	newStore NewInvoiceStore
	cfg      PricingConfig
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(st InvoiceStore, pool TxBeginner, newStore NewInvoiceStore, cfg PricingConfig) *InvoiceService {
	return &InvoiceService{store: st, pool: pool, newStore: newStore, cfg: cfg}
}

// Quote normalizes a document without touching storage. The platform fee and
// tax configuration always come from the service, never from the caller.
func (s *InvoiceService) Quote(doc *pricing.InvoiceDocument) pricing.Breakdown {
	in := doc.Input()
	in.ServiceFee = s.cfg.ServiceFee
	in.TaxRate = s.cfg.TaxRate
	return pricing.Normalize(in)
}

// Summary loads an event's invoice and recomputes its breakdown from the
// stored document.
func (s *InvoiceService) Summary(ctx context.Context, eventID uuid.UUID) (InvoiceSummary, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceSummary{}, ErrEventNotFound
		}
		return InvoiceSummary{}, fmt.Errorf("get event: %w", err)
	}

	inv, err := s.store.GetInvoiceByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceSummary{}, ErrInvoiceNotFound
		}
		return InvoiceSummary{}, fmt.Errorf("get invoice: %w", err)
	}

	doc, err := documentFromRows(event, inv)
	if err != nil {
		return InvoiceSummary{}, err
	}

	return InvoiceSummary{
		Event:     event,
		Invoice:   inv,
		Document:  doc,
		Breakdown: s.Quote(&doc),
	}, nil
}

// Update validates the incoming document, renormalizes it server-side, and
// persists the result. Client-sent totals are never trusted; the stored
// document always carries the normalizer's output.
func (s *InvoiceService) Update(ctx context.Context, req UpdateInvoiceRequest) (InvoiceSummary, error) {
	doc := req.Document

	guests := int32(doc.GuestCount)
	if guests < 1 {
		guests = 1
	}
	for _, sd := range doc.Services {
		if sd.VendorID == "" {
			return InvoiceSummary{}, ErrMissingVendor
		}
		if int32(sd.MinimumGuests) > guests {
			return InvoiceSummary{}, ErrBelowMinimumGuests
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return InvoiceSummary{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	st := s.newStore(tx)

	event, err := st.GetEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceSummary{}, ErrEventNotFound
		}
		return InvoiceSummary{}, fmt.Errorf("get event: %w", err)
	}

	current, err := st.GetInvoiceByEvent(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceSummary{}, ErrInvoiceNotFound
		}
		return InvoiceSummary{}, fmt.Errorf("get invoice: %w", err)
	}

	if req.ActorRole != enum.UserRoleAdmin {
		if err := checkOverridesUnchanged(doc, current); err != nil {
			return InvoiceSummary{}, err
		}
	}

	in := doc.Input()
	in.ServiceFee = s.cfg.ServiceFee
	in.TaxRate = s.cfg.TaxRate
	bd := pricing.Normalize(in)

	doc.ApplySelection(in.Selected)
	doc.ApplyBreakdown(bd)

	servicesJSON, err := json.Marshal(doc.Services)
	if err != nil {
		return InvoiceSummary{}, fmt.Errorf("marshal services: %w", err)
	}
	lineItemsJSON, err := json.Marshal(doc.CustomLineItems)
	if err != nil {
		return InvoiceSummary{}, fmt.Errorf("marshal custom line items: %w", err)
	}

	inv, err := st.UpdateInvoice(ctx, store.UpdateInvoiceParams{
		EventID:         req.EventID,
		GuestCount:      guests,
		TaxExemptStatus: doc.TaxExemptStatus,
		WaiveServiceFee: doc.WaiveServiceFee,
		Services:        servicesJSON,
		CustomLineItems: lineItemsJSON,
		ItemsSubtotal:   bd.ItemsSubtotal,
		DeliveryTotal:   bd.DeliveryTotal,
		ServiceFee:      bd.ServiceFee,
		TaxAmount:       bd.Tax,
		GrandTotal:      bd.GrandTotal,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InvoiceSummary{}, ErrInvoiceNotFound
		}
		return InvoiceSummary{}, fmt.Errorf("update invoice: %w", err)
	}

	name := doc.EventName
	if name == "" {
		name = event.Name
	}
	location := doc.EventLocation
	if location == "" {
		location = event.Location
	}
	date := doc.EventDate
	if date == "" {
		date = event.EventDate
	}
	event, err = st.UpdateEvent(ctx, store.UpdateEventParams{
		ID:         req.EventID,
		Name:       name,
		Location:   location,
		EventDate:  date,
		GuestCount: guests,
	})
	if err != nil {
		return InvoiceSummary{}, fmt.Errorf("update event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return InvoiceSummary{}, fmt.Errorf("commit tx: %w", err)
	}

	doc.EventName = event.Name
	doc.EventLocation = event.Location
	doc.EventDate = event.EventDate
	doc.GuestCount = pricing.FlexInt(guests)

	return InvoiceSummary{
		Event:     event,
		Invoice:   inv,
		Document:  doc,
		Breakdown: bd,
	}, nil
}

// checkOverridesUnchanged rejects non-admin edits to admin-only fields. Edits
// that simply carry the stored values forward pass.
func checkOverridesUnchanged(doc pricing.InvoiceDocument, current store.Invoice) error {
	if doc.TaxExemptStatus != current.TaxExemptStatus {
		return ErrOverrideForbidden
	}
	if doc.WaiveServiceFee != current.WaiveServiceFee {
		return ErrOverrideForbidden
	}

	var stored []pricing.LineItemDocument
	if len(current.CustomLineItems) > 0 {
		if err := json.Unmarshal(current.CustomLineItems, &stored); err != nil {
			return fmt.Errorf("unmarshal stored line items: %w", err)
		}
	}
	if len(doc.CustomLineItems) != len(stored) {
		return ErrOverrideForbidden
	}
	if len(stored) == 0 {
		return nil
	}
	a, err := json.Marshal(doc.CustomLineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal stored line items: %w", err)
	}
	if !bytes.Equal(a, b) {
		return ErrOverrideForbidden
	}
	return nil
}

func documentFromRows(event store.Event, inv store.Invoice) (pricing.InvoiceDocument, error) {
	doc := pricing.InvoiceDocument{
		EventName:       event.Name,
		EventLocation:   event.Location,
		EventDate:       event.EventDate,
		GuestCount:      pricing.FlexInt(inv.GuestCount),
		TaxExemptStatus: inv.TaxExemptStatus,
		WaiveServiceFee: inv.WaiveServiceFee,
	}
	if len(inv.Services) > 0 {
		if err := json.Unmarshal(inv.Services, &doc.Services); err != nil {
			return pricing.InvoiceDocument{}, fmt.Errorf("unmarshal services: %w", err)
		}
	}
	if len(inv.CustomLineItems) > 0 {
		if err := json.Unmarshal(inv.CustomLineItems, &doc.CustomLineItems); err != nil {
			return pricing.InvoiceDocument{}, fmt.Errorf("unmarshal custom line items: %w", err)
		}
	}
	return doc, nil
}
