package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const getEvent = `
SELECT id, host_id, name, location, event_date, guest_count, created_at, updated_at
FROM events
WHERE id = $1
`

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	row := s.db.QueryRow(ctx, getEvent, id)
	var e Event
	err := row.Scan(&e.ID, &e.HostID, &e.Name, &e.Location, &e.EventDate,
		&e.GuestCount, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

const createEvent = `
INSERT INTO events (host_id, name, location, event_date, guest_count)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, host_id, name, location, event_date, guest_count, created_at, updated_at
`

type CreateEventParams struct {
	HostID     uuid.UUID
	Name       string
	Location   string
	EventDate  string
	GuestCount int32
}

func (s *Store) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := s.db.QueryRow(ctx, createEvent,
		arg.HostID, arg.Name, arg.Location, arg.EventDate, arg.GuestCount)
	var e Event
	err := row.Scan(&e.ID, &e.HostID, &e.Name, &e.Location, &e.EventDate,
		&e.GuestCount, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

const invoiceColumns = `
id, event_id, status, guest_count, tax_exempt_status, waive_service_fee,
services, custom_line_items, items_subtotal, delivery_total, service_fee,
tax_amount, grand_total, created_at, updated_at
`

func scanInvoice(row interface{ Scan(...any) error }) (Invoice, error) {
	var (
		inv                                     Invoice
		subtotal, delivery, fee, tax, grandTotal pgtype.Numeric
	)
	err := row.Scan(&inv.ID, &inv.EventID, &inv.Status, &inv.GuestCount,
		&inv.TaxExemptStatus, &inv.WaiveServiceFee, &inv.Services,
		&inv.CustomLineItems, &subtotal, &delivery, &fee, &tax, &grandTotal,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return Invoice{}, err
	}
	inv.ItemsSubtotal = numericToDecimal(subtotal)
	inv.DeliveryTotal = numericToDecimal(delivery)
	inv.ServiceFee = numericToDecimal(fee)
	inv.TaxAmount = numericToDecimal(tax)
	inv.GrandTotal = numericToDecimal(grandTotal)
	return inv, nil
}

const getInvoiceByEvent = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE event_id = $1
`

func (s *Store) GetInvoiceByEvent(ctx context.Context, eventID uuid.UUID) (Invoice, error) {
	return scanInvoice(s.db.QueryRow(ctx, getInvoiceByEvent, eventID))
}

const createInvoice = `
INSERT INTO invoices (event_id, status, guest_count)
VALUES ($1, $2, $3)
RETURNING ` + invoiceColumns

func (s *Store) CreateInvoice(ctx context.Context, eventID uuid.UUID, status string, guestCount int32) (Invoice, error) {
	return scanInvoice(s.db.QueryRow(ctx, createInvoice, eventID, status, guestCount))
}

const updateInvoice = `
UPDATE invoices SET
	guest_count = $2,
	tax_exempt_status = $3,
	waive_service_fee = $4,
	services = $5,
	custom_line_items = $6,
	items_subtotal = $7,
	delivery_total = $8,
	service_fee = $9,
	tax_amount = $10,
	grand_total = $11,
	updated_at = now()
WHERE event_id = $1
RETURNING ` + invoiceColumns

type UpdateInvoiceParams struct {
	EventID         uuid.UUID
	GuestCount      int32
	TaxExemptStatus bool
	WaiveServiceFee bool
	Services        []byte
	CustomLineItems []byte
	ItemsSubtotal   decimal.Decimal
	DeliveryTotal   decimal.Decimal
	ServiceFee      decimal.Decimal
	TaxAmount       decimal.Decimal
	GrandTotal      decimal.Decimal
}

func (s *Store) UpdateInvoice(ctx context.Context, arg UpdateInvoiceParams) (Invoice, error) {
	return scanInvoice(s.db.QueryRow(ctx, updateInvoice,
		arg.EventID, arg.GuestCount, arg.TaxExemptStatus, arg.WaiveServiceFee,
		arg.Services, arg.CustomLineItems,
		decimalToNumeric(arg.ItemsSubtotal), decimalToNumeric(arg.DeliveryTotal),
		decimalToNumeric(arg.ServiceFee), decimalToNumeric(arg.TaxAmount),
		decimalToNumeric(arg.GrandTotal)))
}

const updateEvent = `
UPDATE events SET
	name = $2,
	location = $3,
	event_date = $4,
	guest_count = $5,
	updated_at = now()
WHERE id = $1
RETURNING id, host_id, name, location, event_date, guest_count, created_at, updated_at
`

type UpdateEventParams struct {
	ID         uuid.UUID
	Name       string
	Location   string
	EventDate  string
	GuestCount int32
}

func (s *Store) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	row := s.db.QueryRow(ctx, updateEvent,
		arg.ID, arg.Name, arg.Location, arg.EventDate, arg.GuestCount)
	var e Event
	err := row.Scan(&e.ID, &e.HostID, &e.Name, &e.Location, &e.EventDate,
		&e.GuestCount, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
