package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const serviceColumns = `
id, vendor_id, name, service_type, base_price, minimum_guests, duration_hours,
delivery_enabled, image, details, delivery_ranges, is_active, created_at, updated_at
`

func scanService(row interface{ Scan(...any) error }) (CatalogService, error) {
	var (
		svc   CatalogService
		price pgtype.Numeric
	)
	err := row.Scan(&svc.ID, &svc.VendorID, &svc.Name, &svc.ServiceType, &price,
		&svc.MinimumGuests, &svc.DurationHours, &svc.DeliveryEnabled, &svc.Image,
		&svc.Details, &svc.DeliveryRanges, &svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return CatalogService{}, err
	}
	svc.BasePrice = numericToDecimal(price)
	return svc, nil
}

const listServicesByVendor = `
SELECT ` + serviceColumns + `
FROM services
WHERE vendor_id = $1 AND is_active = true
ORDER BY name
LIMIT $2 OFFSET $3
`

type ListServicesByVendorParams struct {
	VendorID uuid.UUID
	Limit    int32
	Offset   int32
}

func (s *Store) ListServicesByVendor(ctx context.Context, arg ListServicesByVendorParams) ([]CatalogService, error) {
	rows, err := s.db.Query(ctx, listServicesByVendor, arg.VendorID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CatalogService
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

const getService = `
SELECT ` + serviceColumns + `
FROM services
WHERE id = $1 AND is_active = true
`

func (s *Store) GetService(ctx context.Context, id uuid.UUID) (CatalogService, error) {
	return scanService(s.db.QueryRow(ctx, getService, id))
}

const getVendor = `
SELECT id, owner_id, name, is_active, created_at, updated_at
FROM vendors
WHERE id = $1 AND is_active = true
`

func (s *Store) GetVendor(ctx context.Context, id uuid.UUID) (Vendor, error) {
	row := s.db.QueryRow(ctx, getVendor, id)
	var v Vendor
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

const createVendor = `
INSERT INTO vendors (owner_id, name)
VALUES ($1, $2)
RETURNING id, owner_id, name, is_active, created_at, updated_at
`

func (s *Store) CreateVendor(ctx context.Context, ownerID uuid.UUID, name string) (Vendor, error) {
	row := s.db.QueryRow(ctx, createVendor, ownerID, name)
	var v Vendor
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

const createService = `
INSERT INTO services (
	vendor_id, name, service_type, base_price, minimum_guests, duration_hours,
	delivery_enabled, image, details, delivery_ranges
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + serviceColumns

type CreateServiceParams struct {
	VendorID        uuid.UUID
	Name            string
	ServiceType     string
	BasePrice       decimal.Decimal
	MinimumGuests   int32
	DurationHours   int32
	DeliveryEnabled bool
	Image           string
	Details         []byte
	DeliveryRanges  []byte
}

func (s *Store) CreateService(ctx context.Context, arg CreateServiceParams) (CatalogService, error) {
	details := arg.Details
	if details == nil {
		details = []byte(`{}`)
	}
	ranges := arg.DeliveryRanges
	if ranges == nil {
		ranges = []byte(`[]`)
	}
	return scanService(s.db.QueryRow(ctx, createService,
		arg.VendorID, arg.Name, arg.ServiceType, decimalToNumeric(arg.BasePrice), arg.MinimumGuests,
		arg.DurationHours, arg.DeliveryEnabled, arg.Image, details, ranges))
}
