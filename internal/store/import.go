package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/racereport/internal/model"
)

// ImportEvent stores an event with its registrations in one transaction.
// Categories, ticket types and voucher codes are reused by name or code, and a
// registration without a code gets a generated one.
func (s *Store) ImportEvent(ctx context.Context, ev model.EventImport) (id int64, err error) {
	if strings.TrimSpace(ev.Name) == "" {
		return 0, fmt.Errorf("event name is required")
	}
	startDate := ev.StartDate
	if startDate == "" {
		startDate = time.Now().Format(dateLayout)
	}
	if _, perr := time.Parse(dateLayout, startDate); perr != nil {
		return 0, fmt.Errorf("invalid start_date %q: %w", ev.StartDate, perr)
	}
	status := ev.Status
	if status == "" {
		status = model.EventStatusOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (name, start_date, status) VALUES (?, ?, ?)`,
		ev.Name, startDate, status)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	imp := &importer{tx: tx, eventID: id}
	for i, reg := range ev.Registrations {
		if err = imp.insertRegistration(ctx, reg); err != nil {
			return 0, fmt.Errorf("registration %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

type importer struct {
	tx      *sql.Tx
	eventID int64
}

func (imp *importer) insertRegistration(ctx context.Context, reg model.RegistrationImport) error {
	var cttID sql.NullInt64
	if reg.Category != "" {
		id, err := imp.categoryTicketType(ctx, reg.Category, reg.TicketType, reg.Price)
		if err != nil {
			return err
		}
		cttID = sql.NullInt64{Int64: id, Valid: true}
	}

	var voucherCodeID sql.NullInt64
	if reg.VoucherCode != "" {
		id, err := imp.voucherCode(ctx, reg.VoucherCode, reg.VoucherFinalPrice)
		if err != nil {
			return err
		}
		voucherCodeID = sql.NullInt64{Int64: id, Valid: true}
	}

	code := reg.RegistrationCode
	if code == "" {
		code = uuid.NewString()
	}
	status := reg.PaymentStatus
	if status == "" {
		status = model.PaymentStatusPaid
	}

	_, err := imp.tx.ExecContext(ctx,
		`INSERT INTO registrations (category_ticket_type_id, voucher_code_id, registration_code, full_name,
			gender, nationality, community_name, district, province, country, jersey_size, payment_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cttID, voucherCodeID, code, reg.FullName,
		nullString(reg.Gender), nullString(reg.Nationality), nullString(reg.CommunityName),
		nullString(reg.District), nullString(reg.Province), nullString(reg.Country),
		nullString(reg.JerseySize), status,
	)
	return err
}

func (imp *importer) categoryTicketType(ctx context.Context, category, ticketType string, price *decimal.Decimal) (int64, error) {
	categoryID, err := upsertID(ctx, imp.tx,
		`SELECT id FROM categories WHERE event_id = ? AND name = ?`,
		`INSERT INTO categories (event_id, name) VALUES (?, ?)`,
		imp.eventID, category)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", category, err)
	}

	var ticketTypeID sql.NullInt64
	if ticketType != "" {
		id, err := upsertID(ctx, imp.tx,
			`SELECT id FROM ticket_types WHERE name = ?`,
			`INSERT INTO ticket_types (name) VALUES (?)`,
			ticketType)
		if err != nil {
			return 0, fmt.Errorf("ticket type %q: %w", ticketType, err)
		}
		ticketTypeID = sql.NullInt64{Int64: id, Valid: true}
	}

	var id int64
	err = imp.tx.QueryRowContext(ctx,
		`SELECT id FROM category_ticket_types WHERE category_id = ? AND ticket_type_id IS ?`,
		categoryID, ticketTypeID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := imp.tx.ExecContext(ctx,
		`INSERT INTO category_ticket_types (category_id, ticket_type_id, price) VALUES (?, ?, ?)`,
		categoryID, ticketTypeID, nullDecimal(price))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (imp *importer) voucherCode(ctx context.Context, code string, finalPrice *decimal.Decimal) (int64, error) {
	var id int64
	err := imp.tx.QueryRowContext(ctx, `SELECT id FROM voucher_codes WHERE code = ?`, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := imp.tx.ExecContext(ctx, `INSERT INTO vouchers (final_price) VALUES (?)`, nullDecimal(finalPrice))
	if err != nil {
		return 0, fmt.Errorf("voucher %q: %w", code, err)
	}
	voucherID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	res, err = imp.tx.ExecContext(ctx, `INSERT INTO voucher_codes (voucher_id, code) VALUES (?, ?)`, voucherID, code)
	if err != nil {
		return 0, fmt.Errorf("voucher code %q: %w", code, err)
	}
	return res.LastInsertId()
}

func upsertID(ctx context.Context, tx *sql.Tx, selectQuery, insertQuery string, args ...any) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, selectQuery, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, insertQuery, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullDecimal(value *decimal.Decimal) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.String(), Valid: true}
}
