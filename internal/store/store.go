// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/racereport/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// ErrEventNotFound is returned when an event ID does not exist.
var ErrEventNotFound = errors.New("event not found")

// Store wraps SQLite access for events and registrations.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			status TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY,
			event_id INTEGER NOT NULL REFERENCES events(id),
			name TEXT NOT NULL,
			UNIQUE (event_id, name)
		);`,
		`CREATE TABLE IF NOT EXISTS ticket_types (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS category_ticket_types (
			id INTEGER PRIMARY KEY,
			category_id INTEGER NOT NULL REFERENCES categories(id),
			ticket_type_id INTEGER REFERENCES ticket_types(id),
			price TEXT,
			UNIQUE (category_id, ticket_type_id)
		);`,
		`CREATE TABLE IF NOT EXISTS vouchers (
			id INTEGER PRIMARY KEY,
			final_price TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS voucher_codes (
			id INTEGER PRIMARY KEY,
			voucher_id INTEGER REFERENCES vouchers(id),
			code TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id INTEGER PRIMARY KEY,
			category_ticket_type_id INTEGER REFERENCES category_ticket_types(id),
			voucher_code_id INTEGER REFERENCES voucher_codes(id),
			registration_code TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			gender TEXT,
			nationality TEXT,
			community_name TEXT,
			district TEXT,
			province TEXT,
			country TEXT,
			jersey_size TEXT,
			payment_status TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_ctt ON registrations(category_ticket_type_id);`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_payment ON registrations(payment_status);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_event ON categories(event_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ListEvents returns every event, most recent start date first.
func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_date, status FROM events ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent loads a single event.
func (s *Store) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, start_date, status FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var ev model.Event
	var startDate string
	if err := row.Scan(&ev.ID, &ev.Name, &startDate, &ev.Status); err != nil {
		return model.Event{}, err
	}
	parsed, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return model.Event{}, fmt.Errorf("invalid start date %q for event %d: %w", startDate, ev.ID, err)
	}
	ev.StartDate = parsed
	return ev, nil
}

const registrationSelect = `SELECT r.id, r.registration_code, r.gender, r.nationality, r.community_name,
		r.district, r.province, r.country, r.jersey_size,
		e.name, c.name, tt.name, ctt.price, v.final_price
	FROM registrations r
	JOIN category_ticket_types ctt ON ctt.id = r.category_ticket_type_id
	JOIN categories c ON c.id = ctt.category_id
	LEFT JOIN events e ON e.id = c.event_id
	LEFT JOIN ticket_types tt ON tt.id = ctt.ticket_type_id
	LEFT JOIN voucher_codes vc ON vc.id = r.voucher_code_id
	LEFT JOIN vouchers v ON v.id = vc.voucher_id`

// ListPaidRegistrations returns the paid registrations of one event.
func (s *Store) ListPaidRegistrations(ctx context.Context, eventID int64) ([]model.Registration, error) {
	return s.queryRegistrations(ctx, registrationSelect+`
	WHERE c.event_id = ? AND r.payment_status = ?
	ORDER BY r.id ASC`, eventID, model.PaymentStatusPaid)
}

// ListPaidRegistrationsForOpenEvents returns the paid registrations of every
// open event.
func (s *Store) ListPaidRegistrationsForOpenEvents(ctx context.Context) ([]model.Registration, error) {
	return s.queryRegistrations(ctx, registrationSelect+`
	WHERE e.status = ? AND r.payment_status = ?
	ORDER BY e.start_date DESC, e.id DESC, r.id ASC`, model.EventStatusOpen, model.PaymentStatusPaid)
}

func (s *Store) queryRegistrations(ctx context.Context, query string, args ...any) ([]model.Registration, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Registration
	for rows.Next() {
		var (
			reg                                     model.Registration
			gender, nationality, community          sql.NullString
			district, province, country, jerseySize sql.NullString
			eventName, category, ticketType         sql.NullString
			price, finalPrice                       decimal.NullDecimal
		)
		if err := rows.Scan(&reg.ID, &reg.RegistrationCode, &gender, &nationality, &community,
			&district, &province, &country, &jerseySize,
			&eventName, &category, &ticketType, &price, &finalPrice); err != nil {
			return nil, err
		}
		reg.Gender = gender.String
		reg.Nationality = nationality.String
		reg.CommunityName = community.String
		reg.District = district.String
		reg.Province = province.String
		reg.Country = country.String
		reg.JerseySize = jerseySize.String
		reg.EventName = eventName.String
		reg.CategoryName = category.String
		reg.TicketTypeName = ticketType.String
		reg.Price = price
		reg.VoucherFinalPrice = finalPrice
		result = append(result, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
