/*
Package sqlite provides a SQLite-backed implementation of obligation.Store.

PURPOSE:
  Persists obras, obligations, installments, and payments. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  obras:        Construction projects
  obligations:  Financial commitments belonging to an obra
  installments: Generated payment schedule per obligation
  payments:     Recorded payments per obligation

MONEY AND DATES:
  Decimal values are stored as TEXT and re-parsed on read, never as REAL,
  so the cent-exact sum invariant of split schedules survives a round trip.
  Dates are stored as ISO text (2006-01-02).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL
  (Write-Ahead Logging) for better concurrency.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - obligation/store.go: Interface definition
  - obligation/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/construtech/obratrack/engine"
	"github.com/construtech/obratrack/obligation"
)

// Store implements obligation.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ obligation.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS obras (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client TEXT,
		address TEXT,
		start_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS obligations (
		id TEXT PRIMARY KEY,
		obra_id TEXT NOT NULL REFERENCES obras(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		description TEXT,
		supplier TEXT,
		total_value TEXT NOT NULL,
		settled INTEGER NOT NULL DEFAULT 0,
		due_date TEXT,
		payment_date TEXT,
		start_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS installments (
		obligation_id TEXT NOT NULL REFERENCES obligations(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		value TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		note TEXT,
		PRIMARY KEY (obligation_id, position)
	);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		obligation_id TEXT NOT NULL REFERENCES obligations(id) ON DELETE CASCADE,
		value TEXT NOT NULL,
		paid_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_obligations_obra ON obligations(obra_id);
	CREATE INDEX IF NOT EXISTS idx_obligations_due ON obligations(due_date);
	CREATE INDEX IF NOT EXISTS idx_payments_obligation ON payments(obligation_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// OBRAS
// =============================================================================

func (s *Store) CreateObra(ctx context.Context, o obligation.Obra) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO obras (id, name, client, address, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Client, o.Address, o.StartDate, o.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) GetObra(ctx context.Context, id string) (*obligation.Obra, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, client, address, start_date, created_at
		FROM obras WHERE id = ?`, id)
	obra, err := scanObra(row)
	if err == sql.ErrNoRows {
		return nil, obligation.ErrObraNotFound
	}
	if err != nil {
		return nil, err
	}
	return obra, nil
}

func (s *Store) ListObras(ctx context.Context) ([]obligation.Obra, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, client, address, start_date, created_at
		FROM obras ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var obras []obligation.Obra
	for rows.Next() {
		obra, err := scanObra(rows)
		if err != nil {
			return nil, err
		}
		obras = append(obras, *obra)
	}
	return obras, rows.Err()
}

func (s *Store) DeleteObra(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM obras WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return obligation.ErrObraNotFound
	}
	return nil
}

// =============================================================================
// OBLIGATIONS
// =============================================================================

func (s *Store) CreateObligation(ctx context.Context, o obligation.Obligation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO obligations
			(id, obra_id, kind, description, supplier, total_value, settled,
			 due_date, payment_date, start_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ObraID, string(o.Kind), o.Description, o.Supplier,
		o.TotalValue.String(), boolToInt(o.Settled),
		o.DueDate, o.PaymentDate, o.StartDate,
		o.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	if err := insertInstallments(ctx, tx, o.ID, o.Installments); err != nil {
		return err
	}
	for _, p := range o.Payments {
		if err := insertPayment(ctx, tx, o.ID, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetObligation(ctx context.Context, id string) (*obligation.Obligation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, obra_id, kind, description, supplier, total_value, settled,
		       due_date, payment_date, start_date, created_at
		FROM obligations WHERE id = ?`, id)
	o, err := scanObligation(row)
	if err == sql.ErrNoRows {
		return nil, obligation.ErrObligationNotFound
	}
	if err != nil {
		return nil, err
	}

	if o.Installments, err = s.loadInstallments(ctx, id); err != nil {
		return nil, err
	}
	if o.Payments, err = s.loadPayments(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) UpdateObligation(ctx context.Context, o obligation.Obligation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE obligations SET
			kind = ?, description = ?, supplier = ?, total_value = ?,
			settled = ?, due_date = ?, payment_date = ?, start_date = ?
		WHERE id = ?`,
		string(o.Kind), o.Description, o.Supplier, o.TotalValue.String(),
		boolToInt(o.Settled), o.DueDate, o.PaymentDate, o.StartDate, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return obligation.ErrObligationNotFound
	}

	// Edited terms mean a regenerated schedule: swap wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM installments WHERE obligation_id = ?`, o.ID); err != nil {
		return err
	}
	if err := insertInstallments(ctx, tx, o.ID, o.Installments); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteObligation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM obligations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return obligation.ErrObligationNotFound
	}
	return nil
}

func (s *Store) ListObligations(ctx context.Context, obraID string) ([]obligation.Obligation, error) {
	return s.listObligations(ctx, `WHERE obra_id = ?`, obraID)
}

func (s *Store) ListAllObligations(ctx context.Context) ([]obligation.Obligation, error) {
	return s.listObligations(ctx, ``)
}

func (s *Store) listObligations(ctx context.Context, where string, args ...any) ([]obligation.Obligation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, obra_id, kind, description, supplier, total_value, settled,
		       due_date, payment_date, start_date, created_at
		FROM obligations `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []obligation.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].Installments, err = s.loadInstallments(ctx, result[i].ID); err != nil {
			return nil, err
		}
		if result[i].Payments, err = s.loadPayments(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// =============================================================================
// INSTALLMENTS AND PAYMENTS
// =============================================================================

func (s *Store) ReplaceInstallments(ctx context.Context, obligationID string, installments []engine.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireObligation(ctx, tx, obligationID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM installments WHERE obligation_id = ?`, obligationID); err != nil {
		return err
	}
	if err := insertInstallments(ctx, tx, obligationID, installments); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AddPayment(ctx context.Context, obligationID string, p engine.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireObligation(ctx, tx, obligationID); err != nil {
		return err
	}
	if err := insertPayment(ctx, tx, obligationID, p); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) loadInstallments(ctx context.Context, obligationID string) ([]engine.Installment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value, due_date, status, note
		FROM installments WHERE obligation_id = ? ORDER BY position`, obligationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []engine.Installment
	for rows.Next() {
		var value, dueDate, status, note string
		if err := rows.Scan(&value, &dueDate, &status, &note); err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt installment value %q: %w", value, err)
		}
		d, err := engine.ParseDate(dueDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt installment due date %q: %w", dueDate, err)
		}
		installments = append(installments, engine.Installment{
			Value:   v,
			DueDate: d,
			Status:  engine.PaymentStatus(status),
			Note:    note,
		})
	}
	return installments, rows.Err()
}

func (s *Store) loadPayments(ctx context.Context, obligationID string) ([]engine.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value, paid_at
		FROM payments WHERE obligation_id = ? ORDER BY id`, obligationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []engine.Payment
	for rows.Next() {
		var value, paidAt string
		if err := rows.Scan(&value, &paidAt); err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt payment value %q: %w", value, err)
		}
		d, err := engine.ParseDate(paidAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt payment date %q: %w", paidAt, err)
		}
		payments = append(payments, engine.Payment{Value: v, Date: d})
	}
	return payments, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

func (s *Store) MarkOverdueInstallments(ctx context.Context, asOf engine.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE installments SET status = ?
		WHERE status = ? AND due_date < ?`,
		string(engine.StatusOverdue), string(engine.StatusPending), asOf.String())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"payments", "installments", "obligations", "obras"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func insertInstallments(ctx context.Context, tx *sql.Tx, obligationID string, installments []engine.Installment) error {
	for i, inst := range installments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO installments (obligation_id, position, value, due_date, status, note)
			VALUES (?, ?, ?, ?, ?, ?)`,
			obligationID, i+1, inst.Value.String(), inst.DueDate.String(),
			string(inst.Status), inst.Note)
		if err != nil {
			return err
		}
	}
	return nil
}

func insertPayment(ctx context.Context, tx *sql.Tx, obligationID string, p engine.Payment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO payments (obligation_id, value, paid_at)
		VALUES (?, ?, ?)`,
		obligationID, p.Value.String(), p.Date.String())
	return err
}

func requireObligation(ctx context.Context, tx *sql.Tx, id string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM obligations WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return obligation.ErrObligationNotFound
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObra(row scanner) (*obligation.Obra, error) {
	var o obligation.Obra
	var createdAt string
	if err := row.Scan(&o.ID, &o.Name, &o.Client, &o.Address, &o.StartDate, &createdAt); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		o.CreatedAt = t
	}
	return &o, nil
}

func scanObligation(row scanner) (*obligation.Obligation, error) {
	var o obligation.Obligation
	var kind, totalValue, createdAt string
	var settled int
	if err := row.Scan(&o.ID, &o.ObraID, &kind, &o.Description, &o.Supplier,
		&totalValue, &settled, &o.DueDate, &o.PaymentDate, &o.StartDate, &createdAt); err != nil {
		return nil, err
	}
	o.Kind = obligation.Kind(kind)
	o.Settled = settled != 0

	v, err := decimal.NewFromString(totalValue)
	if err != nil {
		return nil, fmt.Errorf("corrupt total value %q: %w", totalValue, err)
	}
	o.TotalValue = v

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		o.CreatedAt = t
	}
	return &o, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
