package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/model"
	"github.com/NarekMan21/test-deploy-crm/internal/domain/repository"
	"github.com/NarekMan21/test-deploy-crm/internal/workflow"
)

// pool is the subset of pgxpool.Pool the storage uses. Kept as an
// interface so tests can substitute a mock pool.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// newPool is a seam for tests to substitute a mock pool.
var newPool = func(ctx context.Context, cfg *pgxpool.Config) (pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type historyRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := newPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) History() repository.HistoryRepository {
	return &historyRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            order_number INTEGER UNIQUE,
            customer_name TEXT NOT NULL,
            customer_phone TEXT NOT NULL,
            customer_address TEXT NOT NULL,
            phone_agreement_notes TEXT NOT NULL DEFAULT '',
            customer_requirements TEXT NOT NULL DEFAULT '',
            deadline TIMESTAMPTZ,
            price INTEGER,
            material_photo TEXT NOT NULL DEFAULT '',
            furniture_photo TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            created_by BIGINT NOT NULL REFERENCES users(id),
            updated_by BIGINT REFERENCES users(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_history (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            user_id BIGINT NOT NULL REFERENCES users(id),
            action TEXT NOT NULL,
            field_changes TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_history_order ON order_history(order_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, active, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, username, passwordHash, role).Scan(&u.ID, &u.Active, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Username = username
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT id, username, password_hash, role, active, created_at FROM users WHERE username=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, username, password_hash, role, active, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, order_number, customer_name, customer_phone, customer_address,
        phone_agreement_notes, customer_requirements, deadline, price,
        material_photo, furniture_photo, status, created_by, updated_by, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
		&o.PhoneAgreementNotes, &o.CustomerRequirements, &o.Deadline, &o.Price,
		&o.MaterialPhoto, &o.FurniturePhoto, &o.Status, &o.CreatedBy, &o.UpdatedBy,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, draft model.OrderDraft, createdBy int64) (*model.Order, error) {
	query := `INSERT INTO orders (customer_name, customer_phone, customer_address, phone_agreement_notes, status, created_by)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + orderColumns
	return scanOrder(r.storage.pool.QueryRow(ctx, query,
		draft.CustomerName, draft.CustomerPhone, draft.CustomerAddress,
		draft.PhoneAgreementNotes, model.StatusDraft, createdBy))
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update builds a dynamic SET clause from non-nil patch fields.
func (r *orderRepository) Update(ctx context.Context, id int64, patch model.OrderPatch, updatedBy int64) (*model.Order, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.OrderNumber != nil {
		add("order_number", *patch.OrderNumber)
	}
	if patch.CustomerName != nil {
		add("customer_name", *patch.CustomerName)
	}
	if patch.CustomerPhone != nil {
		add("customer_phone", *patch.CustomerPhone)
	}
	if patch.CustomerAddress != nil {
		add("customer_address", *patch.CustomerAddress)
	}
	if patch.PhoneAgreementNotes != nil {
		add("phone_agreement_notes", *patch.PhoneAgreementNotes)
	}
	if patch.CustomerRequirements != nil {
		add("customer_requirements", *patch.CustomerRequirements)
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.MaterialPhoto != nil {
		add("material_photo", *patch.MaterialPhoto)
	}
	if patch.FurniturePhoto != nil {
		add("furniture_photo", *patch.FurniturePhoto)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	add("updated_by", updatedBy)
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), orderColumns)

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return order, nil
}

// Transition is the authoritative precondition check: the row only moves
// when its current status still matches. Concurrent clients lose here, not
// in the dashboard.
func (r *orderRepository) Transition(ctx context.Context, id int64, from, to model.OrderStatus, updatedBy int64) (*model.Order, error) {
	query := `UPDATE orders SET status=$1, updated_by=$2, updated_at=NOW()
              WHERE id=$3 AND status=$4
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, to, updatedBy, id, from))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domainErrors.Transition("order is not %s", from)
}

// Confirm assigns the next free order number while moving the order to
// confirmed, all inside one transaction.
func (r *orderRepository) Confirm(ctx context.Context, id int64, updatedBy int64) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var status model.OrderStatus
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if status != model.StatusPendingConfirmation {
			return domainErrors.Transition("order not pending confirmation")
		}

		var maxNumber int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(order_number), 0) FROM orders`).Scan(&maxNumber); err != nil {
			return err
		}
		next := maxNumber + 1
		if next > workflow.MaxOrderNumber {
			next = workflow.MaxOrderNumber
		}

		query := `UPDATE orders SET status=$1, order_number=$2, updated_by=$3, updated_at=NOW()
                  WHERE id=$4
                  RETURNING ` + orderColumns
		order, err = scanOrder(tx.QueryRow(ctx, query, model.StatusConfirmed, next, updatedBy, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) PhotoFilenames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.storage.pool.Query(ctx,
		`SELECT material_photo, furniture_photo FROM orders WHERE material_photo <> '' OR furniture_photo <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referenced := make(map[string]struct{})
	for rows.Next() {
		var material, furniture string
		if err := rows.Scan(&material, &furniture); err != nil {
			return nil, err
		}
		if material != "" {
			referenced[material] = struct{}{}
		}
		if furniture != "" {
			referenced[furniture] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return referenced, nil
}

// --- HistoryRepository implementation ---

func (r *historyRepository) Append(ctx context.Context, orderID, userID int64, action string, changes model.FieldChanges) error {
	var payload *string
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("encode field changes: %w", err)
		}
		encoded := string(raw)
		payload = &encoded
	}
	_, err := r.storage.pool.Exec(ctx,
		`INSERT INTO order_history (order_id, user_id, action, field_changes) VALUES ($1, $2, $3, $4)`,
		orderID, userID, action, payload)
	return err
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.HistoryEntry, error) {
	const query = `SELECT h.id, h.order_id, h.user_id, u.username, h.action, h.field_changes, h.created_at
                   FROM order_history h
                   JOIN users u ON u.id = h.user_id
                   WHERE h.order_id=$1
                   ORDER BY h.created_at DESC, h.id DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.HistoryEntry
	for rows.Next() {
		var (
			entry   model.HistoryEntry
			payload *string
		)
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.UserID, &entry.Username,
			&entry.Action, &payload, &entry.Timestamp); err != nil {
			return nil, err
		}
		if payload != nil {
			if err := json.Unmarshal([]byte(*payload), &entry.FieldChanges); err != nil {
				return nil, fmt.Errorf("decode field changes: %w", err)
			}
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
