package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/grocery-storefront/internal/model"
	"github.com/lib/pq"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// ConnectPostgres establishes a pooled connection to PostgreSQL.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("schema bootstrap: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL,
			original_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT 'piece',
			stock INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			items JSONB NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL,
			delivery_fee DOUBLE PRECISION NOT NULL,
			tax_amount DOUBLE PRECISION NOT NULL,
			total_amount DOUBLE PRECISION NOT NULL,
			status TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			delivery_type TEXT NOT NULL,
			delivery_address TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			special_instructions TEXT NOT NULL DEFAULT '',
			estimated_delivery TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Product(ctx context.Context, id string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, original_price, unit, stock, active, created_at
		 FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *PostgresStore) Products(ctx context.Context) ([]*model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, original_price, unit, stock, active, created_at
		 FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveProduct(ctx context.Context, p *model.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, original_price, unit, stock, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			unit = EXCLUDED.unit,
			stock = EXCLUDED.stock,
			active = EXCLUDED.active`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Unit, p.Stock, p.Active, p.CreatedAt)
	return err
}

func (s *PostgresStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2 WHERE id = $1 AND stock + $2 >= 0`,
		productID, delta)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a missing product from a stock underflow.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInsufficient
	}
	return nil
}

func (s *PostgresStore) User(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) SaveUser(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateEmail
	}
	return err
}

func (s *PostgresStore) SaveOrder(ctx context.Context, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, items, subtotal, delivery_fee, tax_amount, total_amount,
			status, payment_method, delivery_type, delivery_address, phone_number,
			special_instructions, estimated_delivery, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.UserID, items, o.Subtotal, o.DeliveryFee, o.TaxAmount, o.TotalAmount,
		o.Status, o.PaymentMethod, o.DeliveryType, o.DeliveryAddress, o.PhoneNumber,
		o.SpecialInstructions, o.EstimatedDelivery, o.CreatedAt)
	return err
}

func (s *PostgresStore) OrdersByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, items, subtotal, delivery_fee, tax_amount, total_amount,
			status, payment_method, delivery_type, delivery_address, phone_number,
			special_instructions, estimated_delivery, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		var o model.Order
		var items []byte
		if err := rows.Scan(&o.ID, &o.UserID, &items, &o.Subtotal, &o.DeliveryFee, &o.TaxAmount,
			&o.TotalAmount, &o.Status, &o.PaymentMethod, &o.DeliveryType, &o.DeliveryAddress,
			&o.PhoneNumber, &o.SpecialInstructions, &o.EstimatedDelivery, &o.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Unit, &p.Stock, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
