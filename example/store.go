package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Product is a row of the catalog.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    int64 // cents
	InStock  bool
	AddedAt  time.Time
}

// PriceString formats the price for display.
func (p Product) PriceString() string {
	return fmt.Sprintf("$%d.%02d", p.Price/100, p.Price%100)
}

// ProductQuery accumulates the conditions and ordering of a product
// listing. Methods return a modified copy, so a base query can be shared.
type ProductQuery struct {
	where []string
	args  []any
	order string
	limit int
}

// NewProductQuery returns a query matching every product, newest first.
func NewProductQuery(limit int) *ProductQuery {
	return &ProductQuery{order: "added_at DESC", limit: limit}
}

// Where adds a condition.
func (q *ProductQuery) Where(cond string, args ...any) *ProductQuery {
	next := q.clone()
	next.where = append(next.where, cond)
	next.args = append(next.args, args...)
	return next
}

// OrderBy replaces the ordering.
func (q *ProductQuery) OrderBy(order string) *ProductQuery {
	next := q.clone()
	next.order = order
	return next
}

func (q *ProductQuery) clone() *ProductQuery {
	return &ProductQuery{
		where: append([]string(nil), q.where...),
		args:  append([]any(nil), q.args...),
		order: q.order,
		limit: q.limit,
	}
}

// SQL returns the statement and its arguments.
func (q *ProductQuery) SQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT id, name, category, price, in_stock, added_at FROM products")
	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.where, " AND "))
	}
	if q.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.order)
	}
	args := q.args
	if q.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(append([]any(nil), args...), q.limit)
	}
	return sb.String(), args
}

// Store keeps products in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens the database at path and creates the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection, so ":memory:" databases are shared.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the schema.
func (s *Store) Init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price INTEGER NOT NULL,
			in_stock INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a product and returns its ID.
func (s *Store) Add(ctx context.Context, p Product) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, category, price, in_stock, added_at) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Category, p.Price, p.InStock, p.AddedAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("add product: %w", err)
	}
	return res.LastInsertId()
}

// Count returns the number of products.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// List runs q.
func (s *Store) List(ctx context.Context, q *ProductQuery) ([]Product, error) {
	stmt, args := q.SQL()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var added int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.InStock, &added); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.AddedAt = time.Unix(added, 0).UTC()
		products = append(products, p)
	}
	return products, rows.Err()
}

// Seed fills an empty store with sample products.
func (s *Store) Seed(ctx context.Context) error {
	n, err := s.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	samples := []Product{
		{Name: "Trail boots", Category: "shoes", Price: 12900, InStock: true},
		{Name: "Canvas sneakers", Category: "shoes", Price: 5900, InStock: false},
		{Name: "Wool socks", Category: "accessories", Price: 1200, InStock: true},
		{Name: "Rain jacket", Category: "outerwear", Price: 18900, InStock: true},
		{Name: "Down parka", Category: "outerwear", Price: 32900, InStock: false},
		{Name: "Leather belt", Category: "accessories", Price: 4500, InStock: true},
	}
	for i, p := range samples {
		p.AddedAt = base.AddDate(0, 0, 7*i)
		if _, err := s.Add(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
