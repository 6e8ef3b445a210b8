package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-console/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrInsufficientStock is returned when an order asks for more than is held.
var ErrInsufficientStock = errors.New("insufficient stock available")

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// Store is the stub backend's persistence layer. sqlite3 keeps local runs
// and tests infrastructure-free; postgres is available for a shared setup.
type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore connects and creates the schema when missing.
func NewStore(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price REAL NOT NULL,
			reorder_threshold INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			contact TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			total_amount REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// --- products ---

// ListProducts returns all products in a stable order.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY name")
	return products, err
}

// CreateProduct inserts a product and assigns its id.
func (s *Store) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p := &models.Product{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Quantity:         in.Quantity,
		Price:            in.Price,
		ReorderThreshold: in.ReorderThreshold,
	}
	query := s.db.Rebind("INSERT INTO products (id, name, quantity, price, reorder_threshold) VALUES (?, ?, ?, ?, ?)")
	_, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.Quantity, p.Price, p.ReorderThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces a product's mutable fields.
func (s *Store) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	query := s.db.Rebind("UPDATE products SET name = ?, quantity = ?, price = ?, reorder_threshold = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, in.Name, in.Quantity, in.Price, in.ReorderThreshold, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return &models.Product{
		ID:               id,
		Name:             in.Name,
		Quantity:         in.Quantity,
		Price:            in.Price,
		ReorderThreshold: in.ReorderThreshold,
	}, nil
}

// DeleteProduct removes a product row.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "products", id)
}

// LowStockProducts returns products below their reorder threshold.
func (s *Store) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE quantity < reorder_threshold ORDER BY quantity")
	return products, err
}

// --- customers and suppliers ---

// ListCustomers returns all customers.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY name")
	return customers, err
}

// CreateCustomer inserts a customer and assigns its id.
func (s *Store) CreateCustomer(ctx context.Context, in models.ContactInput) (*models.Customer, error) {
	c := &models.Customer{ID: uuid.New().String(), Name: in.Name, Contact: in.Contact, Address: in.Address}
	query := s.db.Rebind("INSERT INTO customers (id, name, contact, address) VALUES (?, ?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.Contact, c.Address); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer replaces a customer's fields.
func (s *Store) UpdateCustomer(ctx context.Context, id string, in models.ContactInput) (*models.Customer, error) {
	if err := s.updateContact(ctx, "customers", id, in); err != nil {
		return nil, err
	}
	return &models.Customer{ID: id, Name: in.Name, Contact: in.Contact, Address: in.Address}, nil
}

// DeleteCustomer removes a customer row.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "customers", id)
}

// ListSuppliers returns all suppliers.
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers, "SELECT * FROM suppliers ORDER BY name")
	return suppliers, err
}

// CreateSupplier inserts a supplier and assigns its id.
func (s *Store) CreateSupplier(ctx context.Context, in models.ContactInput) (*models.Supplier, error) {
	sup := &models.Supplier{ID: uuid.New().String(), Name: in.Name, Contact: in.Contact, Address: in.Address}
	query := s.db.Rebind("INSERT INTO suppliers (id, name, contact, address) VALUES (?, ?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query, sup.ID, sup.Name, sup.Contact, sup.Address); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return sup, nil
}

// UpdateSupplier replaces a supplier's fields.
func (s *Store) UpdateSupplier(ctx context.Context, id string, in models.ContactInput) (*models.Supplier, error) {
	if err := s.updateContact(ctx, "suppliers", id, in); err != nil {
		return nil, err
	}
	return &models.Supplier{ID: id, Name: in.Name, Contact: in.Contact, Address: in.Address}, nil
}

// DeleteSupplier removes a supplier row.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "suppliers", id)
}

func (s *Store) updateContact(ctx context.Context, table, id string, in models.ContactInput) error {
	query := s.db.Rebind("UPDATE " + table + " SET name = ?, contact = ?, address = ? WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, in.Name, in.Contact, in.Address, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) deleteRow(ctx context.Context, table, id string) error {
	query := s.db.Rebind("DELETE FROM " + table + " WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- orders ---

const orderColumns = `o.id, o.product_id, o.customer_id, o.quantity, o.total_amount, o.created_at,
	COALESCE(p.name, '') AS product_name, COALESCE(c.name, '') AS customer_name`

// ListOrders returns all orders newest-first with display names joined in.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC, o.id`)
	return orders, err
}

// CreateOrder places an order inside a transaction: it checks stock,
// computes the total from the product's current price, and decrements the
// product quantity. The decrement happens here and only here.
func (s *Store) CreateOrder(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	productQuery := "SELECT * FROM products WHERE id = ?"
	if s.driver == "postgres" {
		productQuery += " FOR UPDATE"
	}

	var product models.Product
	err = tx.GetContext(ctx, &product, tx.Rebind(productQuery), in.ProductID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", in.ProductID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	var customer models.Customer
	err = tx.GetContext(ctx, &customer, tx.Rebind("SELECT * FROM customers WHERE id = ?"), in.CustomerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %s: %w", in.CustomerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if product.Quantity < in.Quantity {
		return nil, ErrInsufficientStock
	}

	order := &models.Order{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		CustomerID:   customer.ID,
		ProductName:  product.Name,
		CustomerName: customer.Name,
		Quantity:     in.Quantity,
		TotalAmount:  product.Price * float64(in.Quantity),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO orders (id, product_id, customer_id, quantity, total_amount, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		order.ID, order.ProductID, order.CustomerID, order.Quantity, order.TotalAmount, order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("UPDATE products SET quantity = quantity - ? WHERE id = ?"),
		in.Quantity, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to deduct stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes the order row. Stock is not restored: the goods were
// already handed over, and putting the quantity back would fabricate
// phantom inventory.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteRow(ctx, "orders", id)
}

// RecentOrders returns the latest n orders with names joined in.
func (s *Store) RecentOrders(ctx context.Context, n int) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, s.db.Rebind(`SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY o.created_at DESC, o.id
		LIMIT ?`), n)
	return orders, err
}

// orderTotals aggregates ordered quantity per product.
type orderTotals struct {
	ProductID    string `db:"product_id"`
	TotalOrdered int    `db:"total_ordered"`
}

// OrderTotalsByProduct returns the summed ordered quantity per product.
func (s *Store) OrderTotalsByProduct(ctx context.Context) (map[string]int, error) {
	rows := []orderTotals{}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT product_id, SUM(quantity) AS total_ordered FROM orders GROUP BY product_id")
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int, len(rows))
	for _, r := range rows {
		totals[r.ProductID] = r.TotalOrdered
	}
	return totals, nil
}

// SalesTotals returns order count and revenue across all orders.
func (s *Store) SalesTotals(ctx context.Context) (count int, revenue float64, err error) {
	var row struct {
		Count   int     `db:"count"`
		Revenue float64 `db:"revenue"`
	}
	err = s.db.GetContext(ctx, &row,
		"SELECT COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue FROM orders")
	return row.Count, row.Revenue, err
}

// CountProducts returns the product total and how many are low on stock.
func (s *Store) CountProducts(ctx context.Context) (total, lowStock int, err error) {
	var row struct {
		Total    int `db:"total"`
		LowStock int `db:"low_stock"`
	}
	err = s.db.GetContext(ctx, &row, `SELECT COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN quantity < reorder_threshold THEN 1 ELSE 0 END), 0) AS low_stock
		FROM products`)
	return row.Total, row.LowStock, err
}
