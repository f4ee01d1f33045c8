package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"veggie-shop/models"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier is satisfied by both DB and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStorage struct {
	db DB
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(db DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const productColumns = `p.id, p.name, p.description, p.category, p.price::text, p.original_price::text,
	p.image_url, p.cut_styles, p.freshness_days, p.is_organic, p.nutrition_info,
	p.is_active, p.stock, p.created_at, p.updated_at`

// productRow holds the scan targets for productColumns. Money and JSON
// columns are scanned raw and converted in product().
type productRow struct {
	p             models.Product
	price         string
	originalPrice *string
	nutrition     []byte
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.Name, &r.p.Description, &r.p.Category, &r.price, &r.originalPrice,
		&r.p.ImageURL, &r.p.CutStyles, &r.p.FreshnessDays, &r.p.IsOrganic, &r.nutrition,
		&r.p.IsActive, &r.p.Stock, &r.p.CreatedAt, &r.p.UpdatedAt,
	}
}

func (r *productRow) product() (models.Product, error) {
	p := r.p
	price, err := decimal.NewFromString(r.price)
	if err != nil {
		return p, fmt.Errorf("parse price of product %s: %w", p.ID, err)
	}
	p.Price = price
	if r.originalPrice != nil {
		op, err := decimal.NewFromString(*r.originalPrice)
		if err != nil {
			return p, fmt.Errorf("parse original price of product %s: %w", p.ID, err)
		}
		p.OriginalPrice = &op
	}
	if len(r.nutrition) > 0 {
		var ni models.NutritionInfo
		if err := json.Unmarshal(r.nutrition, &ni); err != nil {
			return p, fmt.Errorf("decode nutrition info of product %s: %w", p.ID, err)
		}
		p.NutritionInfo = &ni
	}
	if p.CutStyles == nil {
		p.CutStyles = []string{}
	}
	return p, nil
}

func productArgs(p models.Product) ([]any, error) {
	var originalPrice *string
	if p.OriginalPrice != nil {
		s := p.OriginalPrice.String()
		originalPrice = &s
	}
	var nutrition []byte
	if p.NutritionInfo != nil {
		b, err := json.Marshal(p.NutritionInfo)
		if err != nil {
			return nil, err
		}
		nutrition = b
	}
	cutStyles := p.CutStyles
	if cutStyles == nil {
		cutStyles = []string{}
	}
	return []any{
		p.ID, p.Name, p.Description, p.Category, p.Price.String(), originalPrice,
		p.ImageURL, cutStyles, p.FreshnessDays, p.IsOrganic, nutrition,
		p.IsActive, p.Stock, p.CreatedAt, p.UpdatedAt,
	}, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Users ----------------------------------------------------------------------

const userColumns = `id, email, first_name, last_name, profile_image_url, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStorage) UpsertUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			profile_image_url = EXCLUDED.profile_image_url,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns
	return scanUser(s.db.QueryRow(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.ProfileImageURL, user.Role, now,
	))
}

// Products -------------------------------------------------------------------

func (s *PostgresStorage) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var r productRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, err
		}
		p, err := r.product()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func productByID(ctx context.Context, q querier, id string, activeOnly, forUpdate bool) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	if activeOnly {
		query += ` AND p.is_active`
	}
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var r productRow
	if err := q.QueryRow(ctx, query, id).Scan(r.dest()...); err != nil {
		return nil, mapNoRows(err)
	}
	p, err := r.product()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStorage) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.is_active ORDER BY p.created_at DESC, p.id`)
}

func (s *PostgresStorage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return productByID(ctx, s.db, id, true, false)
}

func (s *PostgresStorage) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.is_active AND p.category = $1 ORDER BY p.created_at DESC, p.id`,
		category)
}

const insertProduct = `
	INSERT INTO products (id, name, description, category, price, original_price, image_url, cut_styles,
		freshness_days, is_organic, nutrition_info, is_active, stock, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func (s *PostgresStorage) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CutStyles == nil {
		product.CutStyles = []string{}
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	args, err := productArgs(product)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, insertProduct, args...); err != nil {
		return nil, err
	}
	return &product, nil
}

const updateProduct = `
	UPDATE products SET name = $2, description = $3, category = $4, price = $5, original_price = $6,
		image_url = $7, cut_styles = $8, freshness_days = $9, is_organic = $10, nutrition_info = $11,
		is_active = $12, stock = $13, updated_at = $14
	WHERE id = $1`

func (s *PostgresStorage) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	product, err := productByID(ctx, tx, id, false, true)
	if err != nil {
		return nil, err
	}
	update.Apply(product)
	product.UpdatedAt = time.Now().UTC()

	args, err := productArgs(*product)
	if err != nil {
		return nil, err
	}
	// created_at is immutable; drop it from the insert argument list
	args = append(args[:13:13], args[14])
	if _, err := tx.Exec(ctx, updateProduct, args...); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *PostgresStorage) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `UPDATE products SET is_active = false, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cart -----------------------------------------------------------------------

const cartColumns = `ci.id, ci.user_id, ci.product_id, ci.quantity, ci.cut_style, ci.created_at`

const cartQuery = `
		SELECT ` + cartColumns + `, ` + productColumns + `
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`

func (s *PostgresStorage) GetCartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	return queryCartItems(ctx, s.db, cartQuery, userID)
}

func queryCartItems(ctx context.Context, q querier, query string, userID string) ([]models.CartItem, error) {
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		var r productRow
		dest := append([]any{&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CutStyle, &item.CreatedAt}, r.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p, err := r.product()
		if err != nil {
			return nil, err
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddToCart relies on the (user_id, product_id, cut_style) unique key so that
// concurrent adds of the same line sum into one row.
func (s *PostgresStorage) AddToCart(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, cut_style, created_at)
		SELECT $1, $2, p.id, $4, $5, $6 FROM products p WHERE p.id = $3 AND p.is_active
		ON CONFLICT (user_id, product_id, cut_style)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity, created_at`
	err := s.db.QueryRow(ctx, query,
		uuid.NewString(), item.UserID, item.ProductID, item.Quantity, item.CutStyle, time.Now().UTC(),
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}

	product, err := productByID(ctx, s.db, item.ProductID, false, false)
	if err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

func (s *PostgresStorage) UpdateCartItem(ctx context.Context, userID, id string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.QueryRow(ctx, `
		UPDATE cart_items ci SET quantity = $3
		WHERE ci.id = $1 AND ci.user_id = $2
		RETURNING `+cartColumns, id, userID, quantity,
	).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CutStyle, &item.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}

	product, err := productByID(ctx, s.db, item.ProductID, false, false)
	if err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

func (s *PostgresStorage) RemoveFromCart(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

// Orders ---------------------------------------------------------------------

const orderColumns = `o.id, o.user_id, o.status, o.subtotal::text, o.tax_amount::text, o.delivery_fee::text,
	o.total_amount::text, o.delivery_address, o.delivery_slot, o.payment_method, o.payment_status,
	o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var subtotal, tax, fee, total string
	var address []byte
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &subtotal, &tax, &fee, &total, &address,
		&o.DeliverySlot, &o.PaymentMethod, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{subtotal, &o.Subtotal}, {tax, &o.TaxAmount}, {fee, &o.DeliveryFee}, {total, &o.TotalAmount},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, fmt.Errorf("parse amount of order %s: %w", o.ID, err)
		}
		*a.dst = d
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &o.DeliveryAddress); err != nil {
			return nil, fmt.Errorf("decode delivery address of order %s: %w", o.ID, err)
		}
	}
	o.OrderItems = []models.OrderItem{}
	return &o, nil
}

// attachOrderItems loads the items of every order in one query.
func (s *PostgresStorage) attachOrderItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := s.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.cut_style, oi.price::text, oi.created_at, `+productColumns+`
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at, oi.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var price string
		var r productRow
		dest := append([]any{&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.CutStyle, &price, &item.CreatedAt}, r.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return fmt.Errorf("parse price of order item %s: %w", item.ID, err)
		}
		p, err := r.product()
		if err != nil {
			return err
		}
		item.Product = &p
		if o, ok := byID[item.OrderID]; ok {
			o.OrderItems = append(o.OrderItems, item)
		}
	}
	return rows.Err()
}

func (s *PostgresStorage) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o`
	var args []any
	if userID != "" {
		query += ` WHERE o.user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := s.attachOrderItems(ctx, ptrs); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(ptrs))
	for _, o := range ptrs {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (s *PostgresStorage) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := scanOrder(s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := s.attachOrderItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrder writes the order, its items and the stock decrements in one
// transaction. Any failure rolls all of it back.
func (s *PostgresStorage) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := insertOrder(ctx, tx, order, items)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// PlaceOrderFromCart locks the caller's cart rows, builds the order from them
// and deletes exactly those rows in the transaction that writes the order. A
// second checkout of the same cart waits on the row locks and then finds the
// cart empty.
func (s *PostgresStorage) PlaceOrderFromCart(ctx context.Context, userID string, build OrderBuilder) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cart, err := queryCartItems(ctx, tx, cartQuery+` FOR UPDATE OF ci`, userID)
	if err != nil {
		return nil, fmt.Errorf("lock cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyOrder
	}

	order, items, err := build(cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	created, err := insertOrder(ctx, tx, order, items)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(cart))
	for i, item := range cart {
		ids[i] = item.ID
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`, userID, ids); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// insertOrder writes the order row, takes the stock and writes the items.
// Stock rows are updated in product id order so concurrent orders lock them
// in the same sequence.
func insertOrder(ctx context.Context, tx pgx.Tx, order models.Order, items []models.OrderItem) (*models.Order, error) {
	address, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, subtotal, tax_amount, delivery_fee, total_amount,
			delivery_address, delivery_slot, payment_method, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		order.ID, order.UserID, order.Status, order.Subtotal.String(), order.TaxAmount.String(),
		order.DeliveryFee.String(), order.TotalAmount.String(), address, order.DeliverySlot,
		order.PaymentMethod, order.PaymentStatus, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	needed := make(map[string]int, len(items))
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := needed[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}
	sort.Strings(productIDs)
	for _, id := range productIDs {
		if err := decrementStock(ctx, tx, id, needed[id], now); err != nil {
			return nil, err
		}
	}

	order.OrderItems = make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		item.CreatedAt = now
		item.Product = nil
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, cut_style, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.CutStyle, item.Price.String(), now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		order.OrderItems = append(order.OrderItems, item)
	}
	return &order, nil
}

func decrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int, now time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = $3 WHERE id = $2 AND stock >= $1`,
		quantity, productID, now)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientStock
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	order, err := scanOrder(s.db.QueryRow(ctx, `
		UPDATE orders o SET status = $2, updated_at = $3
		WHERE o.id = $1
		RETURNING `+orderColumns, id, status, time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	if err := s.attachOrderItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// Wishlist -------------------------------------------------------------------

func (s *PostgresStorage) GetWishlist(ctx context.Context, userID string) ([]models.Wishlist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT w.id, w.user_id, w.product_id, w.created_at, `+productColumns+`
		FROM wishlist w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, w.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Wishlist{}
	for rows.Next() {
		var item models.Wishlist
		var r productRow
		dest := append([]any{&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt}, r.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		p, err := r.product()
		if err != nil {
			return nil, err
		}
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddToWishlist is idempotent: the no-op update lets RETURNING yield the
// existing row on conflict.
func (s *PostgresStorage) AddToWishlist(ctx context.Context, item models.Wishlist) (*models.Wishlist, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO wishlist (id, user_id, product_id, created_at)
		SELECT $1, $2, p.id, $4 FROM products p WHERE p.id = $3 AND p.is_active
		ON CONFLICT (user_id, product_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, created_at`,
		uuid.NewString(), item.UserID, item.ProductID, time.Now().UTC(),
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}

	product, err := productByID(ctx, s.db, item.ProductID, false, false)
	if err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

func (s *PostgresStorage) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
