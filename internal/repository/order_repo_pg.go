package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/malchincamp/campbooking/internal/domain"
)

type OrderRepository interface {
	// CreateCheckout writes the order, its items, the bookings and the invoice
	// in one transaction. A stock shortage or date conflict rolls back
	// everything; a non-empty shortage list means nothing was committed.
	CreateCheckout(ctx context.Context, order *domain.Order, bookings []*domain.Booking, invoice *domain.Invoice) ([]domain.StockShortage, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) CreateCheckout(ctx context.Context, order *domain.Order, bookings []*domain.Booking, invoice *domain.Invoice) ([]domain.StockShortage, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var shortages []domain.StockShortage
	for i := range order.Items {
		item := &order.Items[i]
		var stock int
		if err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, item.ProductID).Scan(&stock); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		if stock < item.Quantity {
			shortages = append(shortages, domain.StockShortage{ProductID: item.ProductID, Required: item.Quantity, Available: stock})
			continue
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at=now() WHERE id=$1`, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if len(shortages) > 0 {
		return shortages, domain.ErrOutOfStock // rollback via defer
	}

	order.Status = domain.OrderStatusCreated
	if err := tx.QueryRow(ctx, `INSERT INTO orders (number, user_id, status, subtotal_tugrik, fee_tugrik, total_tugrik)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		order.Number, order.UserID, order.Status, order.SubtotalTugrik, order.FeeTugrik, order.TotalTugrik).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRow(ctx, `INSERT INTO order_items (order_id, product_id, name, price_tugrik, quantity)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			item.OrderID, item.ProductID, item.Name, item.PriceTugrik, item.Quantity).Scan(&item.ID); err != nil {
			return nil, err
		}
	}

	for _, b := range bookings {
		b.OrderID = order.ID
		b.Status = domain.BookingStatusConfirmed
		if err := insertBookingTx(ctx, tx, b); err != nil {
			return nil, err
		}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO invoices (number, order_id, subtotal_tugrik, fee_tugrik, total_tugrik)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, issued_at`,
		invoice.Number, order.ID, invoice.SubtotalTugrik, invoice.FeeTugrik, invoice.TotalTugrik).
		Scan(&invoice.ID, &invoice.IssuedAt); err != nil {
		return nil, err
	}
	invoice.OrderID = order.ID
	invoice.UserID = order.UserID

	return nil, tx.Commit(ctx)
}

const orderColumns = `id, number, user_id, status, subtotal_tugrik, fee_tugrik, total_tugrik, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.SubtotalTugrik, &o.FeeTugrik, &o.TotalTugrik, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGOrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE number=$1`, number))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, order_id, product_id, name, price_tugrik, quantity FROM order_items WHERE order_id=$1 ORDER BY id`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.PriceTugrik, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PGOrderRepository) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT i.id, i.number, i.order_id, o.user_id, i.subtotal_tugrik, i.fee_tugrik, i.total_tugrik, i.issued_at
		FROM invoices i JOIN orders o ON o.id = i.order_id
		WHERE i.number=$1`, number)
	var inv domain.Invoice
	if err := row.Scan(&inv.ID, &inv.Number, &inv.OrderID, &inv.UserID, &inv.SubtotalTugrik, &inv.FeeTugrik, &inv.TotalTugrik, &inv.IssuedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
