package kot

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgUniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by Repo.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Repo stores tickets in Postgres, keyed by kot_id.
type Repo struct{ DB DB }

func (r *Repo) ListIDsDescending(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := r.DB.Query(ctx, `
		SELECT kot_id FROM kot
		WHERE kot_id LIKE $1
		ORDER BY kot_id COLLATE "C" DESC
		LIMIT $2`, prefix+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateIfAbsent inserts the ticket and its lines in one transaction. An
// existing kot_id is reported as ErrDuplicateKey and nothing is written.
func (r *Repo) CreateIfAbsent(ctx context.Context, t Ticket) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		INSERT INTO kot(kot_id, total_cents, payment_method, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kot_id) DO NOTHING`,
		t.ID, t.TotalCents, string(t.PaymentMethod), t.CreatedAt)
	if err != nil {
		return mapInsertErr(t.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, t.ID)
	}

	for i, it := range t.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO kot_items(kot_id, line_no, item_id, name, price_cents, qty, option)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.ID, i+1, it.ItemID, it.Name, it.PriceCents, it.Qty, it.Option); err != nil {
			return mapInsertErr(t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapInsertErr(t.ID, err)
	}
	return nil
}

func mapInsertErr(id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

const selectTickets = `
	SELECT k.kot_id, k.total_cents, k.payment_method, k.created_at,
	       i.item_id, i.name, i.price_cents, i.qty, i.option
	FROM kot k
	JOIN kot_items i ON i.kot_id = k.kot_id`

func (r *Repo) Get(ctx context.Context, id string) (Ticket, error) {
	ts, err := r.queryTickets(ctx, selectTickets+`
		WHERE k.kot_id = $1
		ORDER BY i.line_no`, id)
	if err != nil {
		return Ticket{}, err
	}
	if len(ts) == 0 {
		return Ticket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
	}
	return ts[0], nil
}

// ListByPrefix returns the tickets of one day (DDMMYY), in id order.
func (r *Repo) ListByPrefix(ctx context.Context, prefix string) ([]Ticket, error) {
	return r.queryTickets(ctx, selectTickets+`
		WHERE k.kot_id LIKE $1
		ORDER BY k.kot_id COLLATE "C", i.line_no`, prefix+"%")
}

func (r *Repo) queryTickets(ctx context.Context, sql string, args ...any) ([]Ticket, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		var (
			t      Ticket
			li     LineItem
			method string
			option pgtype.Text
		)
		if err := rows.Scan(&t.ID, &t.TotalCents, &method, &t.CreatedAt,
			&li.ItemID, &li.Name, &li.PriceCents, &li.Qty, &option); err != nil {
			return nil, err
		}
		if option.Valid {
			li.Option = Opt(option.String)
		}
		if n := len(out); n > 0 && out[n-1].ID == t.ID {
			out[n-1].Items = append(out[n-1].Items, li)
			continue
		}
		t.PaymentMethod = PaymentMethod(method)
		t.Items = []LineItem{li}
		out = append(out, t)
	}
	return out, rows.Err()
}
