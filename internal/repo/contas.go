package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/markimagemTv/botrailway/internal/domain"
)

// Contas is the pgx-backed domain.ContaRepo.
type Contas struct{ pool *pgxpool.Pool }

func NewContas(p *pgxpool.Pool) *Contas { return &Contas{pool: p} }

const contaColumns = `
	id, user_id, descricao, valor::text, vencimento, status, tipo,
	parcelas_restantes, data_pagamento, serie_id::text, created_at`

func (r *Contas) Create(ctx context.Context, c domain.Conta) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contas(user_id, descricao, valor, vencimento, status, tipo, parcelas_restantes, serie_id)
		VALUES($1,$2,$3::numeric,$4,$5,$6,$7,$8::uuid)
		RETURNING id
	`, c.UserID, c.Descricao, c.Valor.String(), c.Vencimento.Format("2006-01-02"),
		c.Status, c.Tipo, c.ParcelasRestantes, serieArg(c.SerieID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create conta: %w", err)
	}
	return id, nil
}

// CreateBatch inserts a pre-generated plan in one transaction so a partial
// schedule is never visible.
func (r *Contas) CreateBatch(ctx context.Context, cs []domain.Conta) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range cs {
		_, err := tx.Exec(ctx, `
			INSERT INTO contas(user_id, descricao, valor, vencimento, status, tipo, parcelas_restantes, serie_id)
			VALUES($1,$2,$3::numeric,$4,$5,$6,$7,$8::uuid)
		`, c.UserID, c.Descricao, c.Valor.String(), c.Vencimento.Format("2006-01-02"),
			c.Status, c.Tipo, c.ParcelasRestantes, serieArg(c.SerieID))
		if err != nil {
			return fmt.Errorf("insert plan row: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Contas) Get(ctx context.Context, id int64) (domain.Conta, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contaColumns+` FROM contas WHERE id=$1`, id)
	c, err := scanConta(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Conta{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Conta{}, fmt.Errorf("get conta: %w", err)
	}
	return c, nil
}

func (r *Contas) ListByStatus(ctx context.Context, userID int64, st domain.Status) ([]domain.Conta, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contaColumns+`
		FROM contas
		WHERE user_id=$1 AND status=$2
		ORDER BY vencimento, id
	`, userID, st)
	if err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// ListByPeriod selects by reference date: vencimento for pending rows,
// data_pagamento for paid ones.
func (r *Contas) ListByPeriod(ctx context.Context, userID int64, month, year int) ([]domain.Conta, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contaColumns+`
		FROM contas
		WHERE user_id=$1
		  AND (
		    (status='pending' AND EXTRACT(MONTH FROM vencimento)=$2 AND EXTRACT(YEAR FROM vencimento)=$3)
		    OR
		    (status='paid' AND data_pagamento IS NOT NULL
		     AND EXTRACT(MONTH FROM data_pagamento)=$2 AND EXTRACT(YEAR FROM data_pagamento)=$3)
		  )
		ORDER BY COALESCE(data_pagamento, vencimento), id
	`, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list by period: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Contas) UpdateDescription(ctx context.Context, id int64, descricao string) error {
	return r.update(ctx, `UPDATE contas SET descricao=$2 WHERE id=$1`, id, descricao)
}

func (r *Contas) UpdateAmount(ctx context.Context, id int64, valor decimal.Decimal) error {
	return r.update(ctx, `UPDATE contas SET valor=$2::numeric WHERE id=$1`, id, valor.String())
}

func (r *Contas) UpdateDueDate(ctx context.Context, id int64, vencimento time.Time) error {
	return r.update(ctx, `UPDATE contas SET vencimento=$2 WHERE id=$1`, id, vencimento.Format("2006-01-02"))
}

func (r *Contas) update(ctx context.Context, sql string, id int64, arg any) error {
	tag, err := r.pool.Exec(ctx, sql, id, arg)
	if err != nil {
		return fmt.Errorf("update conta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkPaid performs the pending→paid compare-and-set. It returns false with a
// nil error when the row exists but was already paid, so concurrent retries
// trigger at most one renewal.
func (r *Contas) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE contas
		SET status='paid', data_pagamento=$2
		WHERE id=$1 AND status='pending'
	`, id, paidAt.Format("2006-01-02"))
	if err != nil {
		return false, fmt.Errorf("mark paid: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contas WHERE id=$1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("mark paid check: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

func (r *Contas) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contas WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete conta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Contas) CountByStatus(ctx context.Context, st domain.Status) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contas WHERE status=$1`, st).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return n, nil
}

func serieArg(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func collect(rows pgx.Rows) ([]domain.Conta, error) {
	out := make([]domain.Conta, 0, 16)
	for rows.Next() {
		c, err := scanConta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConta(row pgx.Row) (domain.Conta, error) {
	var (
		c        domain.Conta
		valorStr string
		serieStr *string
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.Descricao, &valorStr, &c.Vencimento,
		&c.Status, &c.Tipo, &c.ParcelasRestantes, &c.DataPagamento,
		&serieStr, &c.CreatedAt,
	)
	if err != nil {
		return domain.Conta{}, err
	}
	c.Valor, err = decimal.NewFromString(valorStr)
	if err != nil {
		return domain.Conta{}, fmt.Errorf("valor %q: %w", valorStr, err)
	}
	if serieStr != nil {
		serie, err := uuid.Parse(*serieStr)
		if err != nil {
			return domain.Conta{}, fmt.Errorf("serie_id %q: %w", *serieStr, err)
		}
		c.SerieID = &serie
	}
	return c, nil
}
