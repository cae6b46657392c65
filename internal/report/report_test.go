package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markimagemTv/botrailway/internal/domain"
)

func conta(desc string, valor float64, due time.Time, paid *time.Time) domain.Conta {
	st := domain.StatusPending
	if paid != nil {
		st = domain.StatusPaid
	}
	return domain.Conta{
		Descricao:     desc,
		Valor:         decimal.NewFromFloat(valor),
		Vencimento:    due,
		Status:        st,
		DataPagamento: paid,
		Tipo:          domain.KindSimple,
	}
}

func TestBuildTotalsIdentity(t *testing.T) {
	paidAt := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	rows := []domain.Conta{
		conta("Aluguel", 1500, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), nil),
		conta("Luz", 200.50, time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC), nil),
		conta("Internet", 99.90, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), &paidAt),
	}

	m := Build(3, 2025, rows)
	require.Len(t, m.Lines, 3)
	assert.False(t, m.Empty())

	sum := decimal.Zero
	for _, c := range rows {
		sum = sum.Add(c.Valor)
	}
	assert.True(t, m.TotalPago.Add(m.TotalPendente).Equal(sum),
		"paid + pending must equal the sum of all amounts")
	assert.True(t, m.TotalPago.Equal(decimal.NewFromFloat(99.90)))
	assert.True(t, m.TotalPendente.Equal(decimal.NewFromFloat(1700.50)))
}

func TestBuildOrdersByReferenceDate(t *testing.T) {
	paidAt := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	rows := []domain.Conta{
		conta("B", 10, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), nil),
		// due on the 1st but paid on the 20th: the paid date orders it last
		conta("C", 10, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), &paidAt),
		conta("A", 10, time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC), nil),
	}

	m := Build(3, 2025, rows)
	require.Len(t, m.Lines, 3)
	assert.Equal(t, "A", m.Lines[0].Descricao)
	assert.Equal(t, "B", m.Lines[1].Descricao)
	assert.Equal(t, "C", m.Lines[2].Descricao)
}

func TestEmptyPeriod(t *testing.T) {
	m := Build(7, 2031, nil)
	assert.True(t, m.Empty())
	assert.True(t, m.TotalPago.IsZero())
	assert.True(t, m.TotalPendente.IsZero())
	assert.Contains(t, Format(m), "Nenhuma conta")
}
