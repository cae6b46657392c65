package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markimagemTv/botrailway/internal/domain"
	"github.com/markimagemTv/botrailway/internal/session"
)

func TestParseActionValid(t *testing.T) {
	cases := []struct {
		data string
		want Action
	}{
		{"pagar_12", PayAction{ID: 12}},
		{"atualizar_3", UpdateAction{ID: 3}},
		{"remover_7", RemoveAction{ID: 7}},
		{"repetir_sim", RenewAction{Confirm: true}},
		{"repetir_nao", RenewAction{Confirm: false}},
		{"upd_descricao_5", UpdateFieldAction{Field: session.FieldDescricao, ID: 5}},
		{"upd_valor_5", UpdateFieldAction{Field: session.FieldValor, ID: 5}},
		{"upd_vencimento_5", UpdateFieldAction{Field: session.FieldVencimento, ID: 5}},
		{"menu_nova", MenuAction{Item: MenuNova}},
		{"menu_relatorio", MenuAction{Item: MenuRelatorio}},
		{"tipo_simple", KindAction{Kind: domain.KindSimple}},
		{"tipo_monthly", KindAction{Kind: domain.KindMonthly}},
	}
	for _, tc := range cases {
		got, err := ParseAction(tc.data)
		require.NoError(t, err, "token %q", tc.data)
		assert.Equal(t, tc.want, got, "token %q", tc.data)
	}
}

func TestParseActionRejectsMalformed(t *testing.T) {
	bad := []string{
		"", "pagar_", "pagar_abc", "pagar_-1", "pagar_0",
		"upd_valor", "upd_saldo_3", "upd_valor_x",
		"menu_contas", "tipo_yearly", "repetir_talvez",
		"contact:1", "pagar_12_extra_stuff",
	}
	for _, data := range bad {
		_, err := ParseAction(data)
		assert.ErrorIs(t, err, ErrBadToken, "token %q", data)
	}
}
