package dialog

import (
	"fmt"

	"github.com/markimagemTv/botrailway/internal/domain"
)

// Reply is a transport-independent answer: text plus an optional inline
// keyboard. The bot adapter turns it into a Telegram message.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
}

type Button struct {
	Label string
	Data  string
}

func text(s string) Reply { return Reply{Text: s} }

func mainMenu() Reply {
	return Reply{
		Text: "O que deseja fazer?",
		Buttons: [][]Button{
			{{Label: "➕ Nova conta", Data: "menu_nova"}},
			{{Label: "⏳ Pendentes", Data: "menu_pendentes"}, {Label: "✅ Pagas", Data: "menu_pagas"}},
			{{Label: "📊 Relatório", Data: "menu_relatorio"}, {Label: "ℹ️ Ajuda", Data: "menu_ajuda"}},
		},
	}
}

func kindKeyboard(prompt string) Reply {
	return Reply{
		Text: prompt,
		Buttons: [][]Button{
			{{Label: "1️⃣ Única", Data: "tipo_simple"}},
			{{Label: "📆 Parcelada", Data: "tipo_installment"}},
			{{Label: "🔁 Semanal", Data: "tipo_weekly"}, {Label: "🔁 Mensal", Data: "tipo_monthly"}},
		},
	}
}

func renewKeyboard(c domain.Conta, nextDue string) Reply {
	return Reply{
		Text: fmt.Sprintf("✅ Conta #%d paga!\n\nRepetir %q para %s?", c.ID, c.Descricao, nextDue),
		Buttons: [][]Button{
			{{Label: "👍 Sim", Data: "repetir_sim"}, {Label: "👎 Não", Data: "repetir_nao"}},
		},
	}
}

func updateFieldKeyboard(c domain.Conta) Reply {
	return Reply{
		Text: fmt.Sprintf("O que atualizar na conta #%d (%s)?", c.ID, c.Descricao),
		Buttons: [][]Button{
			{{Label: "📝 Descrição", Data: fmt.Sprintf("upd_descricao_%d", c.ID)}},
			{{Label: "💰 Valor", Data: fmt.Sprintf("upd_valor_%d", c.ID)}},
			{{Label: "📅 Vencimento", Data: fmt.Sprintf("upd_vencimento_%d", c.ID)}},
		},
	}
}

func contaButtons(c domain.Conta, includePay bool) []Button {
	row := []Button{}
	if includePay {
		row = append(row, Button{Label: fmt.Sprintf("💰 Pagar #%d", c.ID), Data: fmt.Sprintf("pagar_%d", c.ID)})
	}
	row = append(row,
		Button{Label: "✏️", Data: fmt.Sprintf("atualizar_%d", c.ID)},
		Button{Label: "🗑", Data: fmt.Sprintf("remover_%d", c.ID)},
	)
	return row
}
