// Package dialog is the conversation state machine: it turns one inbound
// event per turn (free text or a decoded button press) into a session
// transition or a terminal repository action. It is transport-independent;
// internal/bot adapts it to Telegram.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/markimagemTv/botrailway/internal/domain"
	"github.com/markimagemTv/botrailway/internal/recurrence"
	"github.com/markimagemTv/botrailway/internal/report"
	"github.com/markimagemTv/botrailway/internal/session"
)

const msgErroInterno = "😵 Algo deu errado, tente novamente mais tarde."

type Dialog struct {
	sessions   session.Store
	contas     domain.ContaRepo
	reports    *report.Generator
	policy     recurrence.Policy
	fixedCount int

	now func() time.Time
}

func New(sessions session.Store, contas domain.ContaRepo, reports *report.Generator, policy recurrence.Policy, fixedCount int) *Dialog {
	if !policy.Valid() {
		policy = recurrence.PolicyPerpetual
	}
	if fixedCount < 1 {
		fixedCount = 12
	}
	return &Dialog{
		sessions:   sessions,
		contas:     contas,
		reports:    reports,
		policy:     policy,
		fixedCount: fixedCount,
		now:        time.Now,
	}
}

// Start clears any open flow and presents the main menu.
func (d *Dialog) Start(ctx context.Context, userID int64) (Reply, error) {
	if err := d.sessions.Delete(ctx, userID); err != nil {
		return text(msgErroInterno), err
	}
	menu := mainMenu()
	menu.Text = "Olá! Eu controlo suas contas a pagar. 😎\n\n" + menu.Text
	return menu, nil
}

// Stats is the admin-only scenario: row counts across all users. Identity
// gating happens in the transport layer.
func (d *Dialog) Stats(ctx context.Context) (Reply, error) {
	pending, err := d.contas.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		return text(msgErroInterno), err
	}
	paid, err := d.contas.CountByStatus(ctx, domain.StatusPaid)
	if err != nil {
		return text(msgErroInterno), err
	}
	return text(fmt.Sprintf("📈 Contas no sistema:\n⏳ pendentes: %d\n✅ pagas: %d", pending, paid)), nil
}

// HandleText consumes one free-text turn for the user's current step.
func (d *Dialog) HandleText(ctx context.Context, userID int64, input string) (Reply, error) {
	input = strings.TrimSpace(input)

	sess, ok, err := d.sessions.Get(ctx, userID)
	if err != nil {
		return text(msgErroInterno), err
	}
	if !ok {
		return mainMenu(), nil
	}

	switch sess.Step {
	case session.StepDescription:
		if input == "" {
			return text("❌ A descrição não pode ser vazia. Qual a descrição da conta?"), nil
		}
		sess.Draft.Descricao = input
		sess.Step = session.StepAmount
		return d.advance(ctx, sess, "💰 Qual o valor? (ex: 123,45)")

	case session.StepAmount:
		v, err := ParseAmount(input)
		if err != nil {
			return text("❌ " + err.Error()), nil
		}
		sess.Draft.Valor = v
		sess.Step = session.StepDueDate
		return d.advance(ctx, sess, "📅 Qual o vencimento? (dd/mm/aaaa)")

	case session.StepDueDate:
		due, err := ParseDate(input)
		if err != nil {
			return text("❌ " + err.Error()), nil
		}
		sess.Draft.Vencimento = due
		sess.Step = session.StepKind
		if err := d.sessions.Put(ctx, sess); err != nil {
			return d.abandon(ctx, userID, err)
		}
		return kindKeyboard("Qual o tipo da conta?"), nil

	case session.StepKind:
		k, ok := kindFromText(input)
		if !ok {
			return kindKeyboard("❌ Não entendi. Escolha o tipo da conta:"), nil
		}
		return d.chooseKind(ctx, sess, k)

	case session.StepInstallments:
		n, err := ParseInstallments(input)
		if err != nil {
			return text("❌ " + err.Error()), nil
		}
		return d.createPlan(ctx, sess, domain.KindInstallment, n)

	case session.StepUpdateValue:
		return d.applyUpdate(ctx, sess, input)

	case session.StepReportPeriod:
		month, year, err := ParsePeriod(input)
		if err != nil {
			return text("❌ " + err.Error()), nil
		}
		if err := d.sessions.Delete(ctx, userID); err != nil {
			return text(msgErroInterno), err
		}
		monthly, err := d.reports.Monthly(ctx, userID, month, year)
		if err != nil {
			return text(msgErroInterno), err
		}
		return Reply{Text: report.Format(monthly), Markdown: true}, nil

	case session.StepRenewConfirm:
		switch strings.ToLower(input) {
		case "sim", "s":
			return d.confirmRenew(ctx, sess)
		case "não", "nao", "n":
			return d.declineRenew(ctx, sess)
		}
		return text("Responda Sim ou Não, ou use os botões. 🙂"), nil
	}

	// unknown step in storage: reset rather than strand the user
	if err := d.sessions.Delete(ctx, userID); err != nil {
		return text(msgErroInterno), err
	}
	return mainMenu(), nil
}

// HandleAction consumes one decoded button press.
func (d *Dialog) HandleAction(ctx context.Context, userID int64, act Action) (Reply, error) {
	switch a := act.(type) {
	case MenuAction:
		return d.menu(ctx, userID, a.Item)

	case KindAction:
		sess, ok, err := d.sessions.Get(ctx, userID)
		if err != nil {
			return text(msgErroInterno), err
		}
		if !ok || sess.Step != session.StepKind {
			return mainMenu(), nil
		}
		return d.chooseKind(ctx, sess, a.Kind)

	case PayAction:
		if err := d.sessions.Delete(ctx, userID); err != nil {
			return text(msgErroInterno), err
		}
		return d.pay(ctx, userID, a.ID)

	case UpdateAction:
		if err := d.sessions.Delete(ctx, userID); err != nil {
			return text(msgErroInterno), err
		}
		c, err := d.contas.Get(ctx, a.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return text("❌ Conta não encontrada (já removida?)."), nil
		}
		if err != nil {
			return text(msgErroInterno), err
		}
		return updateFieldKeyboard(c), nil

	case UpdateFieldAction:
		if err := d.sessions.Delete(ctx, userID); err != nil {
			return text(msgErroInterno), err
		}
		if _, err := d.contas.Get(ctx, a.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return text("❌ Conta não encontrada (já removida?)."), nil
			}
			return text(msgErroInterno), err
		}
		sess := session.Session{
			UserID:      userID,
			Step:        session.StepUpdateValue,
			TargetID:    a.ID,
			UpdateField: a.Field,
		}
		if err := d.sessions.Put(ctx, sess); err != nil {
			return text(msgErroInterno), err
		}
		return text(updatePrompt(a.Field)), nil

	case RemoveAction:
		if err := d.sessions.Delete(ctx, userID); err != nil {
			return text(msgErroInterno), err
		}
		err := d.contas.Delete(ctx, a.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return text("❌ Conta não encontrada (já removida?)."), nil
		}
		if err != nil {
			return text(msgErroInterno), err
		}
		return text(fmt.Sprintf("🗑 Conta #%d removida.", a.ID)), nil

	case RenewAction:
		sess, ok, err := d.sessions.Get(ctx, userID)
		if err != nil {
			return text(msgErroInterno), err
		}
		if !ok || sess.Step != session.StepRenewConfirm {
			// stale button tap after the session was consumed
			return text("Nada pendente de confirmação. 👍"), nil
		}
		if a.Confirm {
			return d.confirmRenew(ctx, sess)
		}
		return d.declineRenew(ctx, sess)
	}

	return mainMenu(), nil
}

func (d *Dialog) menu(ctx context.Context, userID int64, item MenuItem) (Reply, error) {
	if err := d.sessions.Delete(ctx, userID); err != nil {
		return text(msgErroInterno), err
	}

	switch item {
	case MenuNova:
		sess := session.Session{UserID: userID, Step: session.StepDescription}
		if err := d.sessions.Put(ctx, sess); err != nil {
			return text(msgErroInterno), err
		}
		return text("📝 Qual a descrição da conta?"), nil

	case MenuPendentes:
		return d.listing(ctx, userID, domain.StatusPending)

	case MenuPagas:
		return d.listing(ctx, userID, domain.StatusPaid)

	case MenuRelatorio:
		sess := session.Session{UserID: userID, Step: session.StepReportPeriod}
		if err := d.sessions.Put(ctx, sess); err != nil {
			return text(msgErroInterno), err
		}
		return text("📅 Qual período? (mm/aaaa, ex: 03/2025)"), nil

	case MenuAjuda:
		return text("Eu registro suas contas a pagar.\n\n" +
			"➕ Nova conta: respondo passo a passo (descrição, valor, vencimento, tipo).\n" +
			"⏳ Pendentes / ✅ Pagas: listam suas contas com botões de ação.\n" +
			"📊 Relatório: totais pagos e pendentes de um mês.\n\n" +
			"Use /start a qualquer momento para recomeçar."), nil
	}
	return mainMenu(), nil
}

func (d *Dialog) listing(ctx context.Context, userID int64, st domain.Status) (Reply, error) {
	rows, err := d.contas.ListByStatus(ctx, userID, st)
	if err != nil {
		return text(msgErroInterno), err
	}
	if len(rows) == 0 {
		if st == domain.StatusPending {
			return text("🎉 Nenhuma conta pendente!"), nil
		}
		return text("Nenhuma conta paga por aqui ainda."), nil
	}

	var b strings.Builder
	if st == domain.StatusPending {
		b.WriteString("⏳ *Contas pendentes:*\n\n")
	} else {
		b.WriteString("✅ *Contas pagas:*\n\n")
	}
	buttons := make([][]Button, 0, len(rows))
	for _, c := range rows {
		b.WriteString(formatConta(c) + "\n")
		buttons = append(buttons, contaButtons(c, st == domain.StatusPending))
	}
	return Reply{Text: b.String(), Markdown: true, Buttons: buttons}, nil
}

func (d *Dialog) chooseKind(ctx context.Context, sess session.Session, k domain.Kind) (Reply, error) {
	switch k {
	case domain.KindSimple:
		return d.createPlan(ctx, sess, k, 1)

	case domain.KindInstallment:
		sess.Draft.Tipo = k
		sess.Step = session.StepInstallments
		return d.advance(ctx, sess, "Em quantas parcelas? (1 a 100)")

	case domain.KindWeekly, domain.KindMonthly:
		count := 1
		if d.policy == recurrence.PolicyFixedCount {
			count = d.fixedCount
		}
		return d.createPlan(ctx, sess, k, count)
	}
	return kindKeyboard("❌ Tipo desconhecido. Escolha o tipo da conta:"), nil
}

// createPlan is the single terminal action of a completed add flow.
func (d *Dialog) createPlan(ctx context.Context, sess session.Session, k domain.Kind, count int) (Reply, error) {
	template := domain.Conta{
		UserID:     sess.UserID,
		Descricao:  sess.Draft.Descricao,
		Valor:      sess.Draft.Valor,
		Vencimento: sess.Draft.Vencimento,
		Tipo:       k,
	}
	rows := recurrence.Plan(template, count)

	var err error
	var firstID int64
	if len(rows) == 1 {
		firstID, err = d.contas.Create(ctx, rows[0])
	} else {
		err = d.contas.CreateBatch(ctx, rows)
	}
	if err != nil {
		return d.abandon(ctx, sess.UserID, err)
	}
	if err := d.sessions.Delete(ctx, sess.UserID); err != nil {
		return text(msgErroInterno), err
	}

	due := template.Vencimento.Format("02/01/2006")
	valor := template.Valor.StringFixed(2)
	switch {
	case k == domain.KindInstallment:
		last := rows[len(rows)-1].Vencimento.Format("02/01/2006")
		return text(fmt.Sprintf("✅ Conta %q criada em %d parcelas de R$ %s.\nPrimeira: %s · Última: %s",
			template.Descricao, count, valor, due, last)), nil
	case count > 1:
		return text(fmt.Sprintf("✅ Conta %q (%s) criada com %d ocorrências de R$ %s a partir de %s.",
			template.Descricao, kindLabel(k), count, valor, due)), nil
	case k == domain.KindWeekly || k == domain.KindMonthly:
		return text(fmt.Sprintf("✅ Conta #%d %q (%s) criada: R$ %s, vence %s.\nAo pagar, pergunto se repete. 🔁",
			firstID, template.Descricao, kindLabel(k), valor, due)), nil
	default:
		return text(fmt.Sprintf("✅ Conta #%d %q criada: R$ %s, vence %s.",
			firstID, template.Descricao, valor, due)), nil
	}
}

func (d *Dialog) pay(ctx context.Context, userID, id int64) (Reply, error) {
	c, err := d.contas.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return text("❌ Conta não encontrada (já removida?)."), nil
	}
	if err != nil {
		return text(msgErroInterno), err
	}

	paid, err := d.contas.MarkPaid(ctx, id, d.today())
	if errors.Is(err, domain.ErrNotFound) {
		return text("❌ Conta não encontrada (já removida?)."), nil
	}
	if err != nil {
		return text(msgErroInterno), err
	}
	if !paid {
		return text(fmt.Sprintf("⚠️ A conta #%d já estava paga.", id)), nil
	}

	if d.policy == recurrence.PolicyPerpetual &&
		(c.Tipo == domain.KindWeekly || c.Tipo == domain.KindMonthly) {
		next, _ := recurrence.Successor(c)
		sess := session.Session{UserID: userID, Step: session.StepRenewConfirm, TargetID: id}
		if err := d.sessions.Put(ctx, sess); err != nil {
			return text(msgErroInterno), err
		}
		return renewKeyboard(c, next.Vencimento.Format("02/01/2006")), nil
	}

	if c.Tipo == domain.KindInstallment && c.ParcelasRestantes != nil {
		if restam := *c.ParcelasRestantes - 1; restam > 0 {
			return text(fmt.Sprintf("✅ Parcela #%d paga! Restam %d parcelas.", id, restam)), nil
		}
		return text(fmt.Sprintf("🎉 Parcela #%d paga — era a última!", id)), nil
	}
	return text(fmt.Sprintf("✅ Conta #%d paga!", id)), nil
}

func (d *Dialog) confirmRenew(ctx context.Context, sess session.Session) (Reply, error) {
	// consume the session first: a second tap finds nothing to confirm
	if err := d.sessions.Delete(ctx, sess.UserID); err != nil {
		return text(msgErroInterno), err
	}

	c, err := d.contas.Get(ctx, sess.TargetID)
	if errors.Is(err, domain.ErrNotFound) {
		return text("❌ Conta não encontrada (já removida?)."), nil
	}
	if err != nil {
		return text(msgErroInterno), err
	}

	next, ok := recurrence.Successor(c)
	if !ok {
		return text("Essa conta não se repete. 👍"), nil
	}
	id, err := d.contas.Create(ctx, next)
	if err != nil {
		return text(msgErroInterno), err
	}
	return text(fmt.Sprintf("🔁 Próxima conta #%d criada: %q vence %s.",
		id, next.Descricao, next.Vencimento.Format("02/01/2006"))), nil
}

func (d *Dialog) declineRenew(ctx context.Context, sess session.Session) (Reply, error) {
	if err := d.sessions.Delete(ctx, sess.UserID); err != nil {
		return text(msgErroInterno), err
	}
	return text("👍 Ok, essa conta não se repete mais."), nil
}

func (d *Dialog) applyUpdate(ctx context.Context, sess session.Session, input string) (Reply, error) {
	var (
		err  error
		done string
	)
	switch sess.UpdateField {
	case session.FieldValor:
		v, perr := ParseAmount(input)
		if perr != nil {
			return text("❌ " + perr.Error()), nil
		}
		err = d.contas.UpdateAmount(ctx, sess.TargetID, v)
		done = fmt.Sprintf("✅ Valor da conta #%d atualizado para R$ %s.", sess.TargetID, v.StringFixed(2))

	case session.FieldVencimento:
		due, perr := ParseDate(input)
		if perr != nil {
			return text("❌ " + perr.Error()), nil
		}
		err = d.contas.UpdateDueDate(ctx, sess.TargetID, due)
		done = fmt.Sprintf("✅ Vencimento da conta #%d atualizado para %s.", sess.TargetID, due.Format("02/01/2006"))

	case session.FieldDescricao:
		if input == "" {
			return text("❌ A descrição não pode ser vazia."), nil
		}
		err = d.contas.UpdateDescription(ctx, sess.TargetID, input)
		done = fmt.Sprintf("✅ Descrição da conta #%d atualizada.", sess.TargetID)

	default:
		if err := d.sessions.Delete(ctx, sess.UserID); err != nil {
			return text(msgErroInterno), err
		}
		return mainMenu(), nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		_ = d.sessions.Delete(ctx, sess.UserID)
		return text("❌ Conta não encontrada (já removida?)."), nil
	}
	if err != nil {
		return d.abandon(ctx, sess.UserID, err)
	}
	if err := d.sessions.Delete(ctx, sess.UserID); err != nil {
		return text(msgErroInterno), err
	}
	return text(done), nil
}

// advance stores the session at its next step and asks the next question.
func (d *Dialog) advance(ctx context.Context, sess session.Session, prompt string) (Reply, error) {
	if err := d.sessions.Put(ctx, sess); err != nil {
		return d.abandon(ctx, sess.UserID, err)
	}
	return text(prompt), nil
}

// abandon drops the in-progress session after a persistence failure so the
// user never gets stuck mid-flow, and surfaces the cause for logging.
func (d *Dialog) abandon(ctx context.Context, userID int64, err error) (Reply, error) {
	_ = d.sessions.Delete(ctx, userID)
	return text(msgErroInterno), err
}

func (d *Dialog) today() time.Time {
	n := d.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func kindFromText(s string) (domain.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "única", "unica", "simples", "1":
		return domain.KindSimple, true
	case "parcelada", "parcelado", "2":
		return domain.KindInstallment, true
	case "semanal", "3":
		return domain.KindWeekly, true
	case "mensal", "4":
		return domain.KindMonthly, true
	}
	return "", false
}

func kindLabel(k domain.Kind) string {
	switch k {
	case domain.KindSimple:
		return "única"
	case domain.KindInstallment:
		return "parcelada"
	case domain.KindWeekly:
		return "semanal"
	case domain.KindMonthly:
		return "mensal"
	}
	return string(k)
}

func updatePrompt(f session.Field) string {
	switch f {
	case session.FieldValor:
		return "💰 Qual o novo valor? (ex: 123,45)"
	case session.FieldVencimento:
		return "📅 Qual o novo vencimento? (dd/mm/aaaa)"
	default:
		return "📝 Qual a nova descrição?"
	}
}

func formatConta(c domain.Conta) string {
	extra := ""
	if c.Tipo == domain.KindInstallment && c.ParcelasRestantes != nil {
		extra = fmt.Sprintf(" · restam %d", *c.ParcelasRestantes)
	} else if c.Tipo == domain.KindWeekly || c.Tipo == domain.KindMonthly {
		extra = " · " + kindLabel(c.Tipo)
	}
	date := c.ReferenceDate().Format("02/01/2006")
	return fmt.Sprintf("#%d %s — R$ %s (%s)%s", c.ID, c.Descricao, c.Valor.StringFixed(2), date, extra)
}
