package dialog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/markimagemTv/botrailway/internal/domain"
	"github.com/markimagemTv/botrailway/internal/session"
)

// ErrBadToken marks a callback payload the decoder refuses.
var ErrBadToken = errors.New("token de botão inválido")

// Action is a decoded button press.
type Action interface{ isAction() }

type MenuItem string

const (
	MenuNova      MenuItem = "nova"
	MenuPendentes MenuItem = "pendentes"
	MenuPagas     MenuItem = "pagas"
	MenuRelatorio MenuItem = "relatorio"
	MenuAjuda     MenuItem = "ajuda"
)

type MenuAction struct{ Item MenuItem }

// KindAction answers the "qual o tipo?" question of the add flow.
type KindAction struct{ Kind domain.Kind }

type PayAction struct{ ID int64 }

type UpdateAction struct{ ID int64 }

type UpdateFieldAction struct {
	Field session.Field
	ID    int64
}

type RemoveAction struct{ ID int64 }

type RenewAction struct{ Confirm bool }

func (MenuAction) isAction()        {}
func (KindAction) isAction()        {}
func (PayAction) isAction()         {}
func (UpdateAction) isAction()      {}
func (UpdateFieldAction) isAction() {}
func (RemoveAction) isAction()      {}
func (RenewAction) isAction()       {}

// ParseAction decodes a callback token. Anything outside the fixed vocabulary
// is rejected rather than best-effort split.
func ParseAction(data string) (Action, error) {
	switch data {
	case "repetir_sim":
		return RenewAction{Confirm: true}, nil
	case "repetir_nao":
		return RenewAction{Confirm: false}, nil
	}

	if item, ok := strings.CutPrefix(data, "menu_"); ok {
		switch MenuItem(item) {
		case MenuNova, MenuPendentes, MenuPagas, MenuRelatorio, MenuAjuda:
			return MenuAction{Item: MenuItem(item)}, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
	}

	if kind, ok := strings.CutPrefix(data, "tipo_"); ok {
		k := domain.Kind(kind)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		return KindAction{Kind: k}, nil
	}

	if rest, ok := strings.CutPrefix(data, "pagar_"); ok {
		id, err := parseID(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		return PayAction{ID: id}, nil
	}

	if rest, ok := strings.CutPrefix(data, "atualizar_"); ok {
		id, err := parseID(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		return UpdateAction{ID: id}, nil
	}

	if rest, ok := strings.CutPrefix(data, "remover_"); ok {
		id, err := parseID(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		return RemoveAction{ID: id}, nil
	}

	if rest, ok := strings.CutPrefix(data, "upd_"); ok {
		field, idPart, found := strings.Cut(rest, "_")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		f := session.Field(field)
		switch f {
		case session.FieldDescricao, session.FieldValor, session.FieldVencimento:
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		id, err := parseID(idPart)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
		}
		return UpdateFieldAction{Field: f, ID: id}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrBadToken, data)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadToken
	}
	return id, nil
}
