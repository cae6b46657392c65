package bot

import (
	"context"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/markimagemTv/botrailway/internal/config"
	"github.com/markimagemTv/botrailway/internal/dialog"
)

// Handler adapts Telegram updates to the dialog state machine. One update per
// user is processed at a time; different users run concurrently.
type Handler struct {
	api    *tgbotapi.BotAPI
	cfg    config.Config
	dialog *dialog.Dialog

	locks [64]sync.Mutex
}

func NewHandler(api *tgbotapi.BotAPI, cfg config.Config, d *dialog.Dialog) *Handler {
	return &Handler{api: api, cfg: cfg, dialog: d}
}

func (h *Handler) userLock(userID int64) *sync.Mutex {
	return &h.locks[uint64(userID)%uint64(len(h.locks))]
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
		return
	}

	if upd.Message == nil {
		return
	}
	msg := upd.Message
	// contas são pessoais: só atendemos no privado
	if !msg.Chat.IsPrivate() {
		return
	}

	userID := msg.Chat.ID
	mu := h.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	var (
		reply dialog.Reply
		err   error
	)
	switch {
	case strings.HasPrefix(text, "/start"):
		reply, err = h.dialog.Start(ctx, userID)
	case strings.HasPrefix(text, "/stats"):
		if h.cfg.AdminChatID == 0 || userID != h.cfg.AdminChatID {
			reply = dialog.Reply{Text: "🚫 Esse comando é só do administrador."}
		} else {
			reply, err = h.dialog.Stats(ctx)
		}
	default:
		reply, err = h.dialog.HandleText(ctx, userID, text)
	}
	if err != nil {
		log.Printf("dialog (user %d): %v", userID, err)
	}
	h.send(userID, reply)
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Telegram exige resposta ao callback
	defer h.api.Request(tgbotapi.NewCallback(q.ID, ""))

	if q.Message == nil {
		return
	}
	userID := q.Message.Chat.ID

	act, err := dialog.ParseAction(q.Data)
	if err != nil {
		log.Printf("callback rejected (user %d): %v", userID, err)
		return
	}

	mu := h.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	reply, err := h.dialog.HandleAction(ctx, userID, act)
	if err != nil {
		log.Printf("dialog action (user %d): %v", userID, err)
	}
	h.send(userID, reply)
}

func (h *Handler) send(chatID int64, r dialog.Reply) {
	if r.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Markdown {
		msg.ParseMode = "Markdown"
	}
	if len(r.Buttons) > 0 {
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, row := range r.Buttons {
			var btns []tgbotapi.InlineKeyboardButton
			for _, b := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
			}
			rows = append(rows, btns)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("send (chat %d): %v", chatID, err)
	}
}
