package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"credit-bot/api/internal/portal"
	"credit-bot/api/internal/store"
)

type Router struct {
	Bot    *tgbotapi.BotAPI
	Portal *portal.Client
	Drafts *store.DraftRepo

	// UploadDelay overrides the artificial pause between progress stages
	// (0 keeps the controller default).
	UploadDelay time.Duration
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	// a field edit was requested — the next text message is the new value
	if field, ok := editWait.Load(cid); ok && upd.Message.Text != "" {
		editWait.Delete(cid)
		r.applyFieldEdit(context.Background(), cid, field.(string), upd.Message.Text)
		return
	}

	if upd.Message.Document != nil {
		r.acceptDocument(*upd.Message)
		return
	}
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	// plain text is treated as pasted certificate text
	if upd.Message.Text != "" {
		r.runUpload(context.Background(), cid, uploadInputText(upd.Message.Text))
	}
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send your internship certificate as a file or photo, or paste its text.\n"+
			"I will read it, pre-fill the credit form, and flag anything I am unsure about.\n"+
			"Commands: /form, /resume, /cancel, /health")
	case "health":
		r.send(cid, "✅ OK")
	case "form":
		// fresh form, nothing auto-filled
		r.openReview(context.Background(), cid, "")
	case "resume":
		r.resumeDraft(context.Background(), cid)
	case "cancel":
		clearChatState(cid)
		if r.Drafts != nil {
			_ = r.Drafts.Delete(context.Background(), cid)
		}
		r.send(cid, "Discarded. Send a certificate to start over.")
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	cid := cb.Message.Chat.ID
	data := cb.Data
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	switch {
	case data == "submit":
		r.onSubmit(context.Background(), cid, cb.Message.MessageID)
	case data == "confirm_yes":
		r.onConfirmYes(context.Background(), cid, cb.Message.MessageID)
	case data == "confirm_no":
		r.onConfirmNo(cid, cb.Message.MessageID)
	case len(data) > 5 && data[:5] == "edit:":
		r.onEditRequested(cid, data[5:])
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}
