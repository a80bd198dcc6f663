package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"credit-bot/api/internal/review"
	"credit-bot/api/internal/store"
)

func (r *Router) showForm(cid int64, sess *reviewSession) {
	msg := tgbotapi.NewMessage(cid, renderForm(sess.Form, sess.UploadID))
	msg.ReplyMarkup = makeFormKeyboard()
	_, _ = r.Bot.Send(msg)
}

func (r *Router) onEditRequested(cid int64, field string) {
	if _, ok := session(cid); !ok {
		r.send(cid, "No form open. Send a certificate or use /form.")
		return
	}
	editWait.Store(cid, field)
	r.send(cid, "Send the new value for "+review.FieldLabel(field)+".")
}

func (r *Router) applyFieldEdit(ctx context.Context, cid int64, field, value string) {
	sess, ok := session(cid)
	if !ok {
		r.send(cid, "No form open. Send a certificate or use /form.")
		return
	}
	sess.Form.FieldEdited(field, value)
	r.saveDraft(ctx, cid, sess)
	r.showForm(cid, sess)
}

// onSubmit gates the actual submission: if any field is still low/medium
// confidence right now, ask first. Edits since auto-fill count.
func (r *Router) onSubmit(ctx context.Context, cid int64, msgID int) {
	sess, ok := session(cid)
	if !ok {
		r.send(cid, "No form open. Send a certificate or use /form.")
		return
	}

	if sess.Form.NeedsConfirmation() {
		confirmWait.Store(cid, true)
		msg := tgbotapi.NewMessage(cid, "⚠️ Some fields are still low confidence. Submit anyway?")
		msg.ReplyMarkup = makeSubmitConfirmKeyboard()
		_, _ = r.Bot.Send(msg)
		return
	}
	r.doSubmit(ctx, cid, msgID)
}

func (r *Router) onConfirmYes(ctx context.Context, cid int64, msgID int) {
	if _, ok := confirmWait.LoadAndDelete(cid); !ok {
		r.send(cid, "Nothing awaiting confirmation.")
		return
	}
	// drop the yes/no keyboard
	edit := tgbotapi.NewEditMessageReplyMarkup(cid, msgID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	_, _ = r.Bot.Send(edit)
	r.doSubmit(ctx, cid, msgID)
}

func (r *Router) onConfirmNo(cid int64, msgID int) {
	confirmWait.Delete(cid)
	edit := tgbotapi.NewEditMessageReplyMarkup(cid, msgID, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	_, _ = r.Bot.Send(edit)
	r.send(cid, "Review the flagged fields, then press Submit again.")
}

func (r *Router) doSubmit(ctx context.Context, cid int64, msgID int) {
	sess, ok := session(cid)
	if !ok {
		r.send(cid, "No form open. Send a certificate or use /form.")
		return
	}
	if _, inFlight := submitBusy.LoadOrStore(cid, true); inFlight {
		return
	}
	defer submitBusy.Delete(cid)

	r.send(cid, "📤 Submitting…")
	redirect, err := r.Portal.SubmitInternship(ctx, sess.Form.Submission(sess.UploadID))
	if err != nil {
		// the form stays exactly as the student left it; resubmission is manual
		r.send(cid, "Submission failed: "+err.Error())
		r.showForm(cid, sess)
		return
	}

	resultURL := r.Portal.AbsoluteURL(redirect)
	if r.Drafts != nil {
		if err := r.Drafts.MarkSubmitted(ctx, cid, resultURL); err != nil && err != store.ErrNotFound {
			log.Printf("mark submitted chat %d: %v", cid, err)
		}
	}
	clearChatState(cid)
	r.send(cid, "✅ Submitted. Your result: "+resultURL)
}

func (r *Router) resumeDraft(ctx context.Context, cid int64) {
	if r.Drafts == nil {
		r.send(cid, "Draft storage is not configured.")
		return
	}
	row, err := r.Drafts.Find(ctx, cid)
	if err != nil {
		r.send(cid, "No saved draft. Send a certificate to start.")
		return
	}
	if row.Submitted {
		r.send(cid, "Your last form was already submitted. Result: "+row.ResultURL)
		return
	}
	sess := &reviewSession{UploadID: row.UploadID, Form: review.RestoreForm(row.Form)}
	sessions.Store(cid, sess)
	r.showForm(cid, sess)
}

func (r *Router) saveDraft(ctx context.Context, cid int64, sess *reviewSession) {
	if r.Drafts == nil {
		return
	}
	if err := r.Drafts.Upsert(ctx, cid, sess.UploadID, sess.Form.Snapshot()); err != nil {
		log.Printf("save draft chat %d: %v", cid, err)
	}
}
