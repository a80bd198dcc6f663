package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"credit-bot/api/internal/portal"
	"credit-bot/api/internal/review"
	"credit-bot/api/internal/util"
)

func uploadInputText(text string) review.Input {
	return review.Input{Text: text}
}

func (r *Router) acceptDocument(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	data, err := r.downloadFile(msg.Document.FileID)
	if err != nil {
		r.send(cid, "❌ Could not download the file: "+err.Error())
		return
	}
	r.runUpload(context.Background(), cid, review.Input{
		Filename: msg.Document.FileName,
		Data:     data,
	})
}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]
	data, err := r.downloadFile(ph.FileID)
	if err != nil {
		r.send(cid, "❌ Could not download the photo: "+err.Error())
		return
	}
	r.runUpload(context.Background(), cid, review.Input{
		Filename: "certificate" + util.SniffImageExt(data),
		Data:     data,
	})
}

func (r *Router) downloadFile(fileID string) ([]byte, error) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// runUpload drives one extraction attempt: staged progress message, then
// navigation into the review form. One attempt per chat at a time.
func (r *Router) runUpload(ctx context.Context, cid int64, in review.Input) {
	if _, inFlight := uploadBusy.LoadOrStore(cid, true); inFlight {
		r.send(cid, "⏳ Still working on your previous certificate.")
		return
	}
	defer uploadBusy.Delete(cid)

	progress, _ := r.Bot.Send(tgbotapi.NewMessage(cid, progressLine(review.StageReceived)))

	up := review.NewUploader(r.Portal)
	if r.UploadDelay > 0 {
		up.Delay = r.UploadDelay
	}
	up.Notify = func(s review.Stage) {
		edit := tgbotapi.NewEditMessageText(cid, progress.MessageID, progressLine(s))
		_, _ = r.Bot.Send(edit)
	}

	redirect, err := up.Submit(ctx, in)
	if err != nil {
		// hide the progress indicator and show the error verbatim
		_, _ = r.Bot.Request(tgbotapi.NewDeleteMessage(cid, progress.MessageID))
		var verr *review.ValidationError
		if errors.As(err, &verr) {
			r.send(cid, "⚠️ "+verr.Error())
			return
		}
		r.send(cid, err.Error()) // "Extraction failed: ..."
		return
	}

	r.openReview(ctx, cid, portal.UploadIDFromRedirect(redirect))
}

// openReview hydrates a form for the upload and shows it. A failed fetch of
// the extraction result degrades to an empty, still-usable form.
func (r *Router) openReview(ctx context.Context, cid int64, uploadID string) {
	form := review.NewForm()
	if uploadID != "" {
		res, err := r.Portal.GetUpload(ctx, uploadID)
		if err != nil {
			log.Printf("load extracted data %s: %v", uploadID, err)
		} else {
			form.AutoFill(res.ExtractedFields)
		}
	}

	sess := &reviewSession{UploadID: uploadID, Form: form}
	sessions.Store(cid, sess)
	confirmWait.Delete(cid)
	r.saveDraft(ctx, cid, sess)
	r.showForm(cid, sess)
}
