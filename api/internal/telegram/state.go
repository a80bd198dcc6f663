package telegram

import (
	"sync"

	"credit-bot/api/internal/review"
)

var (
	sessions    sync.Map // chatID -> *reviewSession
	editWait    sync.Map // chatID -> field key awaiting a replacement value
	confirmWait sync.Map // chatID -> true: low-confidence submit pending confirmation
	uploadBusy  sync.Map // chatID -> true: extraction request in flight
	submitBusy  sync.Map // chatID -> true: finalize request in flight
)

// reviewSession is one chat's in-progress review: the opaque upload id and
// the form controller. Everything else is re-fetched from the portal.
type reviewSession struct {
	UploadID string
	Form     *review.Form
}

func session(chatID int64) (*reviewSession, bool) {
	v, ok := sessions.Load(chatID)
	if !ok {
		return nil, false
	}
	return v.(*reviewSession), true
}

func clearChatState(chatID int64) {
	sessions.Delete(chatID)
	editWait.Delete(chatID)
	confirmWait.Delete(chatID)
}
