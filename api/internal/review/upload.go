package review

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"credit-bot/api/internal/portal"
)

// Stage is one step of the upload progress indicator. The ordering is fixed;
// it is a UX affordance and does not track the portal's real progress.
type Stage int

const (
	StageReceived Stage = iota
	StageOCR
	StageFields
	StageDone
)

func (s Stage) Label() string {
	switch s {
	case StageReceived:
		return "Certificate received"
	case StageOCR:
		return "Running OCR"
	case StageFields:
		return "Extracting fields"
	default:
		return "Done"
	}
}

// State is the upload controller's position in its submission attempt.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingService
	StateNavigated
)

// Input carries exactly one of {file, pasted text}.
type Input struct {
	Filename string
	Data     []byte
	Text     string
}

// matches the portal's ALLOWED_EXTENSIONS
var allowedExt = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".docx": true,
}

// Uploader turns a file or pasted text into a navigable review session.
// One attempt may be in flight at a time; Submit returns ErrBusy otherwise.
type Uploader struct {
	Portal *portal.Client

	// Notify, when set, receives each progress stage in order.
	Notify func(Stage)
	// Sleep and Delay drive the artificial pauses between stages.
	// Tests inject a no-op Sleep.
	Sleep func(time.Duration)
	Delay time.Duration

	busy  atomic.Bool
	state atomic.Int32
}

func NewUploader(p *portal.Client) *Uploader {
	return &Uploader{
		Portal: p,
		Sleep:  time.Sleep,
		Delay:  600 * time.Millisecond,
	}
}

// State reports the controller's current position.
func (u *Uploader) State() State { return State(u.state.Load()) }

// Submit validates the input, sends it to the extraction endpoint, and
// returns the portal's redirect target (the review page for the new upload).
// It does not fetch or hold the extracted data itself. Validation failures
// never reach the network; service failures come back as *ExtractionError
// and the controller returns to idle. No automatic retry.
func (u *Uploader) Submit(ctx context.Context, in Input) (string, error) {
	if !u.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer u.busy.Store(false)

	u.state.Store(int32(StateValidating))
	hasFile := len(in.Data) > 0 || in.Filename != ""
	hasText := strings.TrimSpace(in.Text) != ""
	if hasFile && hasText {
		u.state.Store(int32(StateIdle))
		return "", &ValidationError{Reason: "provide a file or pasted text, not both"}
	}
	if !hasFile && !hasText {
		u.state.Store(int32(StateIdle))
		return "", &ValidationError{Reason: "no file or text provided"}
	}
	if hasFile {
		ext := strings.ToLower(filepath.Ext(in.Filename))
		if !allowedExt[ext] {
			u.state.Store(int32(StateIdle))
			return "", &ValidationError{Reason: fmt.Sprintf("unsupported file type %q", ext)}
		}
	}

	u.state.Store(int32(StateAwaitingService))
	u.stage(StageReceived)
	u.pause()
	u.stage(StageOCR)
	u.pause()
	u.stage(StageFields)

	var res portal.UploadResult
	var err error
	if hasText {
		res, err = u.Portal.UploadText(ctx, in.Text)
	} else {
		res, err = u.Portal.UploadFile(ctx, in.Filename, in.Data)
	}
	if err != nil {
		u.state.Store(int32(StateIdle))
		return "", &ExtractionError{Err: err}
	}

	u.pause()
	u.stage(StageDone)
	u.state.Store(int32(StateNavigated))
	return res.RedirectURL, nil
}

func (u *Uploader) stage(s Stage) {
	if u.Notify != nil {
		u.Notify(s)
	}
}

func (u *Uploader) pause() {
	if u.Sleep != nil && u.Delay > 0 {
		u.Sleep(u.Delay)
	}
}
