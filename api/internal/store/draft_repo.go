package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"credit-bot/api/internal/review"
)

var ErrNotFound = sql.ErrNoRows

// DraftRepo persists per-chat review drafts so an interrupted review survives
// a bot restart. The portal stays the source of truth for extraction data;
// this only keeps the student's local edits.
//
// Expected table:
//
//	create table review_drafts (
//	  chat_id    bigint primary key,
//	  upload_id  text not null default '',
//	  form_json  jsonb not null,
//	  submitted  boolean not null default false,
//	  result_url text not null default '',
//	  created_at timestamptz not null default now(),
//	  updated_at timestamptz not null default now()
//	);
type DraftRepo struct{ DB *sql.DB }

func NewDraftRepo(db *sql.DB) *DraftRepo { return &DraftRepo{DB: db} }

type DraftRow struct {
	ChatID    int64
	UploadID  string
	Form      review.FormSnapshot
	Submitted bool
	ResultURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Upsert saves the current draft for a chat, one draft per chat.
func (r *DraftRepo) Upsert(ctx context.Context, chatID int64, uploadID string, snap review.FormSnapshot) error {
	js, _ := json.Marshal(snap)
	const q = `
insert into review_drafts (chat_id, upload_id, form_json, submitted, result_url, updated_at)
values ($1, $2, $3, false, '', now())
on conflict (chat_id) do update
set upload_id = excluded.upload_id,
    form_json = excluded.form_json,
    submitted = false,
    result_url = '',
    updated_at = now()`
	_, err := r.DB.ExecContext(ctx, q, chatID, uploadID, js)
	return err
}

// Find returns the chat's draft, submitted or not.
func (r *DraftRepo) Find(ctx context.Context, chatID int64) (*DraftRow, error) {
	const q = `
select chat_id, upload_id, form_json, submitted, result_url, created_at, updated_at
from review_drafts
where chat_id = $1`
	row := r.DB.QueryRowContext(ctx, q, chatID)

	var (
		cid       int64
		uploadID  string
		js        []byte
		submitted bool
		resultURL string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&cid, &uploadID, &js, &submitted, &resultURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var snap review.FormSnapshot
	if err := json.Unmarshal(js, &snap); err != nil {
		// broken JSON — treat as no draft
		return nil, ErrNotFound
	}
	return &DraftRow{
		ChatID:    cid,
		UploadID:  uploadID,
		Form:      snap,
		Submitted: submitted,
		ResultURL: resultURL,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// MarkSubmitted flags the draft as finalized and remembers the result link.
func (r *DraftRepo) MarkSubmitted(ctx context.Context, chatID int64, resultURL string) error {
	const q = `update review_drafts set submitted = true, result_url = $2, updated_at = now() where chat_id = $1`
	res, err := r.DB.ExecContext(ctx, q, chatID, resultURL)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete discards the chat's draft.
func (r *DraftRepo) Delete(ctx context.Context, chatID int64) error {
	const q = `delete from review_drafts where chat_id = $1`
	_, err := r.DB.ExecContext(ctx, q, chatID)
	return err
}

// PurgeOlderThan removes stale drafts so the table does not grow unbounded.
func (r *DraftRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from review_drafts where updated_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
