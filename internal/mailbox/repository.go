package mailbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Email is a row of the emails table, synced in by the mail relay.
type Email struct {
	ID             string
	UserID         int64
	Sender         string
	SenderName     *string
	Subject        *string
	Snippet        *string
	SentAt         time.Time
	HasAttachments bool
	AttachmentsRaw *string
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const emailColumns = `
	id, user_id, sender, sender_name, subject, snippet, sent_at,
	has_attachments, attachments`

// Inbox loads the newest synced emails for one user.
func (r *Repository) Inbox(ctx context.Context, userID int64, limit int) ([]Email, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+emailColumns+`
		FROM emails
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Email
	for rows.Next() {
		var e Email
		if err := rows.Scan(&e.ID, &e.UserID, &e.Sender, &e.SenderName, &e.Subject,
			&e.Snippet, &e.SentAt, &e.HasAttachments, &e.AttachmentsRaw); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
