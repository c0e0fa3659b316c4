package storage

import (
	"context"
	"database/sql"
	"embed"
	"sort"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"
)

//go:embed migrations/*.sql
var Migrations embed.FS

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const messageColumns = "id, thread_id, sender_id, sender_role, body, created_at, read_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner, extra ...any) (domain.Message, error) {
	var m domain.Message
	var role string
	var readAt sql.NullTime
	dest := append([]any{&m.ID, &m.ThreadID, &m.SenderID, &role, &m.Body, &m.CreatedAt, &readAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return m, err
	}
	m.SenderRole = auth.Role(role)
	if readAt.Valid {
		t := readAt.Time
		m.ReadAt = &t
	}
	return m, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, msg *domain.Message) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO support_messages (id, thread_id, sender_id, sender_role, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, msg.ID, msg.ThreadID, msg.SenderID, string(msg.SenderRole), msg.Body).Scan(&msg.CreatedAt)
}

func (r *PostgresRepository) List(ctx context.Context, threadID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM support_messages WHERE thread_id = $1 ORDER BY created_at ASC",
		threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			continue
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Threads returns the newest message of every thread together with the
// number of messages the given role has not read yet, newest thread first.
func (r *PostgresRepository) Threads(ctx context.Context, readerRole auth.Role) ([]domain.ThreadSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT ON (m.thread_id) `+messageColumns+`,
			(SELECT COUNT(*) FROM support_messages u
			 WHERE u.thread_id = m.thread_id AND u.sender_role <> $1 AND u.read_at IS NULL)
		FROM support_messages m
		ORDER BY m.thread_id, m.created_at DESC
	`, string(readerRole))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []domain.ThreadSummary{}
	for rows.Next() {
		var unread int
		m, err := scanMessage(rows, &unread)
		if err != nil {
			continue
		}
		threads = append(threads, domain.ThreadSummary{ThreadID: m.ThreadID, LastMessage: m, Unread: unread})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].LastMessage.CreatedAt.After(threads[j].LastMessage.CreatedAt)
	})
	return threads, nil
}

// MarkRead stamps every message in the thread that was sent by the other side.
func (r *PostgresRepository) MarkRead(ctx context.Context, threadID string, readerRole auth.Role) (int, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE support_messages SET read_at = now()
		WHERE thread_id = $1 AND sender_role <> $2 AND read_at IS NULL
	`, threadID, string(readerRole))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (r *PostgresRepository) UnreadCount(ctx context.Context, threadID string, readerRole auth.Role) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM support_messages
		WHERE thread_id = $1 AND sender_role <> $2 AND read_at IS NULL
	`, threadID, string(readerRole)).Scan(&n)
	return n, err
}
