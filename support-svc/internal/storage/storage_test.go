package storage

import (
	"context"
	"testing"
	"time"

	"qr-menu/auth"
	"qr-menu/support-svc/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageRow = []string{"id", "thread_id", "sender_id", "sender_role", "body", "created_at", "read_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO support_messages").
		WithArgs("m1", "owner-1", "owner-1", "owner", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	msg := &domain.Message{ID: "m1", ThreadID: "owner-1", SenderID: "owner-1", SenderRole: auth.RoleOwner, Body: "hello"}
	require.NoError(t, repo.Insert(context.Background(), msg))
	assert.Equal(t, created, msg.CreatedAt)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, thread_id, sender_id, sender_role, body, created_at, read_at FROM support_messages WHERE thread_id").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(messageRow).
			AddRow("m1", "owner-1", "owner-1", "owner", "help", now, now).
			AddRow("m2", "owner-1", "admin-1", "admin", "on it", now, nil))

	list, err := repo.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].ReadAt)
	assert.Nil(t, list[1].ReadAt)
	assert.Equal(t, auth.RoleAdmin, list[1].SenderRole)
}

func TestThreads_NewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	mock.ExpectQuery("SELECT DISTINCT ON").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(append(messageRow, "unread")).
			AddRow("m1", "owner-1", "owner-1", "owner", "old", older, nil, 1).
			AddRow("m2", "owner-2", "owner-2", "owner", "new", newer, nil, 4))

	threads, err := repo.Threads(context.Background(), auth.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "owner-2", threads[0].ThreadID)
	assert.Equal(t, 4, threads[0].Unread)
}

func TestReadState(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE support_messages SET read_at").
		WithArgs("owner-1", "owner").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("owner-1", "owner").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	n, err := repo.MarkRead(context.Background(), "owner-1", auth.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.UnreadCount(context.Background(), "owner-1", auth.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	bus := NewRedisBus(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, closeSub, err := bus.Subscribe(ctx, "owner-1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, domain.Message{ID: "m1", ThreadID: "owner-1", Body: "hello"}))

	select {
	case got := <-msgs:
		assert.Equal(t, "m1", got.ID)
		assert.Equal(t, "hello", got.Body)
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}

	require.NoError(t, closeSub())
	_, open := <-msgs
	assert.False(t, open)
}
