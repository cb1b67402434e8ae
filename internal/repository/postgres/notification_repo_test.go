package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepo_Create_AssignsIDAndTimestamp(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	userID := uuid.Must(uuid.NewV4())
	n := &model.Notification{
		UserID:  userID,
		Title:   "Ingredient Expiry Notice",
		Content: "Fish (1.0 kg) expires in 3 days.",
		Type:    model.NotificationTypeInfo,
	}
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), userID, n.Title, n.Content, n.Type, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	require.NoError(t, r.Create(context.Background(), n))
	require.NotEqual(t, uuid.Nil, n.ID)
	require.Equal(t, now, n.CreatedAt)
}

func TestNotificationRepo_Create_InsertError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	n := &model.Notification{UserID: uuid.Must(uuid.NewV4())}

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(pgxmock.AnyArg(), n.UserID, "", "", "", false).
		WillReturnError(errors.New("insert failed"))

	require.Error(t, r.Create(context.Background(), n))
	require.Equal(t, uuid.Nil, n.ID)
}

func TestNotificationRepo_ListRecentByUser(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	userID := uuid.Must(uuid.NewV4())
	now := time.Now()

	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs(userID, 50).
		WillReturnRows(pgxmock.
			NewRows([]string{"id", "user_id", "title", "content", "ntype", "read", "created_at"}).
			AddRow(uuid.Must(uuid.NewV4()), userID, "Ingredient Expiry Alert", "Meat (0.5 kg) expires in 1 day.", "info", false, now).
			AddRow(uuid.Must(uuid.NewV4()), userID, "Ingredient Expiry Notice", "Fish (1.0 kg) expires in 3 days.", "info", true, now))

	out, err := r.ListRecentByUser(context.Background(), userID, 50)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Meat (0.5 kg) expires in 1 day.", out[0].Content)
	require.True(t, out[1].Read)
}

func TestNotificationRepo_ListRecentByUser_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	userID := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs(userID, 50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "title", "content", "ntype", "read", "created_at"}))

	out, err := r.ListRecentByUser(context.Background(), userID, 50)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`UPDATE notifications SET read=true WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.MarkRead(context.Background(), userID, id))

	mock.ExpectExec(`UPDATE notifications SET read=true WHERE id=\$1 AND user_id=\$2`).
		WithArgs(id, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.MarkRead(context.Background(), userID, id), errs.ErrNotFound)
}

func TestNotificationRepo_MarkAllRead(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNotificationRepo(db)

	userID := uuid.Must(uuid.NewV4())
	mock.ExpectExec(`UPDATE notifications SET read=true WHERE user_id=\$1 AND read=false`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	require.NoError(t, r.MarkAllRead(context.Background(), userID))
}
