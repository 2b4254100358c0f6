package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockInterviewRepo(t *testing.T) (*InterviewRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInterviewRepo(db), mock
}

func interviewRows(ids ...uint64) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "application_id", "interviewer_id", "scheduled_at", "duration_minutes",
		"meeting_link", "notes", "status", "created_at", "updated_at",
	})
	for _, id := range ids {
		rows.AddRow(id, 1, 2, now, 30, "", "", "scheduled", now, now)
	}
	return rows
}

func TestInterviewListByCycleUsesSubquery(t *testing.T) {
	repo, mock := newMockInterviewRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+interviewColumns+" FROM interviews WHERE application_id IN (SELECT id FROM applications WHERE cycle_id = ?) ORDER BY scheduled_at ASC")).
		WithArgs(uint64(4)).
		WillReturnRows(interviewRows(1, 2))

	out, err := repo.List(context.Background(), 0, 4)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewListNoFilter(t *testing.T) {
	repo, mock := newMockInterviewRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+interviewColumns+" FROM interviews ORDER BY scheduled_at ASC")).
		WillReturnRows(interviewRows(1))

	out, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestInterviewCreateStartsScheduled(t *testing.T) {
	repo, mock := newMockInterviewRepo(t)

	when := time.Now().Add(24 * time.Hour).UTC()
	mock.ExpectExec("INSERT INTO interviews").
		WithArgs(uint64(1), uint64(2), when, 45, "https://meet.example.com/x").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery("SELECT .+ FROM interviews WHERE id = .+").
		WithArgs(uint64(8)).
		WillReturnRows(interviewRows(8))

	iv := Interview{
		ApplicationID:   1,
		InterviewerID:   2,
		ScheduledAt:     when,
		DurationMinutes: 45,
		MeetingLink:     "https://meet.example.com/x",
	}
	require.NoError(t, repo.Create(context.Background(), &iv))
	assert.Equal(t, uint64(8), iv.ID)
	assert.Equal(t, "scheduled", iv.Status)
}
