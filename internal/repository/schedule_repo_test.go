package repository

import (
	"testing"

	"dermaclinic/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleReplace_SwapsInOneTransaction(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	repo := NewScheduleRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_windows").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO schedule_windows").
		WithArgs(7, 1, 540, 720, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_windows").
		WithArgs(7, 1, 840, 1020, false).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	windows := []db.ScheduleWindow{
		{DoctorID: 7, Weekday: 1, StartMinutes: 540, EndMinutes: 720, IsAvailable: true},
		{DoctorID: 7, Weekday: 1, StartMinutes: 840, EndMinutes: 1020, IsAvailable: false},
	}
	require.NoError(t, repo.Replace(7, windows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleReplace_RollsBackOnInsertError(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	repo := NewScheduleRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM schedule_windows").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schedule_windows").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = repo.Replace(7, []db.ScheduleWindow{{DoctorID: 7, Weekday: 2, StartMinutes: 540, EndMinutes: 720, IsAvailable: true}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleGetByDoctor(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()
	repo := NewScheduleRepository(database)

	mock.ExpectQuery("FROM schedule_windows").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "weekday", "start_minutes", "end_minutes", "is_available"}).
			AddRow(1, 7, 1, 540, 720, true).
			AddRow(2, 7, 3, 840, 1020, true))

	windows, err := repo.GetByDoctor(7)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, 3, windows[1].Weekday)
}
