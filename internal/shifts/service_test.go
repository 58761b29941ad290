package shifts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftline/shiftline-backend/internal/users"
	"github.com/shiftline/shiftline-backend/pkg/db"
	"github.com/shiftline/shiftline-backend/pkg/db/models"
	pkgerrors "github.com/shiftline/shiftline-backend/pkg/errors"
)

func setupShiftsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`DROP TABLE IF EXISTS attendances`,
		`DROP TABLE IF EXISTS shifts`,
		`DROP TABLE IF EXISTS users`,
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE shifts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  work_date TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  role TEXT,
  location TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_shifts_user_window UNIQUE (user_id, work_date, start_time, end_time)
);`,
		`CREATE TABLE attendances (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  shift_id TEXT NOT NULL REFERENCES shifts (id) ON DELETE CASCADE,
  time_in DATETIME,
  time_out DATETIME,
  approved INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_attendance_user_shift UNIQUE (user_id, shift_id)
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newShiftsService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupShiftsTestDB(t)
	svc, err := NewService(ServiceParams{Client: db.NewWithConn(conn)})
	require.NoError(t, err)
	return svc, conn
}

func seedShiftUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	created, err := users.NewRepository(conn).Create(context.Background(), users.CreateUserDTO{
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return created
}

func strPtr(v string) *string { return &v }

func TestScheduleCreatesShiftAndAttendance(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "alice")
	ctx := context.Background()

	shift, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
		Role:   strPtr("barista"),
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, shift.UserID)
	assert.Equal(t, "alice", shift.Username)
	assert.Equal(t, "2026-03-02", shift.Date)
	require.NotNil(t, shift.Role)
	assert.Equal(t, "barista", *shift.Role)
	assert.Nil(t, shift.Location)

	var attendance models.Attendance
	require.NoError(t, conn.First(&attendance, "shift_id = ?", shift.ID).Error)
	assert.Equal(t, user.ID, attendance.UserID)
	assert.Nil(t, attendance.TimeIn)
	assert.False(t, attendance.Approved)
}

func TestScheduleIsIdempotentOnWindow(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "bob")
	ctx := context.Background()

	first, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
		Role:   strPtr("cook"),
	})
	require.NoError(t, err)

	// same window: same row, role overwritten, location untouched
	second, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
		Role:   strPtr("server"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Role)
	assert.Equal(t, "server", *second.Role)

	var shiftCount, attendanceCount int64
	require.NoError(t, conn.Model(&models.Shift{}).Count(&shiftCount).Error)
	require.NoError(t, conn.Model(&models.Attendance{}).Count(&attendanceCount).Error)
	assert.EqualValues(t, 1, shiftCount)
	assert.EqualValues(t, 1, attendanceCount)
}

func TestScheduleUnknownUser(t *testing.T) {
	svc, _ := newShiftsService(t)

	_, err := svc.Schedule(context.Background(), ScheduleShiftRequest{
		UserID: uuid.New(),
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestScheduleRejectsMalformedInput(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "carol")

	_, err := svc.Schedule(context.Background(), ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "03/02/2026",
		Start:  "09:00",
		End:    "17:00",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Schedule(context.Background(), ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "9am",
		End:    "17:00",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestScheduleWeekExpandsOffsets(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "dana")
	ctx := context.Background()

	resp, err := svc.ScheduleWeek(ctx, ScheduleWeekRequest{
		UserID:    user.ID,
		WeekStart: "2026-03-02",
		DailyWindows: []DailyWindow{
			{Offset: 0, Start: "09:00", End: "17:00"},
			{Offset: 2, Start: "12:00", End: "20:00"},
			{Offset: 6, Start: "08:00", End: "16:00"},
		},
		Location: strPtr("downtown"),
	})
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, "2026-03-02", resp[0].Date)
	assert.Equal(t, "2026-03-04", resp[1].Date)
	assert.Equal(t, "2026-03-08", resp[2].Date)
	for _, shift := range resp {
		require.NotNil(t, shift.Location)
		assert.Equal(t, "downtown", *shift.Location)
	}

	var attendanceCount int64
	require.NoError(t, conn.Model(&models.Attendance{}).Count(&attendanceCount).Error)
	assert.EqualValues(t, 3, attendanceCount)
}

func TestScheduleWeekRollsBackOnBadWindow(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "eric")

	_, err := svc.ScheduleWeek(context.Background(), ScheduleWeekRequest{
		UserID:    user.ID,
		WeekStart: "2026-03-02",
		DailyWindows: []DailyWindow{
			{Offset: 0, Start: "09:00", End: "17:00"},
			{Offset: 9, Start: "09:00", End: "17:00"},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	var shiftCount int64
	require.NoError(t, conn.Model(&models.Shift{}).Count(&shiftCount).Error)
	assert.EqualValues(t, 0, shiftCount)
}

func TestUpdateShiftWindowConflict(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "fred")
	ctx := context.Background()

	_, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
	})
	require.NoError(t, err)
	second, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-03",
		Start:  "09:00",
		End:    "17:00",
	})
	require.NoError(t, err)

	// moving the second shift onto the first one's window must conflict
	_, err = svc.Update(ctx, second.ID, UpdateShiftRequest{Date: strPtr("2026-03-02")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	updated, err := svc.Update(ctx, second.ID, UpdateShiftRequest{
		Start: strPtr("10:00"),
		Role:  strPtr("host"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.Start)
	require.NotNil(t, updated.Role)
	assert.Equal(t, "host", *updated.Role)
}

func TestUpdateShiftNotFound(t *testing.T) {
	svc, _ := newShiftsService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateShiftRequest{Start: strPtr("10:00")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteShiftCascadesAttendance(t *testing.T) {
	svc, conn := newShiftsService(t)
	user := seedShiftUser(t, conn, "gina")
	ctx := context.Background()

	shift, err := svc.Schedule(ctx, ScheduleShiftRequest{
		UserID: user.ID,
		Date:   "2026-03-02",
		Start:  "09:00",
		End:    "17:00",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, shift.ID))

	var shiftCount, attendanceCount int64
	require.NoError(t, conn.Model(&models.Shift{}).Count(&shiftCount).Error)
	require.NoError(t, conn.Model(&models.Attendance{}).Count(&attendanceCount).Error)
	assert.EqualValues(t, 0, shiftCount)
	assert.EqualValues(t, 0, attendanceCount)

	err = svc.Delete(ctx, shift.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRosterRangeAndOrdering(t *testing.T) {
	svc, conn := newShiftsService(t)
	zoe := seedShiftUser(t, conn, "zoe")
	adam := seedShiftUser(t, conn, "adam")
	ctx := context.Background()

	schedule := []struct {
		user  uuid.UUID
		date  string
		start string
	}{
		{zoe.ID, "2026-03-02", "09:00"},
		{adam.ID, "2026-03-02", "09:00"},
		{adam.ID, "2026-03-03", "08:00"},
		{zoe.ID, "2026-03-05", "09:00"}, // outside the queried range
	}
	for _, s := range schedule {
		_, err := svc.Schedule(ctx, ScheduleShiftRequest{
			UserID: s.user,
			Date:   s.date,
			Start:  s.start,
			End:    "17:00",
		})
		require.NoError(t, err)
	}

	entries, err := svc.Roster(ctx, "2026-03-02", "2026-03-04")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// date, then start time, then username
	assert.Equal(t, "adam", entries[0].Username)
	assert.Equal(t, "zoe", entries[1].Username)
	assert.Equal(t, "2026-03-03", entries[2].Date)
	assert.Equal(t, "adam", entries[2].Username)
}

func TestRosterRejectsInvertedRange(t *testing.T) {
	svc, _ := newShiftsService(t)

	_, err := svc.Roster(context.Background(), "2026-03-04", "2026-03-02")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
