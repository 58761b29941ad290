package shifts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftline/shiftline-backend/pkg/db/models"
)

func TestCreateIfAbsentToleratesDuplicateWindow(t *testing.T) {
	conn := setupShiftsTestDB(t)
	user := seedShiftUser(t, conn, "alice")
	ctx := context.Background()
	shiftRepo := NewRepository(conn)

	first := &models.Shift{
		UserID:    user.ID,
		WorkDate:  "2026-03-02",
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	created, err := shiftRepo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	// same window from a racing writer must not raise a constraint error
	second := &models.Shift{
		UserID:    user.ID,
		WorkDate:  "2026-03-02",
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	created, err = shiftRepo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, conn.Model(&models.Shift{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	winner, err := shiftRepo.FindByWindow(ctx, user.ID, "2026-03-02", "09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, first.ID, winner.ID)
}

func TestEnsureAttendanceToleratesDuplicateInsert(t *testing.T) {
	conn := setupShiftsTestDB(t)
	user := seedShiftUser(t, conn, "bob")
	ctx := context.Background()
	shiftRepo := NewRepository(conn)

	shift := &models.Shift{
		UserID:    user.ID,
		WorkDate:  "2026-03-02",
		StartTime: "09:00",
		EndTime:   "17:00",
	}
	require.NoError(t, shiftRepo.Create(ctx, shift))

	first, err := shiftRepo.EnsureAttendance(ctx, user.ID, shift.ID)
	require.NoError(t, err)

	repeat, err := shiftRepo.EnsureAttendance(ctx, user.ID, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, repeat.ID)

	// a row created behind the repo's back is re-read, not tripped over
	require.NoError(t, conn.Exec("DELETE FROM attendances").Error)
	require.NoError(t, conn.Create(&models.Attendance{
		ID:      first.ID,
		UserID:  user.ID,
		ShiftID: shift.ID,
	}).Error)
	again, err := shiftRepo.EnsureAttendance(ctx, user.ID, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
