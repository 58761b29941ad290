package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiftline/shiftline-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestShiftsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_shifts.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shifts",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		"uq_shifts_user_window",
		"ON shifts (user_id, work_date, start_time, end_time)",
		"DROP TABLE IF EXISTS shifts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAttendanceMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_attendance.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS attendances",
		"FOREIGN KEY (shift_id) REFERENCES shifts(id) ON DELETE CASCADE",
		"uq_attendance_user_shift",
		"CHECK (time_out IS NULL OR time_in IS NULL OR time_out >= time_in)",
		"DROP TABLE IF EXISTS attendances",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
