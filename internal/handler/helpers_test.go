package handler

import (
	"fmt"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// mockUserRow builds a full users-table row in the column order the
// repositories scan.
func mockUserRow(id uint64, email, hash string, active, staff, super bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name",
		"last_name", "phone_number", "bio", "profile_picture", "is_active",
		"is_staff", "is_superuser", "created_at", "updated_at"}).
		AddRow(id, email, hash, "Jane", "Doe", "", nil,
			"profile_pictures/default.png", active, staff, super, now, now)
}

// sqlmockDuplicate fabricates the MySQL duplicate-entry error shape the
// repositories sniff for.
func sqlmockDuplicate(index string) error {
	return fmt.Errorf("Error 1062 (23000): Duplicate entry 'x' for key '%s'", index)
}
