package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "email", "password_hash", "first_name", "last_name",
	"phone_number", "bio", "profile_picture", "is_active", "is_staff", "is_superuser",
	"created_at", "updated_at"}

func userRow(id uint64, email string, staff, super bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).
		AddRow(id, email, "$2a$04$hash", "Jane", "Doe", "+254712345678", nil,
			"profile_pictures/default.png", true, staff, super, now, now)
}

func TestUserRepoCreate_EmptyPasswordIsMissingArgument(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewUserRepo(db).Create(context.Background(),
		NewUserParams{Email: "jane@example.com"}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrMissingPassword)
}

func TestUserRepoCreate_BlankEmailIsValidationFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewUserRepo(db).Create(context.Background(),
		NewUserParams{Email: "   ", Password: "pw"}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailRequired)
}

func TestUserRepoCreate_NormalizesEmailAndDefaultsFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("jane@example.com", sqlmock.AnyArg(), "Jane", "Doe", "+254712345678",
			nil, "profile_pictures/default.png", false, false).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(userRow(7, "jane@example.com", false, false))

	u, err := NewUserRepo(db).Create(context.Background(), NewUserParams{
		Email:       "  Jane@Example.COM ",
		Password:    "pw",
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "+254712345678",
	}, bcrypt.MinCost)
	require.NoError(t, err)
	require.Equal(t, uint64(7), u.ID)
	require.Equal(t, "jane@example.com", u.Email)
	require.True(t, u.IsActive)
	require.Equal(t, "MEMBER", u.Role())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreate_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'jane@example.com' for key 'users.email'"))

	_, err = NewUserRepo(db).Create(context.Background(),
		NewUserParams{Email: "jane@example.com", Password: "pw"}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateSuperuser_RejectsExplicitFalseFlags(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)
	f := false

	_, err = repo.CreateSuperuser(context.Background(),
		NewUserParams{Email: "root@example.com", Password: "pw", IsStaff: &f}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrNotStaff)

	_, err = repo.CreateSuperuser(context.Background(),
		NewUserParams{Email: "root@example.com", Password: "pw", IsSuperuser: &f}, bcrypt.MinCost)
	require.ErrorIs(t, err, ErrNotSuperuser)
}

func TestCreateSuperuser_ForcesBothFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("root@example.com", sqlmock.AnyArg(), "", "", "",
			nil, "profile_pictures/default.png", true, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id=").
		WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "root@example.com", true, true))

	u, err := NewUserRepo(db).CreateSuperuser(context.Background(),
		NewUserParams{Email: "root@example.com", Password: "pw"}, bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, u.IsStaff)
	require.True(t, u.IsSuperuser)
	require.Equal(t, "SUPERUSER", u.Role())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFlags_SuperuserImpliesStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET is_staff=").
		WithArgs(true, true, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// is_staff=false on the way in, but superuser forces it.
	err = NewUserRepo(db).SetFlags(context.Background(), 3, false, true)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword_MissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET password_hash=").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewUserRepo(db).UpdatePassword(context.Background(), 99, "newpw", bcrypt.MinCost)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepoList_OrderedByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(userCols).
		AddRow(2, "a@example.com", "h", "A", "A", "", nil, "profile_pictures/default.png", true, false, false, now, now).
		AddRow(1, "b@example.com", "h", "B", "B", "", nil, "profile_pictures/default.png", true, true, false, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY email").WillReturnRows(rows)

	users, err := NewUserRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "a@example.com", users[0].Email)
	require.Equal(t, "b@example.com", users[1].Email)
}
