package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/wavesrc/resource-center/internal/model"
	"github.com/wavesrc/resource-center/internal/utils"
)

// UserRepo encapsulates all database queries against the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUserParams carries the attributes accepted at account creation.
// IsStaff and IsSuperuser are pointers so that an explicitly supplied
// false can be told apart from an omitted flag; CreateSuperuser rejects
// explicit false for either.
type NewUserParams struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	PhoneNumber    string
	Bio            *string
	ProfilePicture string
	IsStaff        *bool
	IsSuperuser    *bool
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number,
	bio, profile_picture, is_active, is_staff, is_superuser, created_at, updated_at`

// Create inserts a new user and returns the stored record. The email is
// normalized to lowercase. An empty password is a missing-argument
// failure, an empty email after trimming is a validation failure. New
// accounts are always active; role flags default to false.
func (r *UserRepo) Create(ctx context.Context, p NewUserParams, cost int) (*model.User, error) {
	if p.Password == "" {
		return nil, ErrMissingPassword
	}
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	hash, err := utils.HashPassword(p.Password, cost)
	if err != nil {
		return nil, err
	}
	staff := p.IsStaff != nil && *p.IsStaff
	super := p.IsSuperuser != nil && *p.IsSuperuser
	picture := p.ProfilePicture
	if picture == "" {
		picture = model.DefaultProfilePicture
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users
		 (email, password_hash, first_name, last_name, phone_number, bio, profile_picture, is_active, is_staff, is_superuser)
		 VALUES (?,?,?,?,?,?,?,1,?,?)`,
		email, hash, p.FirstName, p.LastName, p.PhoneNumber, p.Bio, picture, staff, super)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// CreateSuperuser delegates to Create after forcing the role flags to
// true. Explicitly overriding either flag to false is rejected, the
// same contract the staff console depends on.
func (r *UserRepo) CreateSuperuser(ctx context.Context, p NewUserParams, cost int) (*model.User, error) {
	if p.IsStaff != nil && !*p.IsStaff {
		return nil, ErrNotStaff
	}
	if p.IsSuperuser != nil && !*p.IsSuperuser {
		return nil, ErrNotSuperuser
	}
	t := true
	p.IsStaff = &t
	p.IsSuperuser = &t
	return r.Create(ctx, p, cost)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ProfileParams is the server-validated subset of fields a member may
// change about themselves. Nil pointers leave the column untouched so
// partial updates do not blank out existing data.
type ProfileParams struct {
	FirstName      *string
	LastName       *string
	PhoneNumber    *string
	Bio            *string
	ProfilePicture *string
}

// UpdateProfile applies a self-service profile mutation and returns the
// updated record. updated_at advances on every call.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfileParams) (*model.User, error) {
	set := []string{"updated_at=CURRENT_TIMESTAMP"}
	args := []any{}
	if p.FirstName != nil {
		set = append(set, "first_name=?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		set = append(set, "last_name=?")
		args = append(args, *p.LastName)
	}
	if p.PhoneNumber != nil {
		set = append(set, "phone_number=?")
		args = append(args, *p.PhoneNumber)
	}
	if p.Bio != nil {
		set = append(set, "bio=?")
		args = append(args, *p.Bio)
	}
	if p.ProfilePicture != nil {
		set = append(set, "profile_picture=?")
		args = append(args, *p.ProfilePicture)
	}
	args = append(args, id)
	// RowsAffected is unreliable here (0 for both a missing row and a
	// no-op update), so existence is checked by the follow-up read.
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	if password == "" {
		return ErrMissingPassword
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetFlags updates the role flags for a user. Superuser always implies
// staff, so requesting is_superuser=true forces is_staff=true.
func (r *UserRepo) SetFlags(ctx context.Context, id uint64, isStaff, isSuperuser bool) error {
	if isSuperuser {
		isStaff = true
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_staff=?, is_superuser=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		isStaff, isSuperuser, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables an account.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns all users ordered by email, for the staff console.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	var bio sql.NullString
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.PhoneNumber, &bio, &u.ProfilePicture, &u.IsActive, &u.IsStaff,
		&u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if bio.Valid {
		u.Bio = &bio.String
	}
	return &u, nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
