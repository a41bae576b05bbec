package model

import "time"

// DefaultProfilePicture is the placeholder asset assigned to accounts
// that never uploaded a picture of their own.
const DefaultProfilePicture = "profile_pictures/default.png"

// MaxBioLen caps the free-text bio field.
const MaxBioLen = 1000

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Accounts are keyed by email. The role is expressed as three boolean
// flags mirroring the staff console semantics: is_staff grants access to
// management endpoints and is_superuser always implies is_staff.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Email          – unique, lowercased email address.
//  PasswordHash   – bcrypt hashed password.
//  FirstName      – given name.
//  LastName       – family name.
//  PhoneNumber    – E.164 formatted phone number (validated on write).
//  Bio            – free-text self description, nullable, at most 1000 chars.
//  ProfilePicture – storage path of the profile image.
//  IsActive       – whether the account may log in.
//  IsStaff        – whether the account may use staff endpoints.
//  IsSuperuser    – full privileges; always implies IsStaff.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64    // users.id
	Email          string    // users.email
	PasswordHash   string    // users.password_hash
	FirstName      string    // users.first_name
	LastName       string    // users.last_name
	PhoneNumber    string    // users.phone_number
	Bio            *string   // users.bio (nullable)
	ProfilePicture string    // users.profile_picture
	IsActive       bool      // users.is_active
	IsStaff        bool      // users.is_staff
	IsSuperuser    bool      // users.is_superuser
	CreatedAt      time.Time // users.created_at
	UpdatedAt      time.Time // users.updated_at
}

// Role names carried in the JWT "role" claim. They are derived from the
// boolean flags at token-issue time rather than stored.
const (
	RoleMember    = "MEMBER"
	RoleStaff     = "STAFF"
	RoleSuperuser = "SUPERUSER"
)

// Role maps the account flags to the claim value used by the role
// middleware. Superuser wins over staff.
func (u User) Role() string {
	switch {
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsStaff:
		return RoleStaff
	default:
		return RoleMember
	}
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; only the SHA-256 hash of the token
// value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// PasswordResetToken models an entry in the `password_reset_tokens`
// table. Reset tokens are single-use: UsedAt is set when the token is
// consumed and the row is never accepted again afterwards.
type PasswordResetToken struct {
	ID        uint64     // password_reset_tokens.id
	UserID    uint64     // password_reset_tokens.user_id
	TokenHash string     // password_reset_tokens.token_hash
	ExpiresAt time.Time  // password_reset_tokens.expires_at
	UsedAt    *time.Time // password_reset_tokens.used_at (nullable)
	CreatedAt time.Time  // password_reset_tokens.created_at
}
