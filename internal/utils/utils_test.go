package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, VerifyPassword(hash, "s3cret"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestNewAccessToken_CarriesSubjectAndRole(t *testing.T) {
	at, err := NewAccessToken("topsecret", 42, "STAFF", 15)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, tk.Method)
		return []byte("topsecret"), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "STAFF", claims["role"])
}

func TestNewAccessToken_RejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("topsecret", 1, "MEMBER", 15)
	require.NoError(t, err)
	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	require.Error(t, err)
}

func TestNewRefreshToken_RawAndHashDiffer(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	require.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded
	require.NotEqual(t, rt.Raw, HashTokenRaw(rt.Raw))
	// hashing is deterministic so the stored hash matches later lookups
	require.Equal(t, HashTokenRaw(rt.Raw), HashTokenRaw(rt.Raw))

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	require.NotEqual(t, rt.Raw, other.Raw)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Web Development":        "web-development",
		"  Go &  SQL  Basics  ":  "go-sql-basics",
		"Déjà Vu":                "deja-vu",
		"C++ / Systems":          "c-systems",
		"already-a-slug":         "already-a-slug",
		"UPPER CASE":             "upper-case",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestIsValidSlug(t *testing.T) {
	require.True(t, IsValidSlug("web-development"))
	require.True(t, IsValidSlug("go"))
	require.False(t, IsValidSlug(""))
	require.False(t, IsValidSlug("-leading"))
	require.False(t, IsValidSlug("trailing-"))
	require.False(t, IsValidSlug("double--hyphen"))
	require.False(t, IsValidSlug("With Space"))
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("+254712345678", "KE")
	require.NoError(t, err)
	require.Equal(t, "+254712345678", got)

	// national format resolved against the default region
	got, err = NormalizePhone("0712345678", "KE")
	require.NoError(t, err)
	require.Equal(t, "+254712345678", got)

	// optional field
	got, err = NormalizePhone("", "KE")
	require.NoError(t, err)
	require.Equal(t, "", got)

	_, err = NormalizePhone("not a number", "KE")
	require.ErrorIs(t, err, ErrInvalidPhone)
}
