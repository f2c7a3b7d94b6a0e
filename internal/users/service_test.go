package users

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supershop/supershop/internal/platform/recordstore"
	"github.com/supershop/supershop/internal/shared"
)

const adminKey = "admin123"

func newTestService(t *testing.T) (*Service, *recordstore.Store) {
	t.Helper()
	file := recordstore.New(filepath.Join(t.TempDir(), "users.dat"))
	s := NewService(file, adminKey, nil)
	require.NoError(t, s.Load())
	return s, file
}

func validRegistration() Registration {
	return Registration{
		Name:     "Jamil Ahmed",
		Mobile:   "01712345678",
		Password: "sup3rsecret",
		Age:      30,
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s, _ := newTestService(t)

	u, err := s.Register(validRegistration())
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.False(t, u.IsAdmin)
	require.NotEqual(t, "sup3rsecret", u.PasswordHash)

	got, err := s.Authenticate("01712345678", "sup3rsecret", false)
	require.NoError(t, err)
	require.Equal(t, "Jamil Ahmed", got.Name)
	require.False(t, got.LastLoginAt.IsZero())

	_, err = s.Authenticate("01712345678", "wrongpass", false)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	// role mismatch is a credential failure too
	_, err = s.Authenticate("01712345678", "sup3rsecret", true)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService(t)

	bad := validRegistration()
	bad.Name = "X"
	_, err := s.Register(bad)
	require.Error(t, err)

	bad = validRegistration()
	bad.Mobile = "01112345678"
	_, err = s.Register(bad)
	require.Error(t, err)

	bad = validRegistration()
	bad.Password = "short"
	_, err = s.Register(bad)
	require.Error(t, err)

	bad = validRegistration()
	bad.Age = 12
	_, err = s.Register(bad)
	require.Error(t, err)
}

func TestRegisterDuplicateMobile(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Register(validRegistration())
	require.NoError(t, err)
	_, err = s.Register(validRegistration())
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestAdminRegistrationRequiresKey(t *testing.T) {
	s, _ := newTestService(t)

	reg := validRegistration()
	reg.Admin = true
	reg.AdminKey = "nope"
	_, err := s.Register(reg)
	require.ErrorIs(t, err, ErrInvalidAdminKey)

	reg.AdminKey = adminKey
	u, err := s.Register(reg)
	require.NoError(t, err)
	require.True(t, u.IsAdmin)

	_, err = s.Authenticate(reg.Mobile, reg.Password, true)
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Register(validRegistration())
	require.NoError(t, err)

	require.Error(t, s.UpdateProfile("01712345678", "99", ""))
	require.Error(t, s.UpdateProfile("01712345678", "", "short"))
	require.ErrorIs(t, s.UpdateProfile("01800000000", "New Name", ""), shared.ErrNotFound)

	require.NoError(t, s.UpdateProfile("01712345678", "New Name", "an0therpass"))
	_, err = s.Authenticate("01712345678", "an0therpass", false)
	require.NoError(t, err)
	u, err := s.Get("01712345678")
	require.NoError(t, err)
	require.Equal(t, "New Name", u.Name)
}

func TestInactiveAccountCannotLogin(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Register(validRegistration())
	require.NoError(t, err)

	require.NoError(t, s.SetActive("01712345678", false))
	_, err = s.Authenticate("01712345678", "sup3rsecret", false)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestVIPFlagRoundTrip(t *testing.T) {
	s, file := newTestService(t)
	registered, err := s.Register(validRegistration())
	require.NoError(t, err)
	require.NoError(t, s.SetVIP("01712345678", true))

	reloaded := NewService(file, adminKey, nil)
	require.NoError(t, reloaded.Load())
	u, err := reloaded.Get("01712345678")
	require.NoError(t, err)
	require.True(t, u.IsVIP)
	require.True(t, u.RegisteredAt.Equal(registered.RegisteredAt))
}
