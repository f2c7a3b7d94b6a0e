package users

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/supershop/supershop/internal/platform/recordstore"
	"github.com/supershop/supershop/internal/shared"
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z ]{2,50}$`)
	mobileRe = regexp.MustCompile(`^01[3-9][0-9]{8}$`)
)

// Service owns the account collection: registration, authentication, and
// profile updates. Persistence failures are reported without rolling back
// the in-memory change.
type Service struct {
	mu    sync.Mutex
	users []User

	file     *recordstore.Store
	validate *validator.Validate
	adminKey string
	logger   *slog.Logger
}

// NewService builds a Service over the backing file. adminKey guards admin
// registrations.
func NewService(file *recordstore.Store, adminKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	_ = v.RegisterValidation("name_format", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("bd_mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	return &Service{file: file, validate: v, adminKey: adminKey, logger: logger}
}

// Load restores persisted accounts from disk.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.file.Load()
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	s.users = make([]User, 0, len(records))
	for _, rec := range records {
		u, err := decodeUser(rec)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		s.users = append(s.users, u)
	}
	return nil
}

// Register validates the input, hashes the password, and stores the account.
func (s *Service) Register(reg Registration) (User, error) {
	if err := s.validate.Struct(reg); err != nil {
		return User{}, fmt.Errorf("users: %w", err)
	}
	if reg.Admin && reg.AdminKey != s.adminKey {
		return User{}, ErrInvalidAdminKey
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(reg.Mobile) >= 0 {
		return User{}, fmt.Errorf("mobile %s: %w", reg.Mobile, shared.ErrDuplicate)
	}
	u := User{
		Name:         strings.TrimSpace(reg.Name),
		Mobile:       reg.Mobile,
		PasswordHash: string(hash),
		Age:          reg.Age,
		IsAdmin:      reg.Admin,
		RegisteredAt: time.Now().Truncate(time.Second),
		IsActive:     true,
	}
	s.users = append(s.users, u)
	if err := s.saveLocked(); err != nil {
		return u, err
	}
	return u, nil
}

// Authenticate checks mobile, password, and role. The last-login time is
// updated on success.
func (s *Service) Authenticate(mobile, password string, admin bool) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(mobile)
	if idx < 0 || s.users[idx].IsAdmin != admin || !s.users[idx].IsActive {
		return User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.users[idx].PasswordHash), []byte(password)); err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	s.users[idx].LastLoginAt = time.Now().Truncate(time.Second)
	if err := s.saveLocked(); err != nil {
		s.logger.Warn("last login not persisted", slog.String("mobile", mobile), slog.Any("error", err))
	}
	return s.users[idx], nil
}

// UpdateProfile changes name and/or password; empty arguments keep the
// current value.
func (s *Service) UpdateProfile(mobile, newName, newPassword string) error {
	if newName != "" && !nameRe.MatchString(strings.TrimSpace(newName)) {
		return fmt.Errorf("users: invalid name format")
	}
	if newPassword != "" && len(newPassword) < 8 {
		return fmt.Errorf("users: password must be at least 8 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(mobile)
	if idx < 0 {
		return fmt.Errorf("user %s: %w", mobile, shared.ErrNotFound)
	}
	if newName != "" {
		s.users[idx].Name = strings.TrimSpace(newName)
	}
	if newPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("users: hash password: %w", err)
		}
		s.users[idx].PasswordHash = string(hash)
	}
	return s.saveLocked()
}

// SetVIP flags or unflags a customer as VIP.
func (s *Service) SetVIP(mobile string, vip bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(mobile)
	if idx < 0 {
		return fmt.Errorf("user %s: %w", mobile, shared.ErrNotFound)
	}
	s.users[idx].IsVIP = vip
	return s.saveLocked()
}

// SetActive enables or disables an account.
func (s *Service) SetActive(mobile string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(mobile)
	if idx < 0 {
		return fmt.Errorf("user %s: %w", mobile, shared.ErrNotFound)
	}
	s.users[idx].IsActive = active
	return s.saveLocked()
}

// Get returns a copy of the account.
func (s *Service) Get(mobile string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(mobile)
	if idx < 0 {
		return User{}, fmt.Errorf("user %s: %w", mobile, shared.ErrNotFound)
	}
	return s.users[idx], nil
}

// List returns all accounts ordered by mobile.
func (s *Service) List() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	sort.Slice(out, func(i, j int) bool { return out[i].Mobile < out[j].Mobile })
	return out
}

func (s *Service) indexOf(mobile string) int {
	for i := range s.users {
		if s.users[i].Mobile == mobile {
			return i
		}
	}
	return -1
}

func (s *Service) saveLocked() error {
	records := make([]recordstore.Record, len(s.users))
	for i, u := range s.users {
		records[i] = encodeUser(u)
	}
	if err := s.file.SaveAll(records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
