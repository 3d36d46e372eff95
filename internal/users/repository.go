package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicate          = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// HashCost is the bcrypt cost for new hashes. Tests lower it.
var HashCost = bcrypt.DefaultCost

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), HashCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Directory looks users up and checks their passwords.
type Directory interface {
	Authenticate(ctx context.Context, username, password string) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c Credentials) (User, error) {
	if _, err := r.ByUsername(ctx, c.Username); err == nil {
		return User{}, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := HashPassword(c.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	role := c.Role
	if role == "" {
		role = RoleUser
	}
	u := User{Username: c.Username, PasswordHash: hashed, Role: role}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *Repository) ByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) ByID(ctx context.Context, id uint) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := r.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Seed inserts users only when the table is empty.
func (r *Repository) Seed(ctx context.Context, creds ...Credentials) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, c := range creds {
		if _, err := r.Create(ctx, c); err != nil {
			return fmt.Errorf("seed %s: %w", c.Username, err)
		}
	}
	return nil
}

// Static is a fixed, read-only Directory.
type Static struct {
	users map[string]User
}

func NewStatic(creds ...Credentials) (*Static, error) {
	s := &Static{users: make(map[string]User, len(creds))}
	for i, c := range creds {
		hashed, err := HashPassword(c.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		role := c.Role
		if role == "" {
			role = RoleUser
		}
		s.users[c.Username] = User{ID: uint(i + 1), Username: c.Username, PasswordHash: hashed, Role: role}
	}
	return s, nil
}

func (s *Static) ByUsername(_ context.Context, username string) (User, error) {
	u, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Static) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.ByUsername(ctx, username)
	if err != nil || !CheckPassword(u.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
