// Package shortener maps short codes to long URLs, counts clicks and
// expires old links.
package shortener

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/AlmaURepos/practice-next-js/internal/store"
)

const (
	DefaultExpiry = 30 * 24 * time.Hour
	codeBytes     = 6
	maxAttempts   = 10
)

var (
	ErrNotFound    = errors.New("short url not found")
	ErrExpired     = errors.New("link has expired")
	ErrInvalidURL  = errors.New("invalid url")
	ErrInvalidCode = errors.New("invalid custom code")
	ErrReserved    = errors.New("code is reserved")
	ErrCodeTaken   = errors.New("code already taken")
)

// reserved codes would shadow the service's own routes.
var reserved = map[string]bool{
	"api":         true,
	"health":      true,
	"docs":        true,
	"favicon.ico": true,
}

type Link struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"long_url"`
	Clicks    int       `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

func (l Link) ExpiresAt(expiry time.Duration) time.Time {
	return l.CreatedAt.Add(expiry)
}

type Stats struct {
	ShortCode string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	Clicks    int       `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsExpired bool      `json:"is_expired"`
}

type Service struct {
	links  store.Store[Link]
	expiry time.Duration
	now    func() time.Time

	// serialises the uniqueness check and insert of Shorten
	mu sync.Mutex
}

func NewService(links store.Store[Link], expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Service{links: links, expiry: expiry, now: time.Now}
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

// ValidateCode trims code and checks it against the allowed alphabet.
func ValidateCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidCode
	}
	if reserved[strings.ToLower(code)] {
		return "", ErrReserved
	}
	for _, r := range code {
		ok := r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}

func generateCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Shorten stores longURL under customCode, or under a fresh random code
// when customCode is nil or empty. A code of only whitespace is invalid.
func (s *Service) Shorten(ctx context.Context, longURL string, customCode *string) (Link, error) {
	longURL, err := ValidateURL(longURL)
	if err != nil {
		return Link{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	if customCode != nil && *customCode != "" {
		if code, err = ValidateCode(*customCode); err != nil {
			return Link{}, err
		}
		taken, err := s.exists(ctx, code)
		if err != nil {
			return Link{}, err
		}
		if taken {
			return Link{}, ErrCodeTaken
		}
	} else {
		for attempt := 0; ; attempt++ {
			if attempt == maxAttempts {
				return Link{}, errors.New("could not generate a unique code")
			}
			if code, err = generateCode(); err != nil {
				return Link{}, err
			}
			taken, err := s.exists(ctx, code)
			if err != nil {
				return Link{}, err
			}
			// a generated code may also collide with a route name
			if !taken && !reserved[strings.ToLower(code)] {
				break
			}
		}
	}

	l := Link{Code: code, LongURL: longURL, CreatedAt: s.now().UTC()}
	if err := s.links.Put(ctx, code, l); err != nil {
		return Link{}, fmt.Errorf("save link: %w", err)
	}
	return l, nil
}

func (s *Service) exists(ctx context.Context, code string) (bool, error) {
	_, err := s.links.Get(ctx, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	}
	return false, err
}

// Resolve returns the link for code and counts a click. An expired link
// is deleted and reported as ErrExpired.
func (s *Service) Resolve(ctx context.Context, code string) (Link, error) {
	l, err := s.links.Get(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return Link{}, ErrNotFound
	}
	if err != nil {
		return Link{}, err
	}

	if s.now().After(l.ExpiresAt(s.expiry)) {
		if err := s.links.Delete(ctx, code); err != nil && !errors.Is(err, store.ErrNotFound) {
			return Link{}, err
		}
		return Link{}, ErrExpired
	}

	l, err = s.links.Update(ctx, code, func(l *Link) error {
		l.Clicks++
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return Link{}, ErrNotFound
	}
	return l, err
}

// Stats reports on a link without touching it, expired or not.
func (s *Service) Stats(ctx context.Context, code string) (Stats, error) {
	l, err := s.links.Get(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return Stats{}, ErrNotFound
	}
	if err != nil {
		return Stats{}, err
	}
	exp := l.ExpiresAt(s.expiry)
	return Stats{
		ShortCode: l.Code,
		LongURL:   l.LongURL,
		Clicks:    l.Clicks,
		CreatedAt: l.CreatedAt,
		ExpiresAt: exp,
		IsExpired: s.now().After(exp),
	}, nil
}
