// Package poll runs simple polls with unrestricted voting.
package poll

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlmaURepos/practice-next-js/internal/store"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrNoPolls        = errors.New("no polls available")
	ErrTooFewOptions  = errors.New("at least 2 options are required")
	ErrNoQuestion     = errors.New("question is required")
)

func Key(p Poll) string { return p.ID }

// DefaultPoll is created when the data file does not exist yet.
func DefaultPoll(id string, now time.Time) Poll {
	return Poll{
		ID:       id,
		Question: "Ваш любимый фреймворк для бэкенда?",
		Options: Options{
			{Key: "fastapi", Option: Option{Label: "FastAPI"}},
			{Key: "django", Option: Option{Label: "Django"}},
			{Key: "flask", Option: Option{Label: "Flask"}},
			{Key: "nodejs", Option: Option{Label: "Node.js (Express)"}},
		},
		CreatedAt: now,
	}
}

type Service struct {
	polls store.Store[Poll]
	now   func() time.Time
}

func NewService(polls store.Store[Poll]) *Service {
	return &Service{polls: polls, now: time.Now}
}

func (s *Service) SeedDefault(ctx context.Context) (Poll, error) {
	p := DefaultPoll(uuid.NewString(), s.now().UTC())
	if err := s.polls.Put(ctx, p.ID, p); err != nil {
		return Poll{}, fmt.Errorf("seed default poll: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Poll, error) {
	return s.polls.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Poll, error) {
	p, err := s.polls.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return Poll{}, ErrPollNotFound
	}
	return p, err
}

// First is the oldest poll, used by the single-poll endpoints.
func (s *Service) First(ctx context.Context) (Poll, error) {
	all, err := s.polls.List(ctx)
	if err != nil {
		return Poll{}, err
	}
	if len(all) == 0 {
		return Poll{}, ErrNoPolls
	}
	return all[0], nil
}

// Create builds a poll from option labels. Blank labels are dropped before
// the two-option minimum is checked.
func (s *Service) Create(ctx context.Context, question string, labels []string) (Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Poll{}, ErrNoQuestion
	}
	opts := Options{}
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			opts = append(opts, KeyedOption{Key: fmt.Sprintf("option_%d", len(opts)), Option: Option{Label: l}})
		}
	}
	if len(opts) < 2 {
		return Poll{}, ErrTooFewOptions
	}

	p := Poll{ID: uuid.NewString(), Question: question, Options: opts, CreatedAt: s.now().UTC()}
	if err := s.polls.Put(ctx, p.ID, p); err != nil {
		return Poll{}, fmt.Errorf("save poll: %w", err)
	}
	return p, nil
}

// Vote adds one vote to option. Anyone may vote any number of times.
func (s *Service) Vote(ctx context.Context, id, option string) (Poll, error) {
	p, err := s.polls.Update(ctx, id, func(p *Poll) error {
		i := p.Options.Index(option)
		if i < 0 {
			return ErrOptionNotFound
		}
		// the stored value shares its backing array with readers
		p.Options = slices.Clone(p.Options)
		p.Options[i].Votes++
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return Poll{}, ErrPollNotFound
	}
	return p, err
}
