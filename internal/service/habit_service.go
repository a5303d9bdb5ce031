package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/oriana-monaldi/Hamster-habits/internal/cache"
	dom "github.com/oriana-monaldi/Hamster-habits/internal/domain"
	"github.com/oriana-monaldi/Hamster-habits/internal/live"
	"github.com/oriana-monaldi/Hamster-habits/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyTitle       = errors.New("habit title is required")
	ErrEmptyDescription = errors.New("habit description is required")
	ErrTitleTooLong     = errors.New("habit title is too long")
	ErrDescTooLong      = errors.New("habit description is too long")
	ErrInvalidLevel     = errors.New("level must be High, Medium or Low")
)

const (
	maxTitleLen = 120
	maxDescLen  = 1000
)

type HabitService struct {
	repo   repo.HabitRepo
	cache  *cache.HabitCache
	events *live.Broker
	sf     singleflight.Group
}

// NewHabitService creates a HabitService. If c is nil, caching is disabled.
// If events is nil, change notifications are disabled.
func NewHabitService(r repo.HabitRepo, c *cache.HabitCache, events *live.Broker) *HabitService {
	return &HabitService{repo: r, cache: c, events: events}
}

// Create validates and stores a new habit owned by userID. The owner,
// completed=false and streak=0 are fixed here; no later path changes them
// except Complete. An empty level defaults to High.
func (s *HabitService) Create(ctx context.Context, userID int64, title, desc, level string) (dom.Habit, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if err := validateFields(title, desc); err != nil {
		return dom.Habit{}, err
	}

	lvl := dom.LevelHigh
	if strings.TrimSpace(level) != "" {
		parsed, ok := dom.ParseLevel(level)
		if !ok {
			return dom.Habit{}, ErrInvalidLevel
		}
		lvl = parsed
	}

	h, err := s.repo.Create(ctx, dom.Habit{
		UserID:      userID,
		Title:       title,
		Description: desc,
		Level:       lvl,
	})
	if err != nil {
		return dom.Habit{}, err
	}
	s.changed(ctx, userID)
	return h, nil
}

func (s *HabitService) List(ctx context.Context, userID int64) ([]dom.Habit, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Habit), nil
	}
	return s.repo.List(ctx, userID)
}

func (s *HabitService) GetByID(ctx context.Context, userID int64, id string) (dom.Habit, error) {
	h, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Habit{}, ErrNotFound
		}
		return dom.Habit{}, err
	}
	return h, nil
}

// Update patches title, description and level. Ownership is not part of the
// patch: the repo's UPDATE never touches user_id or id.
func (s *HabitService) Update(ctx context.Context, userID int64, id string, title, desc, level *string) (dom.Habit, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Habit{}, ErrNotFound
		}
		return dom.Habit{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	if err := validateFields(patch.Title, patch.Description); err != nil {
		return dom.Habit{}, err
	}
	if level != nil {
		parsed, ok := dom.ParseLevel(*level)
		if !ok {
			return dom.Habit{}, ErrInvalidLevel
		}
		patch.Level = parsed
	}
	h, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Habit{}, ErrNotFound
		}
		return dom.Habit{}, err
	}
	s.changed(ctx, userID)
	return h, nil
}

// Complete marks the habit done and bumps its streak.
func (s *HabitService) Complete(ctx context.Context, userID int64, id string) (dom.Habit, error) {
	h, err := s.repo.MarkCompleted(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Habit{}, ErrNotFound
		}
		return dom.Habit{}, err
	}
	s.changed(ctx, userID)
	return h, nil
}

// Delete removes the habit. Deleting an ID that does not exist (or belongs
// to someone else, or was already deleted) returns ErrNotFound.
func (s *HabitService) Delete(ctx context.Context, userID int64, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.changed(ctx, userID)
	return nil
}

func (s *HabitService) Search(ctx context.Context, userID int64, q string) ([]dom.Habit, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strconv.FormatInt(userID, 10) + ":" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, userID, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.Search(ctx, userID, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, userID, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Habit), nil
	}
	return s.repo.Search(ctx, userID, q)
}

// changed runs after every successful write: stale cache goes first, then
// live subscribers are signalled.
func (s *HabitService) changed(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
	if s.events != nil {
		s.events.Publish(ctx, userID)
	}
}

func validateFields(title, desc string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > maxTitleLen {
		return ErrTitleTooLong
	}
	if desc == "" {
		return ErrEmptyDescription
	}
	if len(desc) > maxDescLen {
		return ErrDescTooLong
	}
	return nil
}
