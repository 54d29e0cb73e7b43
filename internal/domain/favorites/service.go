package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	apperrors "github.com/yanqian/skymind/pkg/errors"
)

// ErrNotFound is returned when removing an id that is not saved.
var ErrNotFound = errors.New("favorite not found")

// Service manages the saved locations list.
type Service interface {
	List(ctx context.Context) ([]Location, error)
	Toggle(ctx context.Context, loc Location) (ToggleResult, error)
	Remove(ctx context.Context, id string) error
	IsFavorite(ctx context.Context, id string) (bool, error)
}

// Repository persists favorites in insertion order.
type Repository interface {
	List(ctx context.Context) ([]Location, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, loc Location) error
	Delete(ctx context.Context, id string) (bool, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService wires up the favorites domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "favorites.service")}
}

func (s *service) List(ctx context.Context) ([]Location, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFavorites, "failed to list favorites", err)
	}
	if items == nil {
		items = []Location{}
	}
	return items, nil
}

func (s *service) Toggle(ctx context.Context, loc Location) (ToggleResult, error) {
	loc.Name = strings.TrimSpace(loc.Name)
	if loc.Name == "" {
		return ToggleResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "name cannot be empty", nil)
	}
	if math.Abs(loc.Latitude) > 90 || math.Abs(loc.Longitude) > 180 {
		return ToggleResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates out of range", nil)
	}
	loc.ID = LocationID(loc.Name, loc.Latitude, loc.Longitude)

	exists, err := s.repo.Exists(ctx, loc.ID)
	if err != nil {
		return ToggleResult{}, apperrors.Wrap(apperrors.CodeFavorites, "failed to check favorite", err)
	}
	if exists {
		if _, err := s.repo.Delete(ctx, loc.ID); err != nil {
			return ToggleResult{}, apperrors.Wrap(apperrors.CodeFavorites, "failed to remove favorite", err)
		}
		s.logger.Info("favorite removed", "id", loc.ID)
		return ToggleResult{Added: false, Location: loc}, nil
	}
	if err := s.repo.Insert(ctx, loc); err != nil {
		return ToggleResult{}, apperrors.Wrap(apperrors.CodeFavorites, "failed to save favorite", err)
	}
	s.logger.Info("favorite added", "id", loc.ID)
	return ToggleResult{Added: true, Location: loc}, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeFavorites, "failed to remove favorite", err)
	}
	if !removed {
		return apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("favorite %q not found", id), ErrNotFound)
	}
	return nil
}

func (s *service) IsFavorite(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeFavorites, "failed to check favorite", err)
	}
	return ok, nil
}
