// internal/instances/service.go
package instances

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service is the allocation authority. Every creation pathway (API and
// webhook alike) goes through Create so the same rules apply regardless of
// entry point.
type Service struct {
	log   *zap.SugaredLogger
	store Store
}

func NewService(log *zap.SugaredLogger, store Store) *Service {
	return &Service{log: log, store: store}
}

// List returns all instances ordered ascending by name.
func (s *Service) List(ctx context.Context) ([]Instance, error) {
	return s.store.ListAll(ctx)
}

// CheckAvailability classifies a candidate name. Read-only; checks run in
// a fixed order so the reported reason is deterministic: format first,
// then reservation, then the store lookup.
func (s *Service) CheckAvailability(ctx context.Context, name string) (Availability, error) {
	if !IsValidName(name) {
		return unavailable(name, ReasonInvalid), nil
	}
	if IsReservedName(name) {
		return unavailable(name, ReasonReserved), nil
	}
	_, err := s.store.FindByName(ctx, name)
	switch {
	case err == nil:
		return unavailable(name, ReasonTaken), nil
	case errors.Is(err, ErrNotFound):
		return available(name), nil
	default:
		return Availability{}, err
	}
}

// Create claims a name and persists the instance. The availability check
// and the insert are not serialized: a concurrent loser is caught by the
// store's uniqueness constraint and reported as taken.
func (s *Service) Create(ctx context.Context, name, ownerEmail, locale string) (Instance, error) {
	avail, err := s.CheckAvailability(ctx, name)
	if err != nil {
		return Instance{}, err
	}
	if !avail.Available {
		switch *avail.Reason {
		case ReasonReserved, ReasonTaken:
			return Instance{}, &ConflictError{Name: name, Reason: *avail.Reason}
		default:
			return Instance{}, &ValidationError{Field: "name", Message: "must be a valid subdomain: 3-63 chars, lowercase alphanumeric and hyphens, must start and end with alphanumeric"}
		}
	}

	if locale == "" {
		locale = DefaultLocale
	}
	saved, err := s.store.Insert(ctx, Instance{Name: name, OwnerEmail: ownerEmail, Locale: locale})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the race between check and insert.
			return Instance{}, &ConflictError{Name: name, Reason: ReasonTaken}
		}
		return Instance{}, err
	}
	s.log.Infow("instance created", "name", saved.Name, "owner", saved.OwnerEmail)
	return saved, nil
}
