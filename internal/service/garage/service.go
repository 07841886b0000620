// Package garage wires vehicle entities to their repository.
package garage

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/domain/repositories"
	"github.com/whiteelite/garage/internal/platform/errors"
	"github.com/whiteelite/garage/internal/platform/logger"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

// maxAttempts bounds reload-and-retry when another writer moved the level
// between load and write.
const maxAttempts = 10

type Service struct {
	repo     repositories.VehicleRepository
	log      *logger.Logger
	notifier entities.Notifier
}

// NewService builds a Service. notifier receives LevelChanged events only
// once the change is stored; it may be nil.
func NewService(repo repositories.VehicleRepository, log *logger.Logger, notifier entities.Notifier) *Service {
	return &Service{repo: repo, log: log, notifier: notifier}
}

// Register creates a plain vehicle when doors is zero and a car otherwise.
// An empty identity gets a generated one.
func (s *Service) Register(ctx context.Context, identity shared.Identity, doors entities.DoorCount) (shared.Entity, error) {
	if identity == "" {
		identity = entities.NewIdentity()
	}
	if err := entities.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	var entity shared.Entity
	if doors > 0 {
		entity = entities.NewCar(identity, doors)
	} else {
		entity = entities.NewVehicle(identity)
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("register %s: %w", identity, err)
	}
	s.log.Info("vehicle registered", "identity", string(identity), "kind", string(entities.KindOf(entity)))
	return entity, nil
}

// Upgrade increments the stored vehicle's level by one.
func (s *Service) Upgrade(ctx context.Context, identity shared.Identity) (shared.Entity, error) {
	entity, err := s.mutate(ctx, identity, func(e shared.Entity) error {
		e.Increment()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upgrade %s: %w", identity, err)
	}
	return entity, nil
}

// SetLevel raises the stored vehicle to level. Values not above the current
// level are rejected and nothing is written.
func (s *Service) SetLevel(ctx context.Context, identity shared.Identity, level shared.Level) (shared.Entity, error) {
	entity, err := s.mutate(ctx, identity, func(e shared.Entity) error {
		if err := e.TrySet(level); err != nil {
			s.log.Warn("level change rejected",
				"identity", string(identity),
				"current", int(e.Level()),
				"proposed", int(level),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set level %s: %w", identity, err)
	}
	return entity, nil
}

// mutate loads the entity, applies change and swaps the stored level from
// the loaded one to the new one. On conflict it starts over from a fresh
// load. Events raised by change are delivered only after the swap commits.
func (s *Service) mutate(ctx context.Context, identity shared.Identity, change func(shared.Entity) error) (shared.Entity, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outbox := &entities.Outbox{}
		entity, err := s.repo.Load(ctx, identity, entities.WithNotifier(outbox))
		if err != nil {
			return nil, err
		}
		loaded := entity.Level()
		if err := change(entity); err != nil {
			return nil, err
		}

		err = s.repo.UpdateLevel(ctx, identity, loaded, entity.Level())
		if err == nil {
			outbox.Flush(s.notifier)
			return entity, nil
		}
		if !stderrors.Is(err, errors.ErrConflict) {
			return nil, err
		}
		s.log.Debug("level conflict, retrying", "identity", string(identity), "attempt", attempt)
		lastErr = err
	}
	return nil, lastErr
}

// Start activates the stored vehicle with its variant's behavior.
func (s *Service) Start(ctx context.Context, identity shared.Identity) (string, error) {
	entity, err := s.Get(ctx, identity)
	if err != nil {
		return "", err
	}
	return entity.Activate(), nil
}

func (s *Service) Get(ctx context.Context, identity shared.Identity) (shared.Entity, error) {
	entity, err := s.repo.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", identity, err)
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]shared.Entity, error) {
	list, err := s.repo.Paginate(ctx, repositories.Page{Size: limit, Skip: offset})
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return list, nil
}
