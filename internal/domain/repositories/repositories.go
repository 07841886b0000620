package repositories

import (
	"context"

	"github.com/whiteelite/garage/internal/domain/entities"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

type Pagination interface {
	Limit() int64
	Offset() int64
}

// Page is the plain Pagination value.
type Page struct {
	Size int64
	Skip int64
}

func (p Page) Limit() int64  { return p.Size }
func (p Page) Offset() int64 { return p.Skip }

type CRUD[T shared.Entity, P Pagination] interface {
	Create(ctx context.Context, entity T) error
	Get(ctx context.Context, identity shared.Identity) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
	Paginate(ctx context.Context, page P) ([]T, error)
}

// VehicleRepository stores vehicles and cars. Update only writes a level
// strictly above the stored one.
type VehicleRepository interface {
	CRUD[shared.Entity, Pagination]

	// Load is Get with options applied to the restored entity only.
	Load(ctx context.Context, identity shared.Identity, opts ...entities.Option) (shared.Entity, error)

	// UpdateLevel writes next only while the stored level is still expected.
	// A concurrent change yields an error matching errors.ErrConflict.
	UpdateLevel(ctx context.Context, identity shared.Identity, expected, next shared.Level) error
}

type MessageQueueParams interface {
	Get() map[string]any
}

type InitializeMessageQueue func(MessageQueueParams) MessageQueue

type MessageQueueConsumer interface {
	ToConsumeBuffered() <-chan entities.LevelChanged
	Close()
}

type MessageQueueProducer interface {
	ToProduceBuffered() chan<- entities.LevelChanged
	Close()
}

type MessageQueue interface {
	MessageQueueProducer
	MessageQueueConsumer
}
