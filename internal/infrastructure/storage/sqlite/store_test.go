package sqlite

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/whiteelite/garage/internal/domain/entities"
	"github.com/whiteelite/garage/internal/domain/repositories"
	"github.com/whiteelite/garage/internal/platform/errors"
	shared "github.com/whiteelite/garage/pkg/shared/domain/entities"
)

func openTestStore(t *testing.T, opts ...entities.Option) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "garage.db"), opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	car := entities.NewCar("C1", 4)
	car.Increment()
	if err := store.Create(ctx, car); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	restored, ok := got.(*entities.Car)
	if !ok {
		t.Fatalf("expected *Car, got %T", got)
	}
	if restored.Level() != 2 || restored.DoorCount() != 4 {
		t.Fatalf("restored level %d doors %d", restored.Level(), restored.DoorCount())
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if err := store.Create(ctx, entities.NewVehicle("V1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.Create(ctx, entities.NewVehicle("V1"))
	if !stderrors.Is(err, errors.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	_, err := openTestStore(t).Get(context.Background(), "nope")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateKeepsLevelMonotonic(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	v := entities.NewVehicle("V1")
	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := v.TrySet(5); err != nil {
		t.Fatalf("TrySet: %v", err)
	}
	if err := store.Update(ctx, v); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Update(ctx, v); !stderrors.Is(err, errors.ErrValidationRejected) {
		t.Fatalf("re-saving the same level must be rejected, got %v", err)
	}

	stale := entities.NewVehicle("V1")
	stale.Increment()
	err := store.Update(ctx, stale)
	if !stderrors.Is(err, errors.ErrValidationRejected) {
		t.Fatalf("expected stale write to be rejected, got %v", err)
	}

	got, err := store.Get(ctx, "V1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Level() != 5 {
		t.Fatalf("stored level = %d, want 5", got.Level())
	}
}

func TestUpdateInterleavedLoadsCannotBothWin(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Create(ctx, entities.NewVehicle("P1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := store.Get(ctx, "P1")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	b, err := store.Get(ctx, "P1")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	a.Increment()
	b.Increment()

	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if err := store.Update(ctx, b); !stderrors.Is(err, errors.ErrValidationRejected) {
		t.Fatalf("second update from the same loaded level must be rejected, got %v", err)
	}
}

func TestUpdateLevelCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	if err := store.Create(ctx, entities.NewVehicle("P1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.UpdateLevel(ctx, "P1", 1, 2); err != nil {
		t.Fatalf("first swap: %v", err)
	}
	err := store.UpdateLevel(ctx, "P1", 1, 2)
	if !stderrors.Is(err, errors.ErrConflict) {
		t.Fatalf("swap from a stale level must conflict, got %v", err)
	}
	var domainErr *errors.Error
	if !stderrors.As(err, &domainErr) || domainErr.Metadata["current"] != "2" {
		t.Fatalf("conflict metadata = %+v", domainErr)
	}

	if err := store.UpdateLevel(ctx, "P1", 2, 2); !stderrors.Is(err, errors.ErrValidationRejected) {
		t.Fatalf("non-increasing swap must be rejected, got %v", err)
	}
	if err := store.UpdateLevel(ctx, "ghost", 1, 2); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	got, err := store.Get(ctx, "P1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Level() != 2 {
		t.Fatalf("stored level = %d, want 2", got.Level())
	}
}

func TestLoadAppliesCallOptionsOnly(t *testing.T) {
	ctx := context.Background()
	var storeEvents int
	store := openTestStore(t, entities.WithNotifier(entities.NotifierFunc(func(entities.LevelChanged) {
		storeEvents++
	})))
	if err := store.Create(ctx, entities.NewVehicle("P1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	outbox := &entities.Outbox{}
	got, err := store.Load(ctx, "P1", entities.WithNotifier(outbox))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got.Increment()

	if outbox.Len() != 1 || storeEvents != 0 {
		t.Fatalf("outbox = %d, store notifier = %d", outbox.Len(), storeEvents)
	}
}

func TestUpdateMissing(t *testing.T) {
	err := openTestStore(t).Update(context.Background(), entities.NewVehicle("ghost"))
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	v := entities.NewVehicle("V1")

	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, v); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, v); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPaginateInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, id := range []entities.Identity{"c", "a", "b"} {
		if err := store.Create(ctx, entities.NewVehicle(id)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	all, err := store.Paginate(ctx, nil)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(all) != 3 || all[0].Identity() != "c" || all[2].Identity() != "b" {
		t.Fatalf("unexpected order: %v", identities(all))
	}

	page, err := store.Paginate(ctx, repositories.Page{Size: 1, Skip: 1})
	if err != nil {
		t.Fatalf("paginate page: %v", err)
	}
	if len(page) != 1 || page[0].Identity() != "a" {
		t.Fatalf("unexpected page: %v", identities(page))
	}
}

func TestRestoredEntitiesCarryOptions(t *testing.T) {
	ctx := context.Background()
	var events []entities.LevelChanged
	store := openTestStore(t, entities.WithNotifier(entities.NotifierFunc(func(e entities.LevelChanged) {
		events = append(events, e)
	})))

	if err := store.Create(ctx, entities.NewVehicle("V1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Get(ctx, "V1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Increment()
	if len(events) != 1 || events[0].Current != 2 {
		t.Fatalf("events = %+v", events)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := openTestStore(t).Create(ctx, entities.NewVehicle("V1")); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func identities(list []shared.Entity) []entities.Identity {
	out := make([]entities.Identity, 0, len(list))
	for _, e := range list {
		out = append(out, e.Identity())
	}
	return out
}
