package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

func TestPackageService_SeedListGet(t *testing.T) {
	svc := &PackageService{Store: newStore(t)}
	ctx := context.Background()

	n, err := svc.Seed(ctx, []domain.Package{
		{Name: "gold", Price: 49.99, Features: []string{"3 meals"}},
		{Name: "silver", Price: 29.99},
	})
	if err != nil || n != 2 {
		t.Fatalf("Seed = %d, %v", n, err)
	}
	// Re-seeding updates in place.
	if _, err := svc.Seed(ctx, []domain.Package{{Name: "gold", Price: 59.99}}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil || len(all) != 2 || all[0].Name != "silver" {
		t.Fatalf("List = %+v, %v", all, err)
	}
	gold, err := svc.Get(ctx, "gold")
	if err != nil || gold.Price != 59.99 {
		t.Fatalf("Get = %+v, %v", gold, err)
	}
	if _, err := svc.Get(ctx, "diamond"); !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestPackageService_Seed_StopsAtInvalid(t *testing.T) {
	svc := &PackageService{Store: newStore(t)}
	n, err := svc.Seed(context.Background(), []domain.Package{{Name: "ok", Price: 1}, {Name: " ", Price: 2}})
	if !errors.Is(err, ErrInvalidInput) || n != 1 {
		t.Fatalf("Seed = %d, %v", n, err)
	}
}
