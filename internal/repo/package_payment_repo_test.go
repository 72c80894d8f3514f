package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

func TestPackages_UpsertListGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, p := range []domain.Package{
		{Name: "gold", Price: 29.99, Features: []string{"3 meals"}},
		{Name: "silver", Price: 19.99},
		{Name: "platinum", Price: 49.99},
	} {
		p := p
		if err := UpsertPackage(ctx, db, &p); err != nil {
			t.Fatalf("UpsertPackage: %v", err)
		}
	}
	// Re-seeding overwrites by name.
	if err := UpsertPackage(ctx, db, &domain.Package{Name: "gold", Price: 24.99, Description: "updated"}); err != nil {
		t.Fatalf("UpsertPackage(update): %v", err)
	}

	list, err := ListPackages(ctx, db)
	if err != nil || len(list) != 3 {
		t.Fatalf("ListPackages = %d,%v; want 3", len(list), err)
	}
	if list[0].Name != "silver" || list[1].Name != "gold" || list[2].Name != "platinum" {
		t.Fatalf("order by price = %v,%v,%v", list[0].Name, list[1].Name, list[2].Name)
	}

	got, err := GetPackageByName(ctx, db, "gold")
	if err != nil || got.Price != 24.99 || got.Description != "updated" {
		t.Fatalf("GetPackageByName(gold) = %+v,%v", got, err)
	}
	if _, err := GetPackageByName(ctx, db, "bronze"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPackageByName(bronze) err = %v; want ErrNotFound", err)
	}
}

func TestPayments_RecordListDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p := &domain.Payment{Email: "a@x.io", Price: 19.99, Amount: 1999, Currency: "usd", TransactionID: "pi_1", PackageName: "silver"}
	idem := &domain.Idempotency{Scope: "payments", Subject: "a@x.io", Key: "k1", Status: 201, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	if err := RecordPayment(ctx, db, p, idem); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if p.ID == "" || idem.ResourceID != p.ID {
		t.Fatalf("ids not linked: payment=%q idem.resource=%q", p.ID, idem.ResourceID)
	}

	// Same transaction ID is rejected and writes nothing.
	again := &domain.Payment{Email: "a@x.io", Price: 19.99, Amount: 1999, Currency: "usd", TransactionID: "pi_1"}
	idem2 := &domain.Idempotency{Scope: "payments", Subject: "a@x.io", Key: "k2", Status: 201, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	if err := RecordPayment(ctx, db, again, idem2); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate transaction err = %v; want ErrDuplicate", err)
	}
	if _, err := GetIdempotency(ctx, db, "payments", "a@x.io", "k2", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rolled back idempotency record must not exist, err=%v", err)
	}

	// Payment without a key.
	if err := RecordPayment(ctx, db, &domain.Payment{Email: "a@x.io", Price: 5, Amount: 500, Currency: "usd", TransactionID: "pi_2"}, nil); err != nil {
		t.Fatalf("RecordPayment(no key): %v", err)
	}

	list, err := ListPaymentsByEmail(ctx, db, "a@x.io")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListPaymentsByEmail = %d,%v; want 2", len(list), err)
	}
	if none, _ := ListPaymentsByEmail(ctx, db, "b@x.io"); len(none) != 0 {
		t.Fatalf("other payer should have no payments")
	}

	got, err := GetPayment(ctx, db, p.ID)
	if err != nil || got.TransactionID != "pi_1" || got.Amount != 1999 {
		t.Fatalf("GetPayment = %+v,%v", got, err)
	}
}
