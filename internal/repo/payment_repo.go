package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// RecordPayment inserts p and, when idem is non-nil, the idempotency record
// pointing at it, in one transaction. A reused transaction ID or idempotency
// key yields ErrDuplicate and nothing is written.
func RecordPayment(ctx context.Context, db *gorm.DB, p *domain.Payment, idem *domain.Idempotency) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	return translate(db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if idem == nil {
			return nil
		}
		idem.ResourceID = p.ID
		return CreateIdempotency(ctx, tx, idem)
	}))
}

// GetPayment fetches a payment by ID.
func GetPayment(ctx context.Context, db *gorm.DB, id string) (*domain.Payment, error) {
	var p domain.Payment
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListPaymentsByEmail returns a payer's payments, oldest first.
func ListPaymentsByEmail(ctx context.Context, db *gorm.DB, email string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	return out, translate(err)
}
