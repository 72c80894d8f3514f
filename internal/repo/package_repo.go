package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// ListPackages returns every package ordered by price then name.
func ListPackages(ctx context.Context, db *gorm.DB) ([]domain.Package, error) {
	out := []domain.Package{}
	err := db.WithContext(ctx).Order("price ASC").Order("name ASC").Find(&out).Error
	return out, translate(err)
}

// GetPackageByName fetches a package by its unique name.
func GetPackageByName(ctx context.Context, db *gorm.DB, name string) (*domain.Package, error) {
	var p domain.Package
	if err := db.WithContext(ctx).First(&p, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// UpsertPackage inserts p or, when a package with the same name exists,
// overwrites its price, description and features.
func UpsertPackage(ctx context.Context, db *gorm.DB, p *domain.Package) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "description", "features", "updated_at"}),
	}).Create(p).Error
	return translate(err)
}
