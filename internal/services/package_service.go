package services

import (
	"context"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

// PackageService reads the subscription catalog and seeds it from the CLI.
type PackageService struct {
	Store   PackageStore
	Timeout time.Duration
}

// List returns every package, cheapest first.
func (s *PackageService) List(ctx context.Context) ([]domain.Package, error) {
	ctx, span := otel.Tracer("services/PackageService").Start(ctx, "List")
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	out, err := s.Store.ListPackages(sctx)
	if err != nil {
		return nil, storeErr("list packages", err)
	}
	return out, nil
}

// Get returns the package called name.
func (s *PackageService) Get(ctx context.Context, name string) (*domain.Package, error) {
	ctx, span := otel.Tracer("services/PackageService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("package.name", name)))
	defer span.End()

	sctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	p, err := s.Store.GetPackageByName(sctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPackageNotFound
		}
		return nil, storeErr("get package", err)
	}
	return p, nil
}

// Seed validates and upserts pkgs by name. It stops at the first failure and
// reports how many were written before it.
func (s *PackageService) Seed(ctx context.Context, pkgs []domain.Package) (int, error) {
	ctx, span := otel.Tracer("services/PackageService").Start(ctx, "Seed",
		trace.WithAttributes(attribute.Int("packages", len(pkgs))))
	defer span.End()

	for i := range pkgs {
		p := &pkgs[i]
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return i, invalid("name", "required")
		}
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
			return i, invalid("price", "must be a finite non-negative number")
		}
		sctx, cancel := bounded(ctx, s.Timeout)
		err := s.Store.UpsertPackage(sctx, p)
		cancel()
		if err != nil {
			return i, storeErr("upsert package", err)
		}
	}
	return len(pkgs), nil
}
