package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbourn/go-hostel-backend/internal/config"
	"github.com/tbourn/go-hostel-backend/internal/domain"
	"github.com/tbourn/go-hostel-backend/internal/observability"
	"github.com/tbourn/go-hostel-backend/internal/services"
)

// packageFile is the YAML layout accepted by `seed`.
type packageFile struct {
	Packages []struct {
		Name        string   `yaml:"name"`
		Price       float64  `yaml:"price"`
		Description string   `yaml:"description"`
		Features    []string `yaml:"features"`
	} `yaml:"packages"`
}

// parsePackages decodes a package file. Unknown keys are rejected so typos
// do not silently drop fields.
func parsePackages(r io.Reader) ([]domain.Package, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f packageFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	out := make([]domain.Package, 0, len(f.Packages))
	for _, p := range f.Packages {
		out = append(out, domain.Package{
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Features:    p.Features,
		})
	}
	return out, nil
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert subscription packages from a YAML file",
		Long: `Upsert subscription packages by name from a YAML file.

Example:
  hostel-api seed --file packages.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			observability.SetupLogging(cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

			fh, err := os.Open(file)
			if err != nil {
				return err
			}
			defer fh.Close()
			pkgs, err := parsePackages(fh)
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := migrate(cmd.Context(), store, cfg.Store.Timeout); err != nil {
				return err
			}

			svc := &services.PackageService{Store: store, Timeout: cfg.Store.Timeout}
			n, err := svc.Seed(cmd.Context(), pkgs)
			if err != nil {
				return err
			}
			log.Info().Int("packages", n).Str("file", file).Msg("seed complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "packages.yaml", "YAML file with a top-level packages list")
	return cmd
}
