package service

import (
	"context"
	"fmt"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

// SeedPurposes inserts the base purpose catalog. Existing entries are left
// as they are, so it is safe to run on every start. It returns the number of
// entries this call created.
func SeedPurposes(ctx context.Context, purposes repo.PurposeRepo) (int, error) {
	created := 0
	for _, p := range domain.BasePurposes {
		_, ok, err := purposes.Insert(ctx, p)
		if err != nil {
			return created, fmt.Errorf("service.SeedPurposes: %s: %w", p.Name, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}
