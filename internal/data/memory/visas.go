package memory

import (
	"context"
	"sort"

	"airport-ops/internal/data/entity"
)

type visaRepo struct {
	s    *Store
	held bool
}

func (r *visaRepo) Create(_ context.Context, visa *entity.Visa) error {
	defer r.s.lock(r.held)()

	r.s.data.visas[visa.ID] = *visa
	return nil
}

func (r *visaRepo) FindByPassport(_ context.Context, passport string) ([]*entity.Visa, error) {
	defer r.s.lock(r.held)()

	visas := make([]*entity.Visa, 0)
	for _, v := range r.s.data.visas {
		if v.PassportNumber == passport {
			visas = append(visas, &v)
		}
	}
	sort.Slice(visas, func(i, j int) bool {
		return visas[i].ValidUntil.After(visas[j].ValidUntil)
	})
	return visas, nil
}
