package repository

import (
	"context"
	"sort"
	"sync"

	treatmentserrors "clinicslots/internal/treatments/errors"
	"clinicslots/pkg/model"
)

type memoryTreatmentRepository struct {
	mu         sync.RWMutex
	treatments map[string]model.Treatment
}

// NewMemoryTreatmentRepository returns a process-local catalog seeded with
// the given treatments.
func NewMemoryTreatmentRepository(seed ...model.Treatment) TreatmentRepository {
	repo := &memoryTreatmentRepository{treatments: make(map[string]model.Treatment, len(seed))}
	for _, t := range seed {
		repo.treatments[t.Name] = cloneTreatment(t)
	}
	return repo
}

func (r *memoryTreatmentRepository) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Treatment, 0, len(r.treatments))
	for _, t := range r.treatments {
		c := cloneTreatment(t)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryTreatmentRepository) FindByName(ctx context.Context, name string) (*model.Treatment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.treatments[name]
	if !ok {
		return nil, treatmentserrors.ErrNotFound
	}
	c := cloneTreatment(t)
	return &c, nil
}

func (r *memoryTreatmentRepository) Upsert(ctx context.Context, treatment *model.Treatment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.treatments[treatment.Name] = cloneTreatment(*treatment)
	return nil
}

func cloneTreatment(t model.Treatment) model.Treatment {
	t.Slots = append([]string(nil), t.Slots...)
	return t
}
