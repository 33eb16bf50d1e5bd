package repository

import (
	"context"
	"sort"
	"sync"

	doctorserrors "clinicslots/internal/doctors/errors"
	"clinicslots/pkg/model"
)

type memoryDoctorRepository struct {
	mu      sync.RWMutex
	doctors map[string]model.Doctor
}

func NewMemoryDoctorRepository(seed ...model.Doctor) DoctorRepository {
	repo := &memoryDoctorRepository{doctors: make(map[string]model.Doctor, len(seed))}
	for _, d := range seed {
		repo.doctors[d.Email] = d
	}
	return repo
}

func (r *memoryDoctorRepository) FindAll(ctx context.Context) ([]*model.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (r *memoryDoctorRepository) FindByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[email]
	if !ok {
		return nil, doctorserrors.ErrNotFound
	}
	return &d, nil
}

func (r *memoryDoctorRepository) Upsert(ctx context.Context, doctor *model.Doctor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[doctor.Email] = *doctor
	return nil
}

func (r *memoryDoctorRepository) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[email]; !ok {
		return doctorserrors.ErrNotFound
	}
	delete(r.doctors, email)
	return nil
}
