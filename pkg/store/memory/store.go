// Package memory keeps the session's patient record in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/ecotown/biomarker-atlas/pkg/models/domain"
)

type Store interface {
	Get(ctx context.Context) (domain.PatientRecord, error)
	// Update applies fn to a copy of the current record and stores the result
	// only when fn succeeds. Calls are serialized.
	Update(ctx context.Context, fn func(domain.PatientRecord) (domain.PatientRecord, error)) (domain.PatientRecord, error)
}

type recordStore struct {
	mu     sync.Mutex
	record domain.PatientRecord
}

func NewStore(seed domain.PatientRecord) Store {
	return &recordStore{record: seed.Clone()}
}

func (s *recordStore) Get(ctx context.Context) (domain.PatientRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.PatientRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone(), nil
}

func (s *recordStore) Update(
	ctx context.Context,
	fn func(domain.PatientRecord) (domain.PatientRecord, error),
) (domain.PatientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.PatientRecord{}, err
	}
	next, err := fn(s.record.Clone())
	if err != nil {
		return domain.PatientRecord{}, err
	}
	s.record = next.Clone()
	return next, nil
}
