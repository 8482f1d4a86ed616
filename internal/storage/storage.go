package storage

import (
	"cmp"
	"slices"
	"sync"

	"github.com/LakshmiNeithilath/FileComparison/internal/models"
)

// ResultStore keeps comparison records in memory for the life of the process.
type ResultStore struct {
	records map[string]*models.ComparisonRecord
	mu      sync.RWMutex
}

func New() *ResultStore {
	return &ResultStore{
		records: make(map[string]*models.ComparisonRecord),
	}
}

func (s *ResultStore) Get(id string) (*models.ComparisonRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[id]
	return record, exists
}

func (s *ResultStore) Set(id string, record *models.ComparisonRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = record
}

// List returns every record, oldest first.
func (s *ResultStore) List() []*models.ComparisonRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.ComparisonRecord, 0, len(s.records))
	for _, v := range s.records {
		result = append(result, v)
	}
	slices.SortFunc(result, func(a, b *models.ComparisonRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result
}

func (s *ResultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.records[id]
	delete(s.records, id)
	return exists
}

