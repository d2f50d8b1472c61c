package memory

import (
	"sync"
	"time"

	"ai-tutor-be/internal/entity"

	"github.com/google/uuid"
)

// MistakeRepository is the in-memory mistake archive. Records keep their
// generation order; ids are never reused, even after deletion.
type MistakeRepository struct {
	mu      sync.Mutex
	records []*entity.MistakeRecord
	nextId  int64
}

func NewMistakeRepository() *MistakeRepository {
	return &MistakeRepository{
		nextId: 1,
	}
}

// Create assigns the next id, stamps the record and appends it.
func (r *MistakeRepository) Create(record *entity.MistakeRecord) *entity.MistakeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.Id = r.nextId
	r.nextId++
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return record
}

// All returns every record in generation order.
func (r *MistakeRepository) All() []*entity.MistakeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.MistakeRecord, len(r.records))
	copy(out, r.records)
	return out
}

// AllBySession returns the session's records in generation order.
func (r *MistakeRepository) AllBySession(sessionID uuid.UUID) []*entity.MistakeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.MistakeRecord, 0)
	for _, record := range r.records {
		if record.ChatSessionId == sessionID {
			out = append(out, record)
		}
	}
	return out
}

func (r *MistakeRepository) Get(id int64) (*entity.MistakeRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.Id == id {
			return record, true
		}
	}
	return nil, false
}

// Delete removes the record with the given id. The order of the remaining
// records is unchanged.
func (r *MistakeRepository) Delete(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, record := range r.records {
		if record.Id == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return true
		}
	}
	return false
}
