package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"workasana/internal/model"
)

// TagService keeps tags in process memory only: an ephemeral,
// single-process cache with infinite TTL and no eviction. Tags do not
// survive a restart. Names are unique case-insensitively.
type TagService struct {
	mu   sync.RWMutex
	tags []model.Tag
}

func NewTagService() *TagService {
	return &TagService{tags: []model.Tag{}}
}

func (s *TagService) Create(name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, model.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) {
			return model.Tag{}, model.ErrTagExists
		}
	}

	tag := model.Tag{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.tags = append(s.tags, tag)
	return tag, nil
}

func (s *TagService) List() []model.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}
