package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
)

var _ ports.CartStorage = (*SlotStore)(nil)

// SlotStore — слоты в памяти процесса (локальный запуск и тесты).
// Хранит и отдаёт копии байтов, чтобы внешние изменения не попадали внутрь.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *SlotStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = append([]byte(nil), value...)
	return nil
}
