package save

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// SlotInfo describes a stored save without its payload.
type SlotInfo struct {
	Slot       string
	SaveName   string
	TurnNumber int
	SavedAt    time.Time
	Size       int
}

// Store keeps serialized saves by slot name.
type Store interface {
	Put(ctx context.Context, info SlotInfo, data []byte) error
	Get(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]SlotInfo, error)
	Delete(ctx context.Context, slot string) error
}

type memEntry struct {
	info SlotInfo
	data []byte
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]memEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]memEntry)}
}

// Put stores a copy of data in info.Slot, replacing any previous save there.
func (m *MemoryStore) Put(ctx context.Context, info SlotInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if info.Slot == "" {
		return fmt.Errorf("slot name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	info.Size = len(data)
	m.slots[info.Slot] = memEntry{info: info, data: append([]byte(nil), data...)}
	return nil
}

// Get returns a copy of the save in slot.
func (m *MemoryStore) Get(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.slots[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	return append([]byte(nil), e.data...), nil
}

// List returns every slot, most recently saved first.
func (m *MemoryStore) List(ctx context.Context) ([]SlotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SlotInfo, 0, len(m.slots))
	for _, e := range m.slots {
		out = append(out, e.info)
	}
	sortSlots(out)
	return out, nil
}

// Delete removes slot. It fails with ErrSlotNotFound for an empty slot.
func (m *MemoryStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slot]; !ok {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
	}
	delete(m.slots, slot)
	return nil
}

func sortSlots(s []SlotInfo) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].SavedAt.Equal(s[j].SavedAt) {
			return s[i].SavedAt.After(s[j].SavedAt)
		}
		return s[i].Slot < s[j].Slot
	})
}
