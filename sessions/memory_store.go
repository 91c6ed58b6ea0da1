package sessions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paradoks/clubhub/models"
)

var errDuplicateToken = errors.New("duplicate session token")

// MemoryStore is an in-memory Store. Principal emails must be registered with
// AddPrincipal for FindActiveByEmail to match.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      uint
	rows        map[uint]*models.Session
	byToken     map[string]uint
	byPrincipal map[uint][]uint
	emails      map[string]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:        make(map[uint]*models.Session),
		byToken:     make(map[string]uint),
		byPrincipal: make(map[uint][]uint),
		emails:      make(map[string]uint),
	}
}

func (m *MemoryStore) AddPrincipal(id uint, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[strings.ToLower(email)] = id
}

func (m *MemoryStore) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byToken[s.Token]; exists {
		return errDuplicateToken
	}

	m.nextID++
	s.ID = m.nextID
	row := *s
	m.rows[row.ID] = &row
	m.byToken[row.Token] = row.ID
	m.byPrincipal[row.PrincipalID] = append(m.byPrincipal[row.PrincipalID], row.ID)
	return nil
}

func (m *MemoryStore) FindActiveByToken(_ context.Context, token string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byToken[token]
	if !ok || !m.rows[id].Active {
		return nil, ErrNotFound
	}
	row := *m.rows[id]
	return &row, nil
}

func (m *MemoryStore) Deactivate(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if row, ok := m.rows[id]; ok {
		row.Active = false
	}
	return nil
}

func (m *MemoryStore) FindActiveByPrincipal(_ context.Context, principalID uint) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestActive(principalID)
}

func (m *MemoryStore) FindActiveByEmail(_ context.Context, email string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	principalID, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return m.newestActive(principalID)
}

func (m *MemoryStore) ListActive(_ context.Context, principalID uint, now time.Time) ([]models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Session
	for _, id := range m.byPrincipal[principalID] {
		row := m.rows[id]
		if row.Active && row.ExpiresAt.After(now) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// newestActive expects m.mu to be held.
func (m *MemoryStore) newestActive(principalID uint) (*models.Session, error) {
	ids := m.byPrincipal[principalID]
	for i := len(ids) - 1; i >= 0; i-- {
		if row := m.rows[ids[i]]; row.Active {
			out := *row
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
