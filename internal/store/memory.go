package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/greenmason/greenmason/pkg/models"
)

// MemoryStore implements Store with mutex-guarded maps. Aggregate
// increments happen under the lock, so concurrent LogAction calls for the
// same user never lose an update.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*models.User // key: username
	actions []*models.Action        // append-only ledger
	pledges []*models.Pledge        // newest last
}

// NewMemoryStore creates a new empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*models.User),
		actions: make([]*models.Action, 0),
		pledges: make([]*models.Pledge, 0),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error  { return nil }
func (m *MemoryStore) Close(ctx context.Context) error { return nil }

// ── Users ───────────────────────────────────────────────────

func (m *MemoryStore) CreateUser(ctx context.Context, username, displayName string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createUserLocked(username, displayName), nil
}

// createUserLocked returns the existing user or inserts a fresh one.
// Caller must hold the write lock.
func (m *MemoryStore) createUserLocked(username, displayName string) *models.User {
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp
	}
	if displayName == "" {
		displayName = username
	}
	now := time.Now().UTC()
	u := &models.User{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   now,
		LastActive:  now,
	}
	m.users[username] = u
	cp := *u
	return &cp
}

func (m *MemoryStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, &ErrNotFound{Entity: "user", Key: username}
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) UserRank(ctx context.Context, username string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return 0, nil
	}
	higher := 0
	for _, other := range m.users {
		if other.TotalScore > u.TotalScore {
			higher++
		}
	}
	return higher + 1, nil
}

// ── Action Ledger ───────────────────────────────────────────

func (m *MemoryStore) LogAction(ctx context.Context, username string, kind models.ActionKind, points int, description string) (*models.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createUserLocked(username, "")

	now := time.Now().UTC()
	m.actions = append(m.actions, &models.Action{
		ID:          uuid.New().String(),
		Username:    username,
		Kind:        kind,
		Points:      points,
		Description: description,
		CreatedAt:   now,
	})

	u := m.users[username]
	u.TotalScore += points
	u.ActionsCount++
	u.LastActive = now

	return &models.ActionResult{
		Username:    username,
		PointsAdded: points,
		NewTotal:    u.TotalScore,
		Kind:        kind,
	}, nil
}

func (m *MemoryStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scored := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		if u.TotalScore > 0 {
			scored = append(scored, u)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TotalScore > scored[j].TotalScore
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	entries := make([]models.LeaderboardEntry, 0, len(scored))
	for i, u := range scored {
		entries = append(entries, models.LeaderboardEntry{
			Rank:         i + 1,
			Username:     u.Username,
			DisplayName:  u.DisplayName,
			TotalScore:   u.TotalScore,
			ActionsCount: u.ActionsCount,
		})
	}
	return entries, nil
}

// ── Pledges ─────────────────────────────────────────────────

func (m *MemoryStore) CreatePledge(ctx context.Context, username, pledgeText string) (*models.Pledge, error) {
	m.mu.Lock()
	u := m.createUserLocked(username, "")
	p := &models.Pledge{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: u.DisplayName,
		PledgeText:  pledgeText,
		CreatedAt:   time.Now().UTC(),
	}
	m.pledges = append(m.pledges, p)
	m.mu.Unlock()

	// Pledge credit goes through the ledger like any other action.
	if _, err := m.LogAction(ctx, username, models.ActionPledge, models.PledgePoints, TruncateDescription(pledgeText)); err != nil {
		return nil, err
	}

	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListPledges(ctx context.Context, limit int) ([]models.Pledge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Pledge, 0, limit)
	for i := len(m.pledges) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *m.pledges[i])
	}
	return out, nil
}

func (m *MemoryStore) LikePledge(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.pledges {
		if p.ID == id {
			p.Likes++
			return nil
		}
	}
	return &ErrNotFound{Entity: "pledge", Key: id}
}

// ── Stats ───────────────────────────────────────────────────

func (m *MemoryStore) GlobalStats(ctx context.Context) (*models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.Stats{
		TotalUsers:      int64(len(m.users)),
		TotalActions:    int64(len(m.actions)),
		TotalPledges:    int64(len(m.pledges)),
		ActionBreakdown: make(map[string]int64),
	}
	for _, u := range m.users {
		stats.TotalPoints += int64(u.TotalScore)
	}
	for _, a := range m.actions {
		stats.ActionBreakdown[string(a.Kind)]++
	}
	return stats, nil
}
