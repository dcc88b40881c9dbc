// Package store provides the storage interface and implementations for the
// GreenMason backend. MongoDB backs production; an in-memory implementation
// serves zero-config local dev and tests.
package store

import (
	"context"

	"github.com/greenmason/greenmason/pkg/models"
)

// Store is the primary storage interface. All handler code depends on this
// interface, making it easy to swap between in-memory (tests, local dev)
// and MongoDB (production) implementations.
type Store interface {
	UserStore
	ActionStore
	PledgeStore
	StatsStore

	// Ping checks if the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close(ctx context.Context) error
}

// ── User Store ──────────────────────────────────────────────

type UserStore interface {
	// CreateUser inserts a new user with zero baseline score, or returns
	// the existing record unchanged when the username is already taken.
	CreateUser(ctx context.Context, username, displayName string) (*models.User, error)

	// GetUser returns a user by username, or *ErrNotFound.
	GetUser(ctx context.Context, username string) (*models.User, error)

	// UserRank returns 1 + the number of users with a strictly greater
	// total score. Returns 0 when the user does not exist.
	UserRank(ctx context.Context, username string) (int, error)
}

// ── Action Ledger ───────────────────────────────────────────

type ActionStore interface {
	// LogAction appends an immutable ledger entry and atomically applies
	// the (points, +1 action) increment to the user aggregate. The user is
	// created with zero baseline first if absent. The increment must be
	// atomic at the storage layer: concurrent calls for the same username
	// never lose an update.
	LogAction(ctx context.Context, username string, kind models.ActionKind, points int, description string) (*models.ActionResult, error)

	// Leaderboard returns the top users by total score (descending),
	// excluding zero scores. Rank is assigned by output position.
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// ── Pledge Store ────────────────────────────────────────────

type PledgeStore interface {
	// CreatePledge inserts a pledge (display name snapshotted from the
	// current user record, creating the user if absent) and then credits
	// a fixed-value "pledge" action through the ledger. The two writes
	// are not transactional; the pledge insert happens first.
	CreatePledge(ctx context.Context, username, pledgeText string) (*models.Pledge, error)

	// ListPledges returns the most recent pledges, newest first.
	ListPledges(ctx context.Context, limit int) ([]models.Pledge, error)

	// LikePledge increments a pledge's like counter. Returns *ErrNotFound
	// when no pledge has the given id.
	LikePledge(ctx context.Context, id string) error
}

// ── Stats ───────────────────────────────────────────────────

type StatsStore interface {
	// GlobalStats returns campus-wide counters: users, actions, pledges,
	// the sum of all scores, and a per-action-kind breakdown.
	GlobalStats(ctx context.Context) (*models.Stats, error)
}

// ── Errors ──────────────────────────────────────────────────

// ErrNotFound is returned when a requested entity does not exist.
type ErrNotFound struct {
	Entity string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return e.Entity + " not found: " + e.Key
}

// IsNotFound reports whether err is a *ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// TruncateDescription shortens a pledge text for its ledger entry, keeping
// a 50-character prefix the way the score history displays it.
func TruncateDescription(text string) string {
	if len(text) > 50 {
		text = text[:50]
	}
	return "Love Pledge: " + text + "..."
}
