package store_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/greenmason/greenmason/internal/store"
	"github.com/greenmason/greenmason/pkg/models"
)

func newTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return store.NewMemoryStore()
}

// ─── Users ───────────────────────────────────────────────────

func TestCreateUser_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, "alice", "Alice A")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	second, err := s.CreateUser(ctx, "alice", "Someone Else")
	if err != nil {
		t.Fatalf("CreateUser() second call error = %v", err)
	}
	if second.DisplayName != first.DisplayName {
		t.Errorf("second create changed display name: got %q, want %q",
			second.DisplayName, first.DisplayName)
	}

	stats, _ := s.GlobalStats(ctx)
	if stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1 (no duplicate user)", stats.TotalUsers)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "ghost")
	if err == nil {
		t.Fatal("GetUser() for missing user returned nil error")
	}
	if !store.IsNotFound(err) {
		t.Errorf("GetUser() error = %v, want *ErrNotFound", err)
	}
}

func TestCreateUser_DefaultsDisplayName(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser(context.Background(), "bob", "")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if u.DisplayName != "bob" {
		t.Errorf("DisplayName = %q, want username fallback %q", u.DisplayName, "bob")
	}
	if u.TotalScore != 0 || u.ActionsCount != 0 {
		t.Errorf("new user baseline = (%d, %d), want (0, 0)", u.TotalScore, u.ActionsCount)
	}
}

// ─── Action Ledger ───────────────────────────────────────────

func TestLogAction_CreatesUserOnDemand(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.LogAction(ctx, "newbie", models.ActionSort, 15, "sorted a bottle")
	if err != nil {
		t.Fatalf("LogAction() error = %v", err)
	}
	if res.NewTotal != 15 {
		t.Errorf("NewTotal = %d, want 15", res.NewTotal)
	}
	if res.PointsAdded != 15 || res.Kind != models.ActionSort {
		t.Errorf("result = %+v, want points_added=15 kind=sort", res)
	}

	u, err := s.GetUser(ctx, "newbie")
	if err != nil {
		t.Fatalf("GetUser() after LogAction error = %v", err)
	}
	if u.TotalScore != 15 || u.ActionsCount != 1 {
		t.Errorf("aggregate = (%d, %d), want (15, 1)", u.TotalScore, u.ActionsCount)
	}
}

func TestLogAction_ConcurrentNoLostUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LogAction(ctx, "racer", models.ActionQuiz, 10, ""); err != nil {
		t.Fatalf("seed LogAction() error = %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.LogAction(ctx, "racer", models.ActionSort, 5, ""); err != nil {
				t.Errorf("concurrent LogAction() error = %v", err)
			}
		}()
	}
	wg.Wait()

	u, err := s.GetUser(ctx, "racer")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if want := 10 + n*5; u.TotalScore != want {
		t.Errorf("TotalScore = %d, want %d (lost update)", u.TotalScore, want)
	}
	if want := 1 + n; u.ActionsCount != want {
		t.Errorf("ActionsCount = %d, want %d", u.ActionsCount, want)
	}
}

func TestLogAction_UpdatesLastActive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1, _ := s.CreateUser(ctx, "clock", "")
	if _, err := s.LogAction(ctx, "clock", models.ActionChat, 5, ""); err != nil {
		t.Fatalf("LogAction() error = %v", err)
	}
	u2, _ := s.GetUser(ctx, "clock")
	if u2.LastActive.Before(u1.LastActive) {
		t.Errorf("LastActive went backwards: %v -> %v", u1.LastActive, u2.LastActive)
	}
}

// ─── Rank & Leaderboard ──────────────────────────────────────

func seedScores(t *testing.T, s *store.MemoryStore, scores map[string]int) {
	t.Helper()
	ctx := context.Background()
	for username, points := range scores {
		if _, err := s.LogAction(ctx, username, models.ActionSort, points, ""); err != nil {
			t.Fatalf("seed LogAction(%s) error = %v", username, err)
		}
	}
}

func TestUserRank(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedScores(t, s, map[string]int{"gold": 30, "silver": 20, "bronze": 10})

	tests := []struct {
		username string
		want     int
	}{
		{"gold", 1},
		{"silver", 2},
		{"bronze", 3},
		{"ghost", 0},
	}
	for _, tt := range tests {
		got, err := s.UserRank(ctx, tt.username)
		if err != nil {
			t.Fatalf("UserRank(%s) error = %v", tt.username, err)
		}
		if got != tt.want {
			t.Errorf("UserRank(%s) = %d, want %d", tt.username, got, tt.want)
		}
	}
}

func TestUserRank_TiesShareStrictGreaterCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedScores(t, s, map[string]int{"top": 30, "tied1": 20, "tied2": 20})

	// Strict-greater-than rank: both tied users count only "top" above them.
	for _, username := range []string{"tied1", "tied2"} {
		got, _ := s.UserRank(ctx, username)
		if got != 2 {
			t.Errorf("UserRank(%s) = %d, want 2", username, got)
		}
	}

	// The leaderboard's positional rank disagrees under ties: one of the
	// tied users is ranked 2, the other 3. Both definitions are kept.
	entries, _ := s.Leaderboard(ctx, 10)
	if len(entries) != 3 {
		t.Fatalf("len(Leaderboard()) = %d, want 3", len(entries))
	}
	if entries[1].Rank != 2 || entries[2].Rank != 3 {
		t.Errorf("positional ranks = %d, %d, want 2, 3", entries[1].Rank, entries[2].Rank)
	}
}

func TestLeaderboard_LimitAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedScores(t, s, map[string]int{"a": 30, "b": 20, "c": 10})

	entries, err := s.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Rank != 1 || entries[0].TotalScore != 30 {
		t.Errorf("entries[0] = %+v, want rank 1 score 30", entries[0])
	}
	if entries[1].Rank != 2 || entries[1].TotalScore != 20 {
		t.Errorf("entries[1] = %+v, want rank 2 score 20", entries[1])
	}
}

func TestLeaderboard_ExcludesZeroScores(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateUser(ctx, "lurker", "")
	seedScores(t, s, map[string]int{"active": 10})

	entries, _ := s.Leaderboard(ctx, 10)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (zero scores excluded)", len(entries))
	}
	if entries[0].Username != "active" {
		t.Errorf("entries[0].Username = %q, want %q", entries[0].Username, "active")
	}
}

// ─── Pledges ─────────────────────────────────────────────────

func TestCreatePledge_Composite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pledge, err := s.CreatePledge(ctx, "pledger", "I will recycle more")
	if err != nil {
		t.Fatalf("CreatePledge() error = %v", err)
	}
	if pledge.Likes != 0 {
		t.Errorf("new pledge Likes = %d, want 0", pledge.Likes)
	}
	if pledge.PledgeText != "I will recycle more" {
		t.Errorf("PledgeText = %q", pledge.PledgeText)
	}

	// The composite must create the user and credit exactly one 20-point
	// pledge action through the ledger.
	u, err := s.GetUser(ctx, "pledger")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.TotalScore != models.PledgePoints || u.ActionsCount != 1 {
		t.Errorf("aggregate = (%d, %d), want (%d, 1)",
			u.TotalScore, u.ActionsCount, models.PledgePoints)
	}

	stats, _ := s.GlobalStats(ctx)
	if stats.ActionBreakdown["pledge"] != 1 {
		t.Errorf("pledge actions = %d, want 1", stats.ActionBreakdown["pledge"])
	}
	if stats.TotalPledges != 1 {
		t.Errorf("TotalPledges = %d, want 1", stats.TotalPledges)
	}
}

func TestTruncateDescription(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := store.TruncateDescription(long)
	want := "Love Pledge: " + strings.Repeat("x", 50) + "..."
	if got != want {
		t.Errorf("TruncateDescription() = %q, want %q", got, want)
	}

	short := store.TruncateDescription("compost")
	if short != "Love Pledge: compost..." {
		t.Errorf("TruncateDescription(short) = %q", short)
	}
}

func TestListPledges_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreatePledge(ctx, "u1", "first")
	s.CreatePledge(ctx, "u2", "second")
	s.CreatePledge(ctx, "u3", "third")

	pledges, err := s.ListPledges(ctx, 2)
	if err != nil {
		t.Fatalf("ListPledges() error = %v", err)
	}
	if len(pledges) != 2 {
		t.Fatalf("len(pledges) = %d, want 2", len(pledges))
	}
	if pledges[0].PledgeText != "third" || pledges[1].PledgeText != "second" {
		t.Errorf("order = [%q, %q], want newest first",
			pledges[0].PledgeText, pledges[1].PledgeText)
	}
}

func TestLikePledge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pledge, _ := s.CreatePledge(ctx, "fan", "less plastic")
	if err := s.LikePledge(ctx, pledge.ID); err != nil {
		t.Fatalf("LikePledge() error = %v", err)
	}
	if err := s.LikePledge(ctx, pledge.ID); err != nil {
		t.Fatalf("LikePledge() second error = %v", err)
	}

	pledges, _ := s.ListPledges(ctx, 1)
	if pledges[0].Likes != 2 {
		t.Errorf("Likes = %d, want 2", pledges[0].Likes)
	}

	err := s.LikePledge(ctx, "missing-id")
	if !store.IsNotFound(err) {
		t.Errorf("LikePledge(missing) error = %v, want *ErrNotFound", err)
	}
}

// ─── Stats ───────────────────────────────────────────────────

func TestGlobalStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.LogAction(ctx, "a", models.ActionSort, 15, "")
	s.LogAction(ctx, "a", models.ActionQuiz, 10, "")
	s.LogAction(ctx, "b", models.ActionSort, 5, "")
	s.CreatePledge(ctx, "c", "walk to class")

	stats, err := s.GlobalStats(ctx)
	if err != nil {
		t.Fatalf("GlobalStats() error = %v", err)
	}
	if stats.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", stats.TotalUsers)
	}
	if stats.TotalActions != 4 {
		t.Errorf("TotalActions = %d, want 4", stats.TotalActions)
	}
	if want := int64(15 + 10 + 5 + models.PledgePoints); stats.TotalPoints != want {
		t.Errorf("TotalPoints = %d, want %d", stats.TotalPoints, want)
	}
	if stats.ActionBreakdown["sort"] != 2 {
		t.Errorf("sort breakdown = %d, want 2", stats.ActionBreakdown["sort"])
	}
}
