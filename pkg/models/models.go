// Package models defines the shared data types for the GreenMason backend.
// Everything crossing a package boundary (store, providers, HTTP) is a typed
// struct here; provider responses are decoded into these at the boundary so
// no untyped maps flow through the system.
package models

import "time"

// ── Users & Green Score ──────────────────────────────────────

// User is a campus user identified by a unique, immutable username.
// TotalScore and ActionsCount are denormalized aggregates maintained
// alongside the action ledger.
type User struct {
	Username     string    `json:"username" bson:"username"`
	DisplayName  string    `json:"display_name" bson:"display_name"`
	TotalScore   int       `json:"total_score" bson:"total_score"`
	ActionsCount int       `json:"actions_count" bson:"actions_count"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastActive   time.Time `json:"last_active" bson:"last_active"`

	// Rank is computed on read, never stored. Zero means "not attached".
	Rank int `json:"rank,omitempty" bson:"-"`
}

// ActionKind enumerates the point-earning action types.
type ActionKind string

const (
	ActionSort      ActionKind = "sort"
	ActionChallenge ActionKind = "challenge"
	ActionQuiz      ActionKind = "quiz"
	ActionPledge    ActionKind = "pledge"
	ActionChat      ActionKind = "chat"
)

// ValidActionKind reports whether k is one of the known action kinds.
func ValidActionKind(k ActionKind) bool {
	switch k {
	case ActionSort, ActionChallenge, ActionQuiz, ActionPledge, ActionChat:
		return true
	}
	return false
}

// Action is an immutable ledger entry for a single point-earning event.
type Action struct {
	ID          string     `json:"id" bson:"_id"`
	Username    string     `json:"username" bson:"username"`
	Kind        ActionKind `json:"action" bson:"action"`
	Points      int        `json:"points" bson:"points"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

// ActionResult is returned after a ledger write, echoing the updated total.
type ActionResult struct {
	Username    string     `json:"username"`
	PointsAdded int        `json:"points_added"`
	NewTotal    int        `json:"new_total"`
	Kind        ActionKind `json:"action"`
}

// LeaderboardEntry is one row of the campus leaderboard. Rank is the
// 1-based position in the sorted output, ties broken by sort stability.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	TotalScore   int    `json:"total_score"`
	ActionsCount int    `json:"actions_count"`
}

// ── Love Pledges ─────────────────────────────────────────────

// PledgePoints is the fixed credit awarded for making a pledge.
const PledgePoints = 20

// Pledge is a Love Pledge to Earth. DisplayName is snapshotted at creation
// and not kept in sync with later user renames.
type Pledge struct {
	ID          string    `json:"id" bson:"_id"`
	Username    string    `json:"username" bson:"username"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	PledgeText  string    `json:"pledge_text" bson:"pledge_text"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Likes       int       `json:"likes" bson:"likes"`
}

// ── Waste Classification ─────────────────────────────────────

// WasteCategory enumerates the classification buckets.
type WasteCategory string

const (
	CategoryRecyclable  WasteCategory = "recyclable"
	CategoryCompostable WasteCategory = "compostable"
	CategoryLandfill    WasteCategory = "landfill"
	CategoryEWaste      WasteCategory = "e-waste"
	CategoryHazardous   WasteCategory = "hazardous"
	CategoryReusable    WasteCategory = "reusable"
)

// Classification is the typed result of a waste-classification call,
// decoded from the model's JSON at the provider boundary.
type Classification struct {
	Category             WasteCategory `json:"category"`
	Confidence           string        `json:"confidence"`
	ItemName             string        `json:"item_name"`
	DisposalInstructions string        `json:"disposal_instructions"`
	CampusTip            string        `json:"gmu_tip"`
	FunFact              string        `json:"fun_fact"`
	PointsEarned         int           `json:"points_earned"`
}

// ── EcoChat ──────────────────────────────────────────────────

// ChatMessage is a single turn of conversation history.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatResult is the assistant reply plus the merged routing decision.
// The model's own in-band routing signal always wins; the keyword router
// only fills these fields when the model did not signal a route.
type ChatResult struct {
	Reply            string `json:"reply"`
	RouteToPatriotAI bool   `json:"route_to_patriotai"`
	PatriotAIAgent   string `json:"patriotai_agent,omitempty"`
	PatriotAIReason  string `json:"patriotai_reason,omitempty"`
}

// ── PatriotAI Catalog ────────────────────────────────────────

// Agent describes one externally hosted PatriotAI assistant. The catalog
// is static for the process lifetime; Keywords drive the intent router,
// agents with no keywords are reachable only via the model's route tag.
type Agent struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	Emoji          string   `json:"emoji"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Keywords       []string `json:"-"`
	ExampleQueries []string `json:"example_queries,omitempty"`
}

// AgentMatch is the intent router's verdict for a message.
type AgentMatch struct {
	AgentKey         string   `json:"agent_key"`
	AgentName        string   `json:"agent_name"`
	AgentEmoji       string   `json:"agent_emoji"`
	AgentDescription string   `json:"agent_description"`
	AgentURL         string   `json:"agent_url"`
	MatchedKeywords  []string `json:"matched_keywords"`
	ExampleQueries   []string `json:"example_queries"`
}

// ── Global Stats ─────────────────────────────────────────────

// Stats aggregates campus-wide counters for the dashboard.
type Stats struct {
	TotalUsers      int64            `json:"total_users"`
	TotalActions    int64            `json:"total_actions"`
	TotalPledges    int64            `json:"total_pledges"`
	TotalPoints     int64            `json:"total_points"`
	ActionBreakdown map[string]int64 `json:"action_breakdown"`
}
