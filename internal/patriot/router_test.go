package patriot_test

import (
	"testing"

	"github.com/greenmason/greenmason/internal/patriot"
)

func TestRoute_NoKeywords(t *testing.T) {
	for _, msg := range []string{
		"",
		"hello there",
		"what a sunny morning",
	} {
		if got := patriot.Route(msg); got != nil {
			t.Errorf("Route(%q) = %+v, want nil", msg, got)
		}
	}
}

func TestRoute_BelowThreshold(t *testing.T) {
	// "gpa" is a real PatriotPal keyword but only scores 3,
	// below the admission threshold of 4.
	if got := patriot.Route("gpa"); got != nil {
		t.Errorf("Route(\"gpa\") = %+v, want nil (score below threshold)", got)
	}
}

func TestRoute_AtThreshold(t *testing.T) {
	// "quiz" scores exactly 4 — the threshold is inclusive.
	got := patriot.Route("quiz")
	if got == nil {
		t.Fatal("Route(\"quiz\") = nil, want CourseMate match")
	}
	if got.AgentKey != "CourseMate" {
		t.Errorf("Route(\"quiz\").AgentKey = %q, want %q", got.AgentKey, "CourseMate")
	}
}

func TestRoute_SingleAgentMatch(t *testing.T) {
	got := patriot.Route("tell me about fafsa")
	if got == nil {
		t.Fatal("Route() = nil, want PatriotPal match")
	}
	if got.AgentKey != "PatriotPal" {
		t.Errorf("AgentKey = %q, want %q", got.AgentKey, "PatriotPal")
	}
	found := false
	for _, kw := range got.MatchedKeywords {
		if kw == "fafsa" {
			found = true
		}
	}
	if !found {
		t.Errorf("MatchedKeywords = %v, want to contain %q", got.MatchedKeywords, "fafsa")
	}
	if got.AgentURL == "" || got.AgentEmoji == "" || got.AgentDescription == "" {
		t.Errorf("match missing agent metadata: %+v", got)
	}
	if len(got.ExampleQueries) == 0 {
		t.Error("match missing example queries")
	}
}

func TestRoute_CaseInsensitive(t *testing.T) {
	upper := patriot.Route("FINANCIAL AID")
	lower := patriot.Route("financial aid")
	if upper == nil || lower == nil {
		t.Fatalf("Route() upper = %v, lower = %v, want both non-nil", upper, lower)
	}
	if upper.AgentKey != lower.AgentKey {
		t.Errorf("AgentKey mismatch: upper = %q, lower = %q", upper.AgentKey, lower.AgentKey)
	}
	if len(upper.MatchedKeywords) != len(lower.MatchedKeywords) {
		t.Errorf("MatchedKeywords mismatch: upper = %v, lower = %v",
			upper.MatchedKeywords, lower.MatchedKeywords)
	}
}

func TestRoute_HighestScoreWins(t *testing.T) {
	// "food pantry" (11) + "food" (4) should bury PatriotPal's "campus" (6).
	got := patriot.Route("where is the campus food pantry")
	if got == nil {
		t.Fatal("Route() = nil, want NourishNet match")
	}
	if got.AgentKey != "NourishNet" {
		t.Errorf("AgentKey = %q, want %q", got.AgentKey, "NourishNet")
	}
}

func TestRoute_TieBreakFirstDeclared(t *testing.T) {
	// "dorm" (PatriotPal) and "meal" (NourishNet) both score 4.
	// PatriotPal is declared first in the catalog, so it wins.
	got := patriot.Route("dorm meal")
	if got == nil {
		t.Fatal("Route() = nil, want a match")
	}
	if got.AgentKey != "PatriotPal" {
		t.Errorf("tie broke to %q, want first-declared %q", got.AgentKey, "PatriotPal")
	}
}

func TestAgents_CatalogShape(t *testing.T) {
	agents := patriot.Agents()
	if len(agents) != 6 {
		t.Fatalf("len(Agents()) = %d, want 6", len(agents))
	}
	// First four are keyword-routable, last two are chat-tag only.
	for _, a := range agents[:4] {
		if len(a.Keywords) == 0 {
			t.Errorf("agent %q has no keywords", a.Key)
		}
	}
	for _, a := range agents[4:] {
		if len(a.Keywords) != 0 {
			t.Errorf("chat-only agent %q should have no keywords", a.Key)
		}
	}
}

func TestLookup(t *testing.T) {
	if a := patriot.Lookup("NourishNet"); a == nil || a.Name != "NourishNet" {
		t.Errorf("Lookup(\"NourishNet\") = %v", a)
	}
	if a := patriot.Lookup("nope"); a != nil {
		t.Errorf("Lookup(\"nope\") = %v, want nil", a)
	}
}
