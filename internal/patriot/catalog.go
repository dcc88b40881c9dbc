// Package patriot implements the PatriotAI agent catalog and the keyword
// intent router that decides when a chat message should be redirected to
// GMU's enterprise AI platform (patriotai.gmu.edu).
//
// PatriotAI sits behind campus SSO with no public API, so the integration
// is a redirect: detect when a query is better served by one of its
// specialized agents and hand the user a deep link plus context.
package patriot

import "github.com/greenmason/greenmason/pkg/models"

const agentsURL = "https://patriotai.gmu.edu/chat/agents"

// PlatformURL is the public entry point of the PatriotAI platform.
const PlatformURL = "https://patriotai.gmu.edu"

// catalog is the fixed agent table. Declaration order matters: the router
// breaks score ties in favor of the first-declared agent. Agents with no
// keywords are never selected by keyword scoring — they exist so the chat
// model's [ROUTE:...] tags can resolve to a known agent.
var catalog = []models.Agent{
	{
		Key:         "PatriotPal",
		Name:        "PatriotPal",
		Emoji:       "🎓",
		Description: "Your virtual assistant for campus services, academic policies, and student life at GMU.",
		URL:         agentsURL,
		Keywords: []string{
			"register", "registration", "class", "classes", "enrollment",
			"financial aid", "fafsa", "scholarship", "tuition",
			"housing", "dorm", "residence", "parking", "permit",
			"campus", "building", "office hours", "advising", "advisor",
			"graduation", "degree", "transcript", "gpa",
			"library", "fenwick", "student services",
			"health center", "counseling", "disability",
			"mason id", "patriot pass", "blackboard", "canvas",
		},
		ExampleQueries: []string{
			"How do I register for classes?",
			"Where is the financial aid office?",
			"What are the parking rules on campus?",
		},
	},
	{
		Key:         "NourishNet",
		Name:        "NourishNet",
		Emoji:       "🍎",
		Description: "Compassionate guidance on food access programs, meal plans, and food insecurity resources at GMU.",
		URL:         agentsURL,
		Keywords: []string{
			"food", "hungry", "meal", "meal plan", "dining",
			"food pantry", "food bank", "food insecurity",
			"grocery", "snap", "food stamps", "ebt",
			"campus dining", "southside", "ike's", "blaze",
			"affordable food", "free food", "food assistance",
			"nutrition", "eat", "lunch", "dinner", "breakfast",
		},
		ExampleQueries: []string{
			"Where can I get free food on campus?",
			"How do I access the campus food pantry?",
			"What meal plan options are available?",
		},
	},
	{
		Key:         "CourseMate",
		Name:        "CourseMate",
		Emoji:       "📚",
		Description: "Your learning assistant — understand lectures, analyze research articles, and prepare for exams.",
		URL:         agentsURL,
		Keywords: []string{
			"study", "exam", "test", "midterm", "final",
			"lecture", "textbook", "homework", "assignment",
			"understand", "explain concept", "tutoring",
			"research article", "paper", "reading",
			"quiz", "practice", "review",
		},
		ExampleQueries: []string{
			"Help me understand this lecture topic",
			"How should I prepare for my CS exam?",
			"Can you explain this research article?",
		},
	},
	{
		Key:         "DocuMate",
		Name:        "DocuMate",
		Emoji:       "📄",
		Description: "Analyze documents, summarize papers, extract key concepts, and do cross-document analysis.",
		URL:         agentsURL,
		Keywords: []string{
			"document", "pdf", "summarize", "summary",
			"analyze paper", "research paper", "key concepts",
			"cross-document", "extract", "literature review",
		},
		ExampleQueries: []string{
			"Summarize this research paper for me",
			"Extract key concepts from my reading",
		},
	},
	{
		Key:         "PatriotChat",
		Name:        "Patriot Chat",
		Emoji:       "💬",
		Description: "General-purpose conversational AI assistant",
		URL:         agentsURL,
	},
	{
		Key:         "SyllaBright",
		Name:        "SyllaBright",
		Emoji:       "✨",
		Description: "Course design assistant for faculty",
		URL:         agentsURL,
	},
}

// Agents returns the full agent catalog in declaration order.
func Agents() []models.Agent {
	out := make([]models.Agent, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the agent with the given key, or nil if unknown.
func Lookup(key string) *models.Agent {
	for i := range catalog {
		if catalog[i].Key == key {
			return &catalog[i]
		}
	}
	return nil
}
