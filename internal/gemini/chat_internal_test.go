package gemini

import (
	"testing"

	"google.golang.org/genai"

	"github.com/greenmason/greenmason/pkg/models"
)

func TestChatContents_RolesAndOrder(t *testing.T) {
	history := []models.ChatMessage{
		{Role: "user", Content: "what goes in the blue bin?"},
		{Role: "assistant", Content: "Clean paper and rigid plastics."},
	}

	contents := chatContents("and pizza boxes?", history)
	if len(contents) != 3 {
		t.Fatalf("len(contents) = %d, want 3", len(contents))
	}

	wantRoles := []genai.Role{genai.RoleUser, genai.RoleModel, genai.RoleUser}
	for i, want := range wantRoles {
		if genai.Role(contents[i].Role) != want {
			t.Errorf("contents[%d].Role = %q, want %q", i, contents[i].Role, want)
		}
	}
	if got := contents[2].Parts[0].Text; got != "and pizza boxes?" {
		t.Errorf("last turn text = %q", got)
	}
}

func TestChatContents_EmptyHistory(t *testing.T) {
	contents := chatContents("hello", nil)
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	if genai.Role(contents[0].Role) != genai.RoleUser {
		t.Errorf("Role = %q, want user", contents[0].Role)
	}
}
