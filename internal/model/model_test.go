package model

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestChatIDAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		name string
		json string
		want ChatID
	}{
		{"legacy numeric", `{"id": 1717171717171, "name": "x"}`, "1717171717171"},
		{"favorites numeric", `{"id": 1, "name": "x"}`, FavoritesID},
		{"string", `{"id": "7f1c", "name": "x"}`, "7f1c"},
		{"null", `{"id": null, "name": "x"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Chat
			if err := json.Unmarshal([]byte(tt.json), &c); err != nil {
				t.Fatalf("Unmarshal error = %v", err)
			}
			if c.ID != tt.want {
				t.Errorf("ID = %q, want %q", c.ID, tt.want)
			}
		})
	}
}

func TestChatIDRejectsGarbage(t *testing.T) {
	var c Chat
	if err := json.Unmarshal([]byte(`{"id": {"nested": true}}`), &c); err == nil {
		t.Error("expected error for object id")
	}
}

func TestDecodeStoredShape(t *testing.T) {
	raw := `{
		"username": "Alice",
		"chats": [{"id": 1, "name": "Favorites", "type": "favorites", "messages": []}],
		"friends": [{"key": "k1", "username": "Bob", "addedAt": "2024-01-01T10:00:00.000Z"}],
		"friendRequests": [],
		"sentFriendRequests": [{"key": "k2", "username": "Carol", "sentAt": "2024-01-02T10:00:00.000Z"}]
	}`
	p, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if p.Username != "Alice" || len(p.Chats) != 1 || p.Chats[0].Type != ChatFavorites {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.Friends[0].Username != "Bob" || p.SentFriendRequests[0].SentAt == "" {
		t.Errorf("unexpected refs: %+v / %+v", p.Friends, p.SentFriendRequests)
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name          string
		chats         []*Chat
		wantChats     int
		wantDropped   int
		wantFavorites bool
	}{
		{"nil chats", nil, 1, 0, true},
		{"all invalid", []*Chat{{ID: "", Name: "x"}, {ID: "2", Name: ""}, nil}, 1, 3, true},
		{"mixed", []*Chat{{ID: "2", Name: "Team"}, {ID: "", Name: "broken"}}, 1, 1, false},
		{"valid", []*Chat{NewFavorites(), {ID: "2", Name: "Team"}}, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Chats: tt.chats}
			report := Repair(p)
			if len(p.Chats) != tt.wantChats {
				t.Errorf("chats = %d, want %d", len(p.Chats), tt.wantChats)
			}
			if report.DroppedChats != tt.wantDropped {
				t.Errorf("DroppedChats = %d, want %d", report.DroppedChats, tt.wantDropped)
			}
			if report.SeededFavorites != tt.wantFavorites {
				t.Errorf("SeededFavorites = %v, want %v", report.SeededFavorites, tt.wantFavorites)
			}
			if tt.wantFavorites && p.Chats[0].ID != FavoritesID {
				t.Errorf("seeded chat id = %q, want %q", p.Chats[0].ID, FavoritesID)
			}
			for _, c := range p.Chats {
				if c.Messages == nil {
					t.Errorf("chat %q has nil messages", c.ID)
				}
			}
		})
	}
}

func TestRepairDedupesRefs(t *testing.T) {
	p := &Profile{
		Friends: []FriendRef{
			{Key: "a", Username: "first"},
			{Key: "a", Username: "second"},
			{Key: "", Username: "keyless"},
			{Key: "b", Username: "Bob"},
		},
	}
	report := Repair(p)
	if len(p.Friends) != 2 {
		t.Fatalf("friends = %d, want 2", len(p.Friends))
	}
	if p.Friends[0].Username != "first" {
		t.Errorf("kept %q, want first occurrence", p.Friends[0].Username)
	}
	if report.DroppedRefs != 2 {
		t.Errorf("DroppedRefs = %d, want 2", report.DroppedRefs)
	}
	if p.FriendRequests == nil || p.SentFriendRequests == nil {
		t.Error("empty ref sets should be normalized to non-nil")
	}
}

func TestRepairTrimsHistory(t *testing.T) {
	c := &Chat{ID: "2", Name: "Team"}
	for i := 0; i < MaxMessages+5; i++ {
		c.Messages = append(c.Messages, Message{Text: fmt.Sprint(i)})
	}
	p := &Profile{Chats: []*Chat{c}}
	report := Repair(p)
	if len(c.Messages) != MaxMessages {
		t.Fatalf("messages = %d, want %d", len(c.Messages), MaxMessages)
	}
	if c.Messages[0].Text != "5" {
		t.Errorf("oldest kept = %q, want 5", c.Messages[0].Text)
	}
	if report.TrimmedMessages != 5 || !report.Changed() {
		t.Errorf("report = %+v", report)
	}
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := NewProfile("Alice")
	p.Chats[0].Messages = append(p.Chats[0].Messages, Message{Text: "hi"})
	p.Friends = append(p.Friends, FriendRef{Key: "b"})
	p.Version = 4

	c := p.Clone()
	c.Chats[0].Messages[0].Text = "changed"
	c.Friends[0].Key = "changed"

	if p.Chats[0].Messages[0].Text != "hi" || p.Friends[0].Key != "b" {
		t.Error("Clone shares state with the original")
	}
	if c.Version != 4 {
		t.Errorf("Version = %d, want 4", c.Version)
	}
}

func TestPeer(t *testing.T) {
	c := &Chat{Type: ChatPrivate, Participants: []string{"me", "you"}}
	if got := c.Peer("me"); got != "you" {
		t.Errorf("Peer(me) = %q, want you", got)
	}
	if !c.HasParticipant("you") || c.HasParticipant("them") {
		t.Error("HasParticipant mismatch")
	}
	group := &Chat{Participants: []string{"me", "you"}}
	if got := group.Peer("me"); got != "" {
		t.Errorf("group Peer = %q, want empty", got)
	}
}

func TestRemoveRef(t *testing.T) {
	refs := []FriendRef{{Key: "a"}, {Key: "b"}}
	out, removed := RemoveRef(refs, "a")
	if !removed || len(out) != 1 || out[0].Key != "b" {
		t.Errorf("RemoveRef(a) = %v, %v", out, removed)
	}
	if refs[0].Key != "a" {
		t.Error("RemoveRef mutated its input")
	}
	if _, removed := RemoveRef(out, "zzz"); removed {
		t.Error("RemoveRef reported removal of missing key")
	}
}
