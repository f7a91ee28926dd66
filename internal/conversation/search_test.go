package conversation

import (
	"testing"

	"github.com/matheus3301/localchat/internal/storage"
)

func TestSearchUsers(t *testing.T) {
	a := testAdapter(t)
	signIn(t, a, aliceKey, "Alice")
	bob := signIn(t, a, bobKey, "Bob")
	signIn(t, a, carolKey, "ÉLODIE")

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"substring", "ali", []string{aliceKey}},
		{"upper case", "ALI", []string{aliceKey}},
		{"unicode fold", "élo", []string{carolKey}},
		{"self excluded", "bob", nil},
		{"blank", "   ", nil},
		{"no match", "zed", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bob.SearchUsers(tt.term, bobKey)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %+v, want keys %v", got, tt.want)
			}
			for i, key := range tt.want {
				if got[i].Key != key {
					t.Errorf("result %d = %s, want %s", i, got[i].Key, key)
				}
			}
		})
	}
}

// Alice signs up, creates a chat, writes in it and is found by Bob.
func TestAliceScenario(t *testing.T) {
	a := testAdapter(t)
	key, err := a.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != storage.KeyLength {
		t.Fatalf("key %q has length %d", key, len(key))
	}

	alice := signIn(t, a, key, "Alice")
	team, err := alice.CreateChat(" Team ", "")
	if err != nil {
		t.Fatal(err)
	}
	chats := alice.Chats()
	if last := chats[len(chats)-1]; last.ID != team.ID || last.Name != "Team" || len(last.Messages) != 0 {
		t.Fatalf("last chat = %+v", last)
	}

	if _, err := alice.AddMessage(team.ID, MessageInput{Author: "Alice", AuthorKey: key, Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	got, _ := alice.Chat(team.ID)
	if len(got.Messages) != 1 || got.Messages[0].Author != "Alice" || got.Messages[0].Text != "hi" {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if err := alice.PersistActive(); err != nil {
		t.Fatal(err)
	}

	bob := signIn(t, a, bobKey, "Bob")
	found, err := bob.SearchUsers("ali", bobKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Key != key || found[0].Username != "Alice" {
		t.Errorf("search = %+v, want alice", found)
	}
}
