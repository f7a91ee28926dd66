package controller

import (
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/storage"
)

// Renderer draws controller state. Implementations must be safe to call from
// any goroutine.
type Renderer interface {
	// SetIdentity shows who is signed in. Both are empty after logout.
	SetIdentity(username, key string)
	ShowWelcome(known []storage.ProfileSummary)
	ShowChats(rows []ChatRow)
	ShowConversation(v ConversationView)
	ShowTyping(chatID model.ChatID, who string, typing bool)
	ShowFriends(friends []model.FriendRef)
	ShowRequests(incoming, outgoing []model.FriendRef)
	ShowSearch(term string, results []SearchResult)
	ShowProfile(p ProfileView)
	// Notify shows a transient message.
	Notify(msg string)
	// Alert shows a message the user has to dismiss.
	Alert(msg string)
}

// ChatRow is one line of the chat list.
type ChatRow struct {
	ID          model.ChatID
	Name        string
	Type        model.ChatType
	LastMessage string
	LastTime    string
	Messages    int
}

// DisplayMessage is a message with its author resolved for display.
type DisplayMessage struct {
	ID       string
	Author   string
	Mine     bool
	Text     string
	Time     string
	Type     model.MessageType
	FileName string
}

// ConversationView is the visible part of one chat.
type ConversationView struct {
	ChatID      model.ChatID
	Name        string
	Description string
	Type        model.ChatType
	Messages    []DisplayMessage
	// Hidden counts older messages left out of Messages.
	Hidden int
}

// SearchResult is a profile matched by user search.
type SearchResult struct {
	Key      string
	Username string
	Friend   bool
	Pending  bool
}

// ProfileView describes the signed-in profile.
type ProfileView struct {
	Username string
	Key      string
	Chats    int
	Friends  int
	Requests int
}
