package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxMessages is the per-chat history cap; older messages are dropped on append.
const MaxMessages = 1000

// ChatType distinguishes the synthetic favorites chat and 1:1 chats from groups.
type ChatType string

const (
	ChatGroup     ChatType = ""
	ChatFavorites ChatType = "favorites"
	ChatPrivate   ChatType = "private"
)

// MessageType is the payload kind of a message.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageVideo MessageType = "video"
	MessageFile  MessageType = "file"
)

// ChatID identifies a chat within one profile. Records written by older
// clients carry numeric ids; those decode to their decimal string.
type ChatID string

func (id *ChatID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ChatID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chat id: %w", err)
	}
	*id = ChatID(n.String())
	return nil
}

// Profile is everything stored for one local identity.
type Profile struct {
	Username           string      `json:"username"`
	Chats              []*Chat     `json:"chats"`
	Friends            []FriendRef `json:"friends"`
	FriendRequests     []FriendRef `json:"friendRequests"`
	SentFriendRequests []FriendRef `json:"sentFriendRequests"`

	// Version is the storage row version the profile was read at. Zero means
	// the profile has never been stored or must be written unconditionally.
	Version int64 `json:"-"`
}

// Chat is a conversation and its message history.
type Chat struct {
	ID           ChatID    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         ChatType  `json:"type,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	Messages     []Message `json:"messages"`
}

// Message is a single chat entry.
type Message struct {
	ID        string      `json:"id,omitempty"`
	Author    string      `json:"author"`
	AuthorKey string      `json:"authorKey,omitempty"`
	Text      string      `json:"text"`
	Time      string      `json:"time"`
	Timestamp string      `json:"timestamp"`
	Type      MessageType `json:"type"`
	FileData  string      `json:"fileData,omitempty"`
	FileName  string      `json:"fileName,omitempty"`
}

// FriendRef is a snapshot of another profile's identity taken when the
// relationship event happened. It is not refreshed on rename.
type FriendRef struct {
	Key      string `json:"key"`
	Username string `json:"username"`
	AddedAt  string `json:"addedAt,omitempty"`
	SentAt   string `json:"sentAt,omitempty"`
}

// HasParticipant reports whether key takes part in a private chat.
func (c *Chat) HasParticipant(key string) bool {
	for _, p := range c.Participants {
		if p == key {
			return true
		}
	}
	return false
}

// Peer returns the other participant of a private chat, or "" if there is none.
func (c *Chat) Peer(selfKey string) string {
	if c.Type != ChatPrivate {
		return ""
	}
	for _, p := range c.Participants {
		if p != selfKey {
			return p
		}
	}
	return ""
}

// Clone returns a deep copy of the chat.
func (c *Chat) Clone() Chat {
	out := *c
	out.Participants = append([]string(nil), c.Participants...)
	out.Messages = append([]Message(nil), c.Messages...)
	return out
}

// Encode serializes a profile to its stored JSON shape.
func Encode(p *Profile) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a stored profile record.
func Decode(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Clone returns a deep copy of the profile, including Version.
func (p *Profile) Clone() *Profile {
	out := &Profile{
		Username:           p.Username,
		Friends:            append([]FriendRef(nil), p.Friends...),
		FriendRequests:     append([]FriendRef(nil), p.FriendRequests...),
		SentFriendRequests: append([]FriendRef(nil), p.SentFriendRequests...),
		Version:            p.Version,
	}
	out.Chats = make([]*Chat, 0, len(p.Chats))
	for _, c := range p.Chats {
		cc := c.Clone()
		out.Chats = append(out.Chats, &cc)
	}
	return out
}
