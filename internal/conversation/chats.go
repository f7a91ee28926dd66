package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/model"
)

// MessageInput is what a caller supplies for a new message.
type MessageInput struct {
	Author    string
	AuthorKey string
	Text      string
	Type      model.MessageType
	FileData  string
	FileName  string
}

// MessageAdded is the payload of conversation.message_added events.
type MessageAdded struct {
	ChatID  model.ChatID
	Message model.Message
}

// CreateChat appends a group chat with a fresh id.
func (s *Store) CreateChat(name, description string) (model.Chat, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return model.Chat{}, ErrEmptyName
	}

	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return model.Chat{}, ErrNotLoaded
	}
	c := &model.Chat{
		ID:          model.ChatID(uuid.NewString()),
		Name:        name,
		Description: description,
		Messages:    []model.Message{},
	}
	s.profile.Chats = append(s.profile.Chats, c)
	out := c.Clone()
	s.mu.Unlock()

	s.bus.Emit(bus.KindChatCreated, out)
	return out, nil
}

// CreatePrivateChat appends a 1:1 chat with friendKey. It does not check for
// an existing one; call FindPrivateChat first.
func (s *Store) CreatePrivateChat(friendKey, friendUsername, selfKey string) (model.Chat, error) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return model.Chat{}, ErrNotLoaded
	}
	c := &model.Chat{
		ID:           model.ChatID(uuid.NewString()),
		Name:         friendUsername,
		Type:         model.ChatPrivate,
		Participants: []string{selfKey, friendKey},
		Messages:     []model.Message{},
	}
	s.profile.Chats = append(s.profile.Chats, c)
	out := c.Clone()
	s.mu.Unlock()

	s.bus.Emit(bus.KindChatCreated, out)
	return out, nil
}

// FindPrivateChat returns the first private chat that includes friendKey.
func (s *Store) FindPrivateChat(friendKey string) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return model.Chat{}, false
	}
	for _, c := range s.profile.Chats {
		if c.Type == model.ChatPrivate && c.HasParticipant(friendKey) {
			return c.Clone(), true
		}
	}
	return model.Chat{}, false
}

// AddMessage appends a message to a chat, dropping the oldest entries beyond
// model.MaxMessages.
func (s *Store) AddMessage(chatID model.ChatID, in MessageInput) (model.Message, error) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return model.Message{}, ErrNotLoaded
	}
	c := s.chatLocked(chatID)
	if c == nil {
		s.mu.Unlock()
		return model.Message{}, fmt.Errorf("chat %s: %w", chatID, ErrNotFound)
	}

	if in.Type == "" {
		in.Type = model.MessageText
	}
	now := time.Now()
	msg := model.Message{
		ID:        uuid.NewString(),
		Author:    in.Author,
		AuthorKey: in.AuthorKey,
		Text:      in.Text,
		Time:      now.Format("15:04"),
		Timestamp: timestamp(now),
		Type:      in.Type,
		FileData:  in.FileData,
		FileName:  in.FileName,
	}
	c.Messages = append(c.Messages, msg)
	if n := len(c.Messages) - model.MaxMessages; n > 0 {
		c.Messages = append([]model.Message(nil), c.Messages[n:]...)
	}

	var peer string
	if c.Type == model.ChatPrivate && in.AuthorKey != "" && in.AuthorKey == s.key {
		peer = c.Peer(s.key)
	}
	s.mu.Unlock()

	if peer != "" {
		s.presence.Delivered(chatID, peer)
	}
	s.bus.Emit(bus.KindMessageAdded, MessageAdded{ChatID: chatID, Message: msg})
	return msg, nil
}

// SetTyping forwards the signed-in user's typing state in a chat.
func (s *Store) SetTyping(chatID model.ChatID, typing bool) {
	key := s.Key()
	if key == "" {
		return
	}
	s.presence.Typing(chatID, key, typing)
}
