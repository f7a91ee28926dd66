package controller

import (
	"github.com/matheus3301/localchat/internal/model"
)

func (c *Controller) renderChatsLocked() {
	chats := c.store.Chats()
	rows := make([]ChatRow, 0, len(chats))
	for _, chat := range chats {
		row := ChatRow{
			ID:       chat.ID,
			Name:     chat.Name,
			Type:     chat.Type,
			Messages: len(chat.Messages),
		}
		if n := len(chat.Messages); n > 0 {
			last := chat.Messages[n-1]
			row.LastMessage = preview(last)
			row.LastTime = last.Time
		}
		rows = append(rows, row)
	}
	c.renderer.ShowChats(rows)
}

func (c *Controller) renderConversationLocked() {
	chat, ok := c.store.Chat(c.activeChat)
	if !ok {
		return
	}
	msgs := chat.Messages
	hidden := 0
	if len(msgs) > c.opts.DisplayMessages {
		hidden = len(msgs) - c.opts.DisplayMessages
		msgs = msgs[hidden:]
	}

	self := c.store.Key()
	view := ConversationView{
		ChatID:      chat.ID,
		Name:        chat.Name,
		Description: chat.Description,
		Type:        chat.Type,
		Messages:    make([]DisplayMessage, 0, len(msgs)),
		Hidden:      hidden,
	}
	for _, m := range msgs {
		view.Messages = append(view.Messages, DisplayMessage{
			ID:       m.ID,
			Author:   c.displayNameLocked(m.AuthorKey, m.Author),
			Mine:     m.AuthorKey != "" && m.AuthorKey == self,
			Text:     m.Text,
			Time:     m.Time,
			Type:     m.Type,
			FileName: m.FileName,
		})
	}
	c.renderer.ShowConversation(view)
}

func (c *Controller) renderProfileLocked() {
	c.renderer.ShowProfile(ProfileView{
		Username: c.store.Username(),
		Key:      c.store.Key(),
		Chats:    len(c.store.Chats()),
		Friends:  len(c.store.Friends()),
		Requests: len(c.store.FriendRequests()),
	})
}

// displayNameLocked resolves an author key to the name currently known for
// it, falling back to the stored snapshot.
func (c *Controller) displayNameLocked(key, fallback string) string {
	if key == "" {
		return fallback
	}
	if key == c.store.Key() {
		if name := c.store.Username(); name != "" {
			return name
		}
	}
	for _, f := range c.store.Friends() {
		if f.Key == key && f.Username != "" {
			return f.Username
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}

func preview(m model.Message) string {
	switch m.Type {
	case model.MessageImage:
		return "[image] " + m.FileName
	case model.MessageVideo:
		return "[video] " + m.FileName
	case model.MessageFile:
		return "[file] " + m.FileName
	}
	return m.Text
}
