package controller

import (
	"strings"
	"time"

	"github.com/matheus3301/localchat/internal/conversation"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/screen"
)

// CreateChat adds a group chat and opens it.
func (c *Controller) CreateChat(name, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}

	chat, err := c.store.CreateChat(name, description)
	if err != nil {
		c.fail("create chat", err)
		return
	}
	if !c.persistLocked("create chat") {
		c.renderChatsLocked()
		return
	}
	c.openChatLocked(chat.ID)
}

// OpenChat shows a chat's messages.
func (c *Controller) OpenChat(id model.ChatID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	c.openChatLocked(id)
}

func (c *Controller) openChatLocked(id model.ChatID) {
	if _, ok := c.store.Chat(id); !ok {
		c.renderer.Notify("Chat not found")
		return
	}
	if c.activeChat != id {
		c.stopTypingLocked()
	}
	if err := c.screens.Transition(screen.Conversation); err != nil {
		c.logger.Warn(err.Error())
		return
	}
	c.activeChat = id
	c.renderConversationLocked()
}

// SendMessage posts text to the open chat as the signed-in user.
func (c *Controller) SendMessage(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" || !c.requireSession() {
		return
	}
	c.postLocked("send message", conversation.MessageInput{Text: text, Type: model.MessageText})
}

// AttachFile posts the file at path to the open chat.
func (c *Controller) AttachFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	if c.attachments == nil {
		c.renderer.Notify("Attachments are not available")
		return
	}

	a, err := c.attachments.Load(path)
	if err != nil {
		c.fail("attach file", err)
		return
	}
	c.postLocked("attach file", conversation.MessageInput{
		Text:     a.Name,
		Type:     a.Type,
		FileData: a.DataURL,
		FileName: a.Name,
	})
}

func (c *Controller) postLocked(op string, in conversation.MessageInput) {
	if c.activeChat == "" {
		c.renderer.Notify("Open a chat first")
		return
	}
	c.stopTypingLocked()

	in.Author = c.store.Username()
	in.AuthorKey = c.store.Key()
	if _, err := c.store.AddMessage(c.activeChat, in); err != nil {
		c.fail(op, err)
		return
	}
	c.persistLocked(op)
	c.renderConversationLocked()
}

// Keystroke marks the user as typing in the open chat and (re)arms the idle
// timer that clears it.
func (c *Controller) Keystroke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeChat == "" || !c.store.Loaded() {
		return
	}

	if c.typingTimer == nil || c.typingChat != c.activeChat {
		c.stopTypingLocked()
		c.typingChat = c.activeChat
		c.store.SetTyping(c.typingChat, true)
	} else {
		c.typingTimer.Stop()
	}
	c.typingGen++
	gen := c.typingGen
	c.typingTimer = time.AfterFunc(c.opts.TypingIdle, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.typingGen == gen {
			c.stopTypingLocked()
		}
	})
}

// stopTypingLocked sends "stop typing" if a keystroke run is active.
func (c *Controller) stopTypingLocked() {
	if c.typingTimer == nil {
		return
	}
	c.typingTimer.Stop()
	c.typingTimer = nil
	c.typingGen++
	c.store.SetTyping(c.typingChat, false)
	c.typingChat = ""
}

// StartPrivateChat opens the 1:1 chat with a friend, creating it first if
// there is none.
func (c *Controller) StartPrivateChat(friendKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}

	var friend *model.FriendRef
	for _, f := range c.store.Friends() {
		if f.Key == friendKey {
			friend = &f
			break
		}
	}
	if friend == nil {
		c.renderer.Notify("Only friends can be messaged")
		return
	}

	if chat, ok := c.store.FindPrivateChat(friendKey); ok {
		c.openChatLocked(chat.ID)
		return
	}
	chat, err := c.store.CreatePrivateChat(friend.Key, friend.Username, c.store.Key())
	if err != nil {
		c.fail("start chat", err)
		return
	}
	if !c.persistLocked("start chat") {
		return
	}
	c.openChatLocked(chat.ID)
}

// ShowChats switches to the chat list.
func (c *Controller) ShowChats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.show(screen.Chats) {
		return
	}
	c.renderChatsLocked()
}

// ShowProfile switches to the profile page.
func (c *Controller) ShowProfile() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.show(screen.Profile) {
		return
	}
	c.renderProfileLocked()
}

// show leaves the open chat and moves to s.
func (c *Controller) show(s screen.Screen) bool {
	if !c.requireSession() {
		return false
	}
	if err := c.screens.Transition(s); err != nil {
		c.logger.Warn(err.Error())
		return false
	}
	if s != screen.Conversation {
		c.stopTypingLocked()
		c.activeChat = ""
	}
	return true
}
