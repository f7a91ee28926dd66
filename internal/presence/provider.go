package presence

import (
	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/model"
)

// TypingChange is the payload of presence.typing events.
type TypingChange struct {
	ChatID  model.ChatID
	UserKey string
	Typing  bool
}

// Provider carries typing and delivery signals between participants of a chat.
// There is no transport; implementations decide what the other side "does".
type Provider interface {
	// Typing reports the local user's typing state in a chat.
	Typing(chatID model.ChatID, userKey string, typing bool)
	// Delivered tells the provider a message reached peerKey in a private chat.
	Delivered(chatID model.ChatID, peerKey string)
	// Close stops any pending work.
	Close()
}

// Noop is a Provider that does nothing.
type Noop struct{}

func (Noop) Typing(model.ChatID, string, bool) {}
func (Noop) Delivered(model.ChatID, string)    {}
func (Noop) Close()                            {}

func publish(b *bus.Bus, chatID model.ChatID, userKey string, typing bool) {
	b.Emit(bus.KindTyping, TypingChange{ChatID: chatID, UserKey: userKey, Typing: typing})
}
