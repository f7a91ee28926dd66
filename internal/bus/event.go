package bus

import "time"

// Event kinds published inside the client.
const (
	KindChatCreated     = "conversation.chat_created"
	KindMessageAdded    = "conversation.message_added"
	KindFriendsChanged  = "conversation.friends_changed"
	KindRequestsChanged = "conversation.requests_changed"
	KindProfileLoaded   = "conversation.profile_loaded"
	KindProfileMerged   = "conversation.profile_merged"
	KindTyping          = "presence.typing"
	KindScreenChanged   = "ui.screen_changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
