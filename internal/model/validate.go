package model

// FavoritesID is the fixed id of the synthetic favorites chat.
const FavoritesID ChatID = "1"

// NewFavorites returns a fresh favorites chat.
func NewFavorites() *Chat {
	return &Chat{
		ID:       FavoritesID,
		Name:     "Favorites",
		Type:     ChatFavorites,
		Messages: []Message{},
	}
}

// NewProfile returns a profile holding only the favorites chat.
func NewProfile(username string) *Profile {
	return &Profile{
		Username:           username,
		Chats:              []*Chat{NewFavorites()},
		Friends:            []FriendRef{},
		FriendRequests:     []FriendRef{},
		SentFriendRequests: []FriendRef{},
	}
}

// RepairReport counts what Repair had to fix.
type RepairReport struct {
	DroppedChats    int
	DroppedRefs     int
	TrimmedMessages int
	SeededFavorites bool
}

// Changed reports whether Repair modified anything beyond nil-slice normalization.
func (r RepairReport) Changed() bool {
	return r.DroppedChats > 0 || r.DroppedRefs > 0 || r.TrimmedMessages > 0 || r.SeededFavorites
}

// Repair makes a decoded profile safe to work with. Chats missing an id or a
// name are dropped, favorites is re-seeded when no chat survives, friend sets
// are deduplicated by key and message histories are cut to MaxMessages.
func Repair(p *Profile) RepairReport {
	var report RepairReport

	chats := make([]*Chat, 0, len(p.Chats))
	for _, c := range p.Chats {
		if c == nil || c.ID == "" || c.Name == "" {
			report.DroppedChats++
			continue
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
		if n := len(c.Messages) - MaxMessages; n > 0 {
			c.Messages = append([]Message(nil), c.Messages[n:]...)
			report.TrimmedMessages += n
		}
		chats = append(chats, c)
	}
	if len(chats) == 0 {
		chats = append(chats, NewFavorites())
		report.SeededFavorites = true
	}
	p.Chats = chats

	var n int
	p.Friends, n = dedupeRefs(p.Friends)
	report.DroppedRefs += n
	p.FriendRequests, n = dedupeRefs(p.FriendRequests)
	report.DroppedRefs += n
	p.SentFriendRequests, n = dedupeRefs(p.SentFriendRequests)
	report.DroppedRefs += n

	return report
}
