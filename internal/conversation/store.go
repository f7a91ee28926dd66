package conversation

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/presence"
	"github.com/matheus3301/localchat/internal/storage"
	"go.uber.org/zap"
)

// Storage is the persistence the store needs. *storage.Adapter implements it.
type Storage interface {
	Load(key string) (*model.Profile, error)
	Save(key string, p *model.Profile) error
	ListProfiles() ([]storage.ProfileSummary, error)
}

// Store holds the working set of the signed-in profile and applies the
// chat and friendship rules to it. All methods are safe for concurrent use.
type Store struct {
	storage  Storage
	presence presence.Provider
	bus      *bus.Bus
	logger   *zap.Logger

	mu       sync.Mutex
	key      string
	profile  *model.Profile
	snapshot *model.Profile
	// resolved holds requester keys accepted or rejected since load, so a
	// merge with the stored record never brings their requests back.
	resolved map[string]struct{}
}

// New creates a store. A nil provider disables presence.
func New(st Storage, p presence.Provider, b *bus.Bus, logger *zap.Logger) *Store {
	if p == nil {
		p = presence.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage:  st,
		presence: p,
		bus:      b,
		logger:   logger,
	}
}

// LoadForUser replaces the working set with the profile stored under key.
// A missing or unreadable record yields a fresh profile holding Favorites.
func (s *Store) LoadForUser(key string) error {
	p, err := s.storage.Load(key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if p == nil {
		p = model.NewProfile("")
	}
	if report := model.Repair(p); report.Changed() {
		s.logger.Warn("repaired stored profile",
			zap.String("key", key),
			zap.Int("dropped_chats", report.DroppedChats),
			zap.Int("dropped_refs", report.DroppedRefs),
			zap.Int("trimmed_messages", report.TrimmedMessages),
			zap.Bool("seeded_favorites", report.SeededFavorites),
		)
	}

	s.mu.Lock()
	s.key = key
	s.profile = p
	s.snapshot = p.Clone()
	s.resolved = make(map[string]struct{})
	s.mu.Unlock()

	s.logger.Info("profile loaded", zap.String("key", key), zap.Int("chats", len(p.Chats)))
	s.bus.Emit(bus.KindProfileLoaded, key)
	return nil
}

// Unload drops the working set. Nothing is persisted.
func (s *Store) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = ""
	s.profile = nil
	s.snapshot = nil
	s.resolved = nil
}

// Loaded reports whether a profile is signed in.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// PersistForUser writes the whole working set under key with username. When
// another writer changed the record since it was read, the relationship sets
// are merged from the stored copy and the write is retried once.
func (s *Store) PersistForUser(key, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(key, username)
}

// PersistActive writes the working set under the signed-in key.
func (s *Store) PersistActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoaded
	}
	return s.persistLocked(s.key, s.profile.Username)
}

func (s *Store) persistLocked(key, username string) error {
	if s.profile == nil {
		return ErrNotLoaded
	}
	p := s.profile
	if key != s.key {
		// Writing someone else's record from this working set is a plain copy.
		cp := p.Clone()
		cp.Username = username
		cp.Version = 0
		if err := s.storage.Save(key, cp); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		return nil
	}
	p.Username = username

	err := s.storage.Save(key, p)
	if errors.Is(err, storage.ErrVersionConflict) {
		stored, lerr := s.storage.Load(key)
		if lerr != nil {
			return fmt.Errorf("reload %s after conflict: %w", key, lerr)
		}
		if stored == nil {
			p.Version = 0
		} else {
			report := s.mergeLocked(stored)
			p.Version = stored.Version
			s.logger.Info("merged concurrent profile changes",
				zap.String("key", key),
				zap.Int("new_requests", report.NewRequests),
				zap.Int("new_friends", report.NewFriends),
			)
			if report.Changed() {
				s.bus.Emit(bus.KindProfileMerged, report)
			}
		}
		err = s.storage.Save(key, p)
	}
	if err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	s.snapshot = p.Clone()
	return nil
}

// Revert restores the working set to the last loaded or persisted state.
func (s *Store) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return
	}
	s.profile = s.snapshot.Clone()
	s.logger.Debug("working set reverted", zap.String("key", s.key))
}

// Key returns the signed-in user key, or "".
func (s *Store) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Username returns the signed-in display name, or "".
func (s *Store) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Username
}

// Chats returns a copy of every chat in display order.
func (s *Store) Chats() []model.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	out := make([]model.Chat, 0, len(s.profile.Chats))
	for _, c := range s.profile.Chats {
		out = append(out, c.Clone())
	}
	return out
}

// Chat returns a copy of the chat with id.
func (s *Store) Chat(id model.ChatID) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.chatLocked(id)
	if c == nil {
		return model.Chat{}, false
	}
	return c.Clone(), true
}

// Friends returns a copy of the friend list.
func (s *Store) Friends() []model.FriendRef {
	return s.refs(func(p *model.Profile) []model.FriendRef { return p.Friends })
}

// FriendRequests returns a copy of the incoming requests.
func (s *Store) FriendRequests() []model.FriendRef {
	return s.refs(func(p *model.Profile) []model.FriendRef { return p.FriendRequests })
}

// SentFriendRequests returns a copy of the outgoing requests.
func (s *Store) SentFriendRequests() []model.FriendRef {
	return s.refs(func(p *model.Profile) []model.FriendRef { return p.SentFriendRequests })
}

func (s *Store) refs(field func(*model.Profile) []model.FriendRef) []model.FriendRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	return append([]model.FriendRef(nil), field(s.profile)...)
}

func (s *Store) chatLocked(id model.ChatID) *model.Chat {
	if s.profile == nil {
		return nil
	}
	for _, c := range s.profile.Chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
