package conversation

import (
	"fmt"
	"time"

	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/model"
	"go.uber.org/zap"
)

// AddFriend adds key to the friend list and reports whether it was new. An
// existing entry keeps its username.
func (s *Store) AddFriend(key, username string) bool {
	s.mu.Lock()
	if s.profile == nil || model.ContainsRef(s.profile.Friends, key) {
		s.mu.Unlock()
		return false
	}
	s.profile.Friends = append(s.profile.Friends, model.FriendRef{
		Key:      key,
		Username: username,
		AddedAt:  timestamp(time.Now()),
	})
	s.mu.Unlock()

	s.bus.Emit(bus.KindFriendsChanged, key)
	return true
}

// SendFriendRequest records an incoming request in the target's profile and
// an outgoing one in the working set, then persists it. The target record
// is written only if nobody changed it since it was read.
func (s *Store) SendFriendRequest(targetKey, selfKey, selfUsername string) error {
	if targetKey == selfKey {
		return ErrSelfTarget
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoaded
	}
	if model.ContainsRef(s.profile.SentFriendRequests, targetKey) {
		return ErrAlreadySent
	}
	if model.ContainsRef(s.profile.Friends, targetKey) {
		return ErrAlreadyFriends
	}

	target, err := s.storage.Load(targetKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", targetKey, err)
	}
	if target == nil {
		return fmt.Errorf("profile %s: %w", targetKey, ErrNotFound)
	}

	now := timestamp(time.Now())
	if !model.ContainsRef(target.FriendRequests, selfKey) {
		target.FriendRequests = append(target.FriendRequests, model.FriendRef{
			Key:      selfKey,
			Username: selfUsername,
			SentAt:   now,
		})
		if err := s.storage.Save(targetKey, target); err != nil {
			return fmt.Errorf("deliver request to %s: %w", targetKey, err)
		}
	}

	before := s.profile.SentFriendRequests
	s.profile.SentFriendRequests = append(append([]model.FriendRef(nil), before...), model.FriendRef{
		Key:      targetKey,
		Username: target.Username,
		SentAt:   now,
	})
	if err := s.persistLocked(selfKey, selfUsername); err != nil {
		s.profile.SentFriendRequests, _ = model.RemoveRef(s.profile.SentFriendRequests, targetKey)
		return err
	}

	s.logger.Info("friend request sent", zap.String("target", targetKey))
	s.bus.Emit(bus.KindRequestsChanged, targetKey)
	return nil
}

// AcceptFriendRequest turns a pending incoming request into a friendship on
// both profiles and persists the working set. A requester whose record no
// longer exists is still accepted locally.
func (s *Store) AcceptFriendRequest(requesterKey, requesterUsername, selfKey, selfUsername string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoaded
	}
	if !model.ContainsRef(s.profile.FriendRequests, requesterKey) {
		return fmt.Errorf("request from %s: %w", requesterKey, ErrNotFound)
	}

	now := timestamp(time.Now())
	requester, err := s.storage.Load(requesterKey)
	if err != nil {
		return fmt.Errorf("load %s: %w", requesterKey, err)
	}
	if requester == nil {
		s.logger.Warn("accepting request from missing profile", zap.String("requester", requesterKey))
	} else {
		if !model.ContainsRef(requester.Friends, selfKey) {
			requester.Friends = append(requester.Friends, model.FriendRef{
				Key:      selfKey,
				Username: selfUsername,
				AddedAt:  now,
			})
		}
		requester.SentFriendRequests, _ = model.RemoveRef(requester.SentFriendRequests, selfKey)
		requester.FriendRequests, _ = model.RemoveRef(requester.FriendRequests, selfKey)
		if err := s.storage.Save(requesterKey, requester); err != nil {
			return fmt.Errorf("update requester %s: %w", requesterKey, err)
		}
	}

	before := s.profile.Clone()
	if !model.ContainsRef(s.profile.Friends, requesterKey) {
		s.profile.Friends = append(s.profile.Friends, model.FriendRef{
			Key:      requesterKey,
			Username: requesterUsername,
			AddedAt:  now,
		})
	}
	s.profile.FriendRequests, _ = model.RemoveRef(s.profile.FriendRequests, requesterKey)
	s.profile.SentFriendRequests, _ = model.RemoveRef(s.profile.SentFriendRequests, requesterKey)
	_, wasResolved := s.resolved[requesterKey]
	s.resolved[requesterKey] = struct{}{}

	if err := s.persistLocked(selfKey, selfUsername); err != nil {
		s.profile = before
		if !wasResolved {
			delete(s.resolved, requesterKey)
		}
		return err
	}

	s.logger.Info("friend request accepted", zap.String("requester", requesterKey))
	s.bus.Emit(bus.KindFriendsChanged, requesterKey)
	s.bus.Emit(bus.KindRequestsChanged, requesterKey)
	return nil
}

// RejectFriendRequest drops an incoming request from the working set and
// persists it. The requester's record is left alone, so their outgoing
// request stays pending on their side.
func (s *Store) RejectFriendRequest(requesterKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ErrNotLoaded
	}
	remaining, removed := model.RemoveRef(s.profile.FriendRequests, requesterKey)
	if !removed {
		return fmt.Errorf("request from %s: %w", requesterKey, ErrNotFound)
	}

	before := s.profile.FriendRequests
	s.profile.FriendRequests = remaining
	_, wasResolved := s.resolved[requesterKey]
	s.resolved[requesterKey] = struct{}{}

	if err := s.persistLocked(s.key, s.profile.Username); err != nil {
		s.profile.FriendRequests = before
		if !wasResolved {
			delete(s.resolved, requesterKey)
		}
		return err
	}

	s.logger.Info("friend request rejected", zap.String("requester", requesterKey))
	s.bus.Emit(bus.KindRequestsChanged, requesterKey)
	return nil
}
