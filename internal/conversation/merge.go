package conversation

import "github.com/matheus3301/localchat/internal/model"

// MergeReport counts what a merge took over from the stored record. It is the
// payload of conversation.profile_merged events.
type MergeReport struct {
	NewRequests int
	NewFriends  int
}

// Changed reports whether the merge altered the working set.
func (r MergeReport) Changed() bool {
	return r.NewRequests > 0 || r.NewFriends > 0
}

// mergeLocked folds relationship changes other profiles wrote into the stored
// record back into the working set. Chats and messages are only ever written
// by this process, so the working set wins for them.
//
// A friend present only in the stored copy accepted one of our requests, so
// it also leaves the sent and incoming lists. An incoming request present
// only in the stored copy is kept unless it was resolved this session or the
// sender is already a friend.
func (s *Store) mergeLocked(stored *model.Profile) MergeReport {
	var report MergeReport
	p := s.profile

	for _, f := range stored.Friends {
		if model.ContainsRef(p.Friends, f.Key) {
			continue
		}
		p.Friends = append(p.Friends, f)
		p.SentFriendRequests, _ = model.RemoveRef(p.SentFriendRequests, f.Key)
		p.FriendRequests, _ = model.RemoveRef(p.FriendRequests, f.Key)
		report.NewFriends++
	}

	for _, r := range stored.FriendRequests {
		if _, ok := s.resolved[r.Key]; ok {
			continue
		}
		if model.ContainsRef(p.FriendRequests, r.Key) || model.ContainsRef(p.Friends, r.Key) {
			continue
		}
		p.FriendRequests = append(p.FriendRequests, r)
		report.NewRequests++
	}

	return report
}
