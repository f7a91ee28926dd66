package controller

import (
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/screen"
)

// ShowFriends switches to the friend list.
func (c *Controller) ShowFriends() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.show(screen.Friends) {
		return
	}
	c.renderFriendsLocked()
}

// ShowRequests switches to the pending friend requests.
func (c *Controller) ShowRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.show(screen.Requests) {
		return
	}
	c.renderRequestsLocked()
}

// ShowSearch switches to user search, keeping the last term.
func (c *Controller) ShowSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.show(screen.Search) {
		return
	}
	c.renderSearchLocked()
}

// SearchChanged re-runs user search for term.
func (c *Controller) SearchChanged(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}
	c.searchTerm = term
	c.renderSearchLocked()
}

// SendFriendRequest asks the profile with key to become a friend.
func (c *Controller) SendFriendRequest(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}

	if err := c.store.SendFriendRequest(key, c.store.Key(), c.store.Username()); err != nil {
		c.fail("send friend request", err)
		return
	}
	c.renderer.Notify("Friend request sent")
	c.rerenderLocked()
}

// AcceptRequest accepts the incoming request from key.
func (c *Controller) AcceptRequest(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}

	username := key
	for _, r := range c.store.FriendRequests() {
		if r.Key == key {
			username = r.Username
			break
		}
	}
	if err := c.store.AcceptFriendRequest(key, username, c.store.Key(), c.store.Username()); err != nil {
		c.fail("accept friend request", err)
		return
	}
	c.renderer.Notify("You are now friends with " + username)
	c.rerenderLocked()
}

// RejectRequest drops the incoming request from key.
func (c *Controller) RejectRequest(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.requireSession() {
		return
	}

	if err := c.store.RejectFriendRequest(key); err != nil {
		c.fail("reject friend request", err)
		return
	}
	c.renderer.Notify("Friend request rejected")
	c.rerenderLocked()
}

// rerenderLocked redraws the current screen after a relationship change.
func (c *Controller) rerenderLocked() {
	switch c.screens.Current() {
	case screen.Search:
		c.renderSearchLocked()
	case screen.Requests:
		c.renderRequestsLocked()
	case screen.Friends:
		c.renderFriendsLocked()
	case screen.Profile:
		c.renderProfileLocked()
	}
}

func (c *Controller) renderFriendsLocked() {
	c.renderer.ShowFriends(c.store.Friends())
}

func (c *Controller) renderRequestsLocked() {
	c.renderer.ShowRequests(c.store.FriendRequests(), c.store.SentFriendRequests())
}

func (c *Controller) renderSearchLocked() {
	found, err := c.store.SearchUsers(c.searchTerm, c.store.Key())
	if err != nil {
		c.fail("search", err)
		return
	}
	friends := c.store.Friends()
	sent := c.store.SentFriendRequests()

	results := make([]SearchResult, 0, len(found))
	for _, p := range found {
		results = append(results, SearchResult{
			Key:      p.Key,
			Username: p.Username,
			Friend:   model.ContainsRef(friends, p.Key),
			Pending:  model.ContainsRef(sent, p.Key),
		})
	}
	c.renderer.ShowSearch(c.searchTerm, results)
}
