package controller

import (
	"fmt"
	"strings"

	"github.com/matheus3301/localchat/internal/conversation"
	"github.com/matheus3301/localchat/internal/lock"
	"github.com/matheus3301/localchat/internal/screen"
	"github.com/matheus3301/localchat/internal/storage"
	"go.uber.org/zap"
)

// SubmitNickname creates a new profile with a fresh key and signs it in.
func (c *Controller) SubmitNickname(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		c.renderer.Notify("Enter a nickname")
		return
	}
	if c.screens.SignedIn() {
		c.renderer.Notify("Log out first")
		return
	}
	key, err := c.accounts.GenerateKey()
	if err != nil {
		c.fail("create profile", err)
		return
	}
	if err := c.signInLocked(key, name); err != nil {
		return
	}
	c.renderer.Notify("Welcome, " + name + ". Your key is " + key)
}

// RestoreKey signs in the stored profile with key.
func (c *Controller) RestoreKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key = strings.TrimSpace(key)
	if err := storage.ValidateKey(key); err != nil {
		c.fail("restore profile", err)
		return
	}
	if c.screens.SignedIn() {
		c.renderer.Notify("Log out first")
		return
	}
	ok, err := c.accounts.Exists(key)
	if err != nil {
		c.fail("restore profile", err)
		return
	}
	if !ok {
		c.renderer.Notify("No profile found for that key")
		return
	}
	if err := c.signInLocked(key, ""); err != nil {
		return
	}
	c.renderer.Notify("Welcome back, " + c.store.Username())
}

// Logout saves and drops the signed-in profile. The stored profile is kept.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.store.Loaded() {
		return
	}

	c.stopTypingLocked()
	if err := c.store.PersistActive(); err != nil {
		c.logger.Error("save before logout failed", zap.Error(err))
	}
	if err := c.accounts.ClearActiveKey(); err != nil {
		c.logger.Error("clear active key", zap.Error(err))
	}
	c.logger.Info("signed out", zap.String("key", c.store.Key()))
	c.store.Unload()
	c.releaseLockLocked()
	c.activeChat = ""
	c.searchTerm = ""
	c.screens.Reset()
	c.renderer.SetIdentity("", "")
	c.showWelcomeLocked()
}

// signInLocked locks and loads key. A non-empty username marks a new
// profile, which is written right away.
func (c *Controller) signInLocked(key, username string) error {
	if c.opts.LockDir != "" {
		l, err := lock.Acquire(c.opts.LockDir, key)
		if err != nil {
			c.fail("open profile", err)
			return err
		}
		c.profileLock = l
	}

	if err := c.store.LoadForUser(key); err != nil {
		c.releaseLockLocked()
		c.fail("open profile", err)
		return err
	}
	if username == "" {
		username = c.store.Username()
	}
	if err := c.store.PersistForUser(key, username); err != nil {
		c.store.Unload()
		c.releaseLockLocked()
		c.fail("save profile", err)
		return err
	}
	if err := c.accounts.SetActiveKey(key); err != nil {
		c.store.Unload()
		c.releaseLockLocked()
		c.fail("remember profile", err)
		return err
	}

	if err := c.screens.Transition(screen.Chats); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	c.logger.Info("signed in", zap.String("key", key))
	c.renderer.SetIdentity(username, key)
	c.renderChatsLocked()
	return nil
}

func (c *Controller) releaseLockLocked() {
	if c.profileLock == nil {
		return
	}
	if err := c.profileLock.Release(); err != nil {
		c.logger.Warn("release profile lock", zap.Error(err))
	}
	c.profileLock = nil
}

func (c *Controller) showWelcomeLocked() {
	known, err := c.accounts.ListProfiles()
	if err != nil {
		c.logger.Error("list profiles", zap.Error(err))
	}
	c.renderer.ShowWelcome(known)
}

// requireSession notifies and reports false when nobody is signed in.
func (c *Controller) requireSession() bool {
	if c.store.Loaded() {
		return true
	}
	c.fail("continue", conversation.ErrNotLoaded)
	return false
}
