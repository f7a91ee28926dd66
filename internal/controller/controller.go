package controller

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/matheus3301/localchat/internal/attachment"
	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/conversation"
	"github.com/matheus3301/localchat/internal/lock"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/presence"
	"github.com/matheus3301/localchat/internal/screen"
	"github.com/matheus3301/localchat/internal/storage"
	"go.uber.org/zap"
)

// Accounts manages stored identities and the active-user pointer.
// *storage.Adapter implements it.
type Accounts interface {
	GenerateKey() (string, error)
	Exists(key string) (bool, error)
	SetActiveKey(key string) error
	ActiveKey() (string, error)
	ClearActiveKey() error
	ListProfiles() ([]storage.ProfileSummary, error)
}

// Attachments turns a file path into a message payload.
// *attachment.Loader implements it.
type Attachments interface {
	Load(path string) (*attachment.Attachment, error)
}

// Options tunes controller behavior.
type Options struct {
	// TypingIdle is how long after the last keystroke "stop typing" is sent.
	TypingIdle time.Duration
	// DisplayMessages caps how many of a chat's newest messages are shown.
	DisplayMessages int
	// LockDir holds per-profile lock files. Empty disables locking.
	LockDir string
}

// Controller turns UI events into store operations and renders the result.
// Event methods may be called from any goroutine; they run one at a time.
type Controller struct {
	store       *conversation.Store
	accounts    Accounts
	attachments Attachments
	screens     *screen.Machine
	renderer    Renderer
	bus         *bus.Bus
	logger      *zap.Logger
	opts        Options

	mu          sync.Mutex
	activeChat  model.ChatID
	searchTerm  string
	typingChat  model.ChatID
	typingTimer *time.Timer
	typingGen   uint64
	profileLock *lock.Lock
	stop        chan struct{}
	stopped     chan struct{}
}

// New creates a controller. Call Start to show the first screen.
func New(store *conversation.Store, accounts Accounts, attachments Attachments, screens *screen.Machine,
	renderer Renderer, b *bus.Bus, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TypingIdle <= 0 {
		opts.TypingIdle = time.Second
	}
	if opts.DisplayMessages <= 0 {
		opts.DisplayMessages = 100
	}
	return &Controller{
		store:       store,
		accounts:    accounts,
		attachments: attachments,
		screens:     screens,
		renderer:    renderer,
		bus:         b,
		logger:      logger,
		opts:        opts,
	}
}

// Start listens for presence and merge events and restores the last session
// when the active pointer names a stored profile.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bus != nil && c.stop == nil {
		c.stop = make(chan struct{})
		c.stopped = make(chan struct{})
		go c.watch(c.stop, c.stopped)
	}

	key, err := c.accounts.ActiveKey()
	if err != nil {
		c.logger.Error("read active key", zap.Error(err))
	}
	if key != "" {
		ok, err := c.accounts.Exists(key)
		if err != nil {
			c.logger.Error("check active profile", zap.String("key", key), zap.Error(err))
		}
		if ok && c.signInLocked(key, "") == nil {
			return
		}
		c.logger.Info("active profile not restorable", zap.String("key", key))
	}
	c.showWelcomeLocked()
}

// Shutdown saves the signed-in profile, releases its lock and stops
// listening for events.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.stopTypingLocked()
	if c.store.Loaded() {
		if err := c.store.PersistActive(); err != nil {
			c.logger.Error("final save failed", zap.Error(err))
		}
	}
	c.releaseLockLocked()
	stop, stopped := c.stop, c.stopped
	c.stop, c.stopped = nil, nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		<-stopped
	}
}

func (c *Controller) watch(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	typing, unsubTyping := c.bus.Subscribe("presence.", 32)
	defer unsubTyping()
	merged, unsubMerged := c.bus.Subscribe(bus.KindProfileMerged, 8)
	defer unsubMerged()

	for {
		select {
		case evt := <-typing:
			if tc, ok := evt.Payload.(presence.TypingChange); ok {
				c.onTyping(tc.ChatID, tc.UserKey, tc.Typing)
			}
		case evt := <-merged:
			if report, ok := evt.Payload.(conversation.MergeReport); ok {
				c.onMerged(report)
			}
		case <-stop:
			return
		}
	}
}

func (c *Controller) onTyping(chatID model.ChatID, userKey string, typing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if userKey == c.store.Key() || chatID != c.activeChat || c.screens.Current() != screen.Conversation {
		return
	}
	c.renderer.ShowTyping(chatID, c.displayNameLocked(userKey, ""), typing)
}

func (c *Controller) onMerged(report conversation.MergeReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if report.NewRequests > 0 {
		c.renderer.Notify(fmt.Sprintf("%d new friend request(s)", report.NewRequests))
	}
	if report.NewFriends > 0 {
		c.renderer.Notify(fmt.Sprintf("%d friend request(s) accepted", report.NewFriends))
	}
	switch c.screens.Current() {
	case screen.Requests:
		c.renderRequestsLocked()
	case screen.Friends:
		c.renderFriendsLocked()
	}
}

// fail reports err to the user. Rejected input and missing targets become a
// notification; anything else is a storage failure that reverts the store.
func (c *Controller) fail(op string, err error) {
	if msg, ok := userMessage(err); ok {
		c.logger.Debug(op+" rejected", zap.Error(err))
		c.renderer.Notify(msg)
		return
	}
	c.logger.Error(op+" failed", zap.Error(err))
	c.store.Revert()
	var held *lock.LockHeldError
	if errors.As(err, &held) {
		c.renderer.Alert(held.Error())
		return
	}
	c.renderer.Alert(fmt.Sprintf("Could not %s: %v", op, err))
}

// persistLocked saves the working set; a failure is reported and reverted.
func (c *Controller) persistLocked(op string) bool {
	if err := c.store.PersistActive(); err != nil {
		c.fail(op, err)
		return false
	}
	return true
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, conversation.ErrEmptyName):
		return "A chat needs a name", true
	case errors.Is(err, conversation.ErrSelfTarget):
		return "You cannot send a friend request to yourself", true
	case errors.Is(err, conversation.ErrAlreadySent):
		return "Friend request already sent", true
	case errors.Is(err, conversation.ErrAlreadyFriends):
		return "You are already friends", true
	case errors.Is(err, conversation.ErrNotFound):
		return "Not found", true
	case errors.Is(err, conversation.ErrNotLoaded):
		return "Sign in first", true
	case errors.Is(err, storage.ErrInvalidKey):
		return "A key is 16 letters or digits", true
	case errors.Is(err, attachment.ErrTooLarge):
		return "File is too large to attach", true
	case errors.Is(err, attachment.ErrNotFile), errors.Is(err, attachment.ErrNoPath):
		return "Choose a file to attach", true
	case errors.Is(err, fs.ErrNotExist):
		return "File not found", true
	}
	return "", false
}
