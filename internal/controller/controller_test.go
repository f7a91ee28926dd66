package controller

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/localchat/internal/attachment"
	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/conversation"
	"github.com/matheus3301/localchat/internal/lock"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/presence"
	"github.com/matheus3301/localchat/internal/screen"
	"github.com/matheus3301/localchat/internal/storage"
	"github.com/spf13/afero"
)

// fakeRenderer records everything the controller draws.
type fakeRenderer struct {
	mu           sync.Mutex
	username     string
	key          string
	welcome      int
	known        []storage.ProfileSummary
	chats        []ChatRow
	conversation ConversationView
	typing       []string
	friends      []model.FriendRef
	incoming     []model.FriendRef
	outgoing     []model.FriendRef
	searchTerm   string
	results      []SearchResult
	profile      ProfileView
	notes        []string
	alerts       []string
}

func (f *fakeRenderer) SetIdentity(username, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.username, f.key = username, key
}

func (f *fakeRenderer) ShowWelcome(known []storage.ProfileSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome++
	f.known = known
}

func (f *fakeRenderer) ShowChats(rows []ChatRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = rows
}

func (f *fakeRenderer) ShowConversation(v ConversationView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversation = v
}

func (f *fakeRenderer) ShowTyping(_ model.ChatID, who string, typing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := "stopped"
	if typing {
		state = "typing"
	}
	f.typing = append(f.typing, who+" "+state)
}

func (f *fakeRenderer) ShowFriends(friends []model.FriendRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.friends = friends
}

func (f *fakeRenderer) ShowRequests(incoming, outgoing []model.FriendRef) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incoming, f.outgoing = incoming, outgoing
}

func (f *fakeRenderer) ShowSearch(term string, results []SearchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchTerm, f.results = term, results
}

func (f *fakeRenderer) ShowProfile(p ProfileView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
}

func (f *fakeRenderer) Notify(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, msg)
}

func (f *fakeRenderer) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, msg)
}

func (f *fakeRenderer) lastNote() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notes) == 0 {
		return ""
	}
	return f.notes[len(f.notes)-1]
}

// failingStorage fails every Save while fail is set.
type failingStorage struct {
	*storage.Adapter
	mu   sync.Mutex
	fail bool
}

func (f *failingStorage) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *failingStorage) Save(key string, p *model.Profile) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return storage.ErrQuotaExceeded
	}
	return f.Adapter.Save(key, p)
}

// recordingPresence records typing calls from the store.
type recordingPresence struct {
	mu     sync.Mutex
	typing []bool
}

func (r *recordingPresence) Typing(_ model.ChatID, _ string, typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing = append(r.typing, typing)
}

func (r *recordingPresence) Delivered(model.ChatID, string) {}
func (r *recordingPresence) Close()                         {}

func (r *recordingPresence) calls() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.typing...)
}

type harness struct {
	ctrl     *Controller
	store    *conversation.Store
	adapter  *storage.Adapter
	storage  *failingStorage
	screens  *screen.Machine
	renderer *fakeRenderer
	lockDir  string
}

type harnessOptions struct {
	presence presence.Provider
	bus      *bus.Bus
	fs       afero.Fs
	opts     Options
}

func testAdapter(t *testing.T) *storage.Adapter {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewAdapter(db, 0, nil)
}

func newHarness(t *testing.T, a *storage.Adapter, ho harnessOptions) *harness {
	t.Helper()
	fs := &failingStorage{Adapter: a}
	st := conversation.New(fs, ho.presence, ho.bus, nil)
	screens := screen.NewMachine(ho.bus)
	r := &fakeRenderer{}
	if ho.fs == nil {
		ho.fs = afero.NewMemMapFs()
	}
	if ho.opts.LockDir == "" {
		ho.opts.LockDir = t.TempDir()
	}
	ctrl := New(st, a, attachment.NewLoader(ho.fs, 1024), screens, r, ho.bus, nil, ho.opts)
	t.Cleanup(ctrl.Shutdown)
	return &harness{
		ctrl:     ctrl,
		store:    st,
		adapter:  a,
		storage:  fs,
		screens:  screens,
		renderer: r,
		lockDir:  ho.opts.LockDir,
	}
}

// signUp starts the controller and creates a profile named username.
func signUp(t *testing.T, h *harness, username string) string {
	t.Helper()
	h.ctrl.Start()
	h.ctrl.SubmitNickname(username)
	if h.screens.Current() != screen.Chats {
		t.Fatalf("screen = %s after sign up, notes %v alerts %v", h.screens.Current(), h.renderer.notes, h.renderer.alerts)
	}
	return h.store.Key()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func TestStartShowsWelcome(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	h.ctrl.Start()
	if h.renderer.welcome != 1 {
		t.Errorf("ShowWelcome called %d times, want 1", h.renderer.welcome)
	}
	if h.screens.Current() != screen.Welcome {
		t.Errorf("screen = %s", h.screens.Current())
	}
}

func TestSubmitNickname(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	h.ctrl.Start()

	h.ctrl.SubmitNickname("   ")
	if h.screens.Current() != screen.Welcome || h.renderer.lastNote() != "Enter a nickname" {
		t.Fatalf("blank nickname: screen %s, note %q", h.screens.Current(), h.renderer.lastNote())
	}

	h.ctrl.SubmitNickname(" Alice ")
	if h.screens.Current() != screen.Chats {
		t.Fatalf("screen = %s, want CHATS", h.screens.Current())
	}
	if h.renderer.username != "Alice" || len(h.renderer.key) != storage.KeyLength {
		t.Errorf("identity = %q %q", h.renderer.username, h.renderer.key)
	}
	if len(h.renderer.chats) != 1 || h.renderer.chats[0].ID != model.FavoritesID {
		t.Errorf("chats = %+v, want favorites only", h.renderer.chats)
	}
	active, _ := h.adapter.ActiveKey()
	if active != h.renderer.key {
		t.Errorf("active key = %q, want %q", active, h.renderer.key)
	}
	if stored, _ := h.adapter.Load(active); stored == nil || stored.Username != "Alice" {
		t.Errorf("stored profile = %+v", stored)
	}
}

func TestStartRestoresSession(t *testing.T) {
	a := testAdapter(t)
	lockDir := t.TempDir()
	first := newHarness(t, a, harnessOptions{opts: Options{LockDir: lockDir}})
	key := signUp(t, first, "Alice")
	first.ctrl.Shutdown()

	second := newHarness(t, a, harnessOptions{opts: Options{LockDir: lockDir}})
	second.ctrl.Start()
	if second.screens.Current() != screen.Chats {
		t.Fatalf("screen = %s, want restored session", second.screens.Current())
	}
	if second.renderer.username != "Alice" || second.renderer.key != key {
		t.Errorf("identity = %q %q", second.renderer.username, second.renderer.key)
	}
	if second.renderer.welcome != 0 {
		t.Error("welcome shown despite a restorable session")
	}
}

func TestRestoreKey(t *testing.T) {
	a := testAdapter(t)
	if err := a.Save("aB3dE5fG7hJ9kL1m", model.NewProfile("Alice")); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, a, harnessOptions{})
	h.ctrl.Start()

	h.ctrl.RestoreKey("short")
	if h.renderer.lastNote() != "A key is 16 letters or digits" {
		t.Errorf("invalid key note = %q", h.renderer.lastNote())
	}
	h.ctrl.RestoreKey("zzzzzzzzzzzzzzzz")
	if h.renderer.lastNote() != "No profile found for that key" {
		t.Errorf("unknown key note = %q", h.renderer.lastNote())
	}
	if h.screens.Current() != screen.Welcome {
		t.Fatalf("screen = %s after failed restores", h.screens.Current())
	}

	h.ctrl.RestoreKey(" aB3dE5fG7hJ9kL1m ")
	if h.screens.Current() != screen.Chats || h.renderer.username != "Alice" {
		t.Errorf("screen %s, identity %q", h.screens.Current(), h.renderer.username)
	}
	if len(h.renderer.alerts) != 0 {
		t.Errorf("unexpected alerts %v", h.renderer.alerts)
	}
}

func TestRestoreKeyLockHeld(t *testing.T) {
	a := testAdapter(t)
	key := "aB3dE5fG7hJ9kL1m"
	if err := a.Save(key, model.NewProfile("Alice")); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, a, harnessOptions{})
	held, err := lock.Acquire(h.lockDir, key)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = held.Release() }()

	h.ctrl.Start()
	h.ctrl.RestoreKey(key)
	if h.screens.Current() != screen.Welcome {
		t.Errorf("screen = %s, a locked profile must not open", h.screens.Current())
	}
	if len(h.renderer.alerts) != 1 || !strings.Contains(h.renderer.alerts[0], "another process") {
		t.Errorf("alerts = %v", h.renderer.alerts)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	key := signUp(t, h, "Alice")
	h.ctrl.Logout()

	if h.screens.Current() != screen.Welcome || h.store.Loaded() {
		t.Fatalf("screen %s, loaded %v after logout", h.screens.Current(), h.store.Loaded())
	}
	if h.renderer.username != "" || h.renderer.key != "" {
		t.Errorf("identity not cleared: %q %q", h.renderer.username, h.renderer.key)
	}
	if active, _ := h.adapter.ActiveKey(); active != "" {
		t.Errorf("active key = %q after logout", active)
	}
	if len(h.renderer.known) != 1 || h.renderer.known[0].Key != key {
		t.Errorf("welcome should list the kept profile, got %+v", h.renderer.known)
	}

	l, err := lock.Acquire(h.lockDir, key)
	if err != nil {
		t.Fatalf("lock still held after logout: %v", err)
	}
	_ = l.Release()
}

func TestRequiresSession(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	h.ctrl.Start()
	h.ctrl.ShowChats()
	if h.renderer.lastNote() != "Sign in first" {
		t.Errorf("note = %q", h.renderer.lastNote())
	}
	if h.screens.Current() != screen.Welcome {
		t.Errorf("screen = %s", h.screens.Current())
	}
}

func TestCreateChatAndSend(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	key := signUp(t, h, "Alice")

	h.ctrl.CreateChat("   ", "")
	if h.renderer.lastNote() != "A chat needs a name" {
		t.Errorf("note = %q", h.renderer.lastNote())
	}

	h.ctrl.CreateChat(" Team ", "")
	if h.screens.Current() != screen.Conversation || h.renderer.conversation.Name != "Team" {
		t.Fatalf("screen %s, conversation %+v", h.screens.Current(), h.renderer.conversation)
	}

	h.ctrl.SendMessage("  ")
	h.ctrl.SendMessage("hi")
	msgs := h.renderer.conversation.Messages
	if len(msgs) != 1 {
		t.Fatalf("got %d displayed messages, want 1", len(msgs))
	}
	if msgs[0].Author != "Alice" || !msgs[0].Mine || msgs[0].Text != "hi" {
		t.Errorf("message = %+v", msgs[0])
	}

	stored, _ := h.adapter.Load(key)
	if len(stored.Chats) != 2 || len(stored.Chats[1].Messages) != 1 {
		t.Errorf("chat and message were not persisted: %+v", stored.Chats)
	}

	h.ctrl.ShowChats()
	rows := h.renderer.chats
	if len(rows) != 2 || rows[1].LastMessage != "hi" || rows[1].Messages != 1 {
		t.Errorf("chat rows = %+v", rows)
	}
}

func TestConversationShowsLatestMessages(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	signUp(t, h, "Alice")

	chat, err := h.store.CreateChat("Busy", "")
	if err != nil {
		t.Fatal(err)
	}
	var last model.Message
	for i := 0; i < 120; i++ {
		last, _ = h.store.AddMessage(chat.ID, conversation.MessageInput{Author: "Alice", Text: "m"})
	}

	h.ctrl.OpenChat(chat.ID)
	v := h.renderer.conversation
	if len(v.Messages) != 100 || v.Hidden != 20 {
		t.Fatalf("showing %d, hidden %d; want 100 and 20", len(v.Messages), v.Hidden)
	}
	if v.Messages[99].ID != last.ID {
		t.Error("newest message must be shown last")
	}
}

func TestAuthorResolvedAtRender(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	signUp(t, h, "Alice")

	chat, _ := h.store.CreateChat("Team", "")
	h.store.AddFriend("bobBBBBBBBBBBBB2", "Bob")
	_, _ = h.store.AddMessage(chat.ID, conversation.MessageInput{Author: "Bobby", AuthorKey: "bobBBBBBBBBBBBB2", Text: "yo"})
	_, _ = h.store.AddMessage(chat.ID, conversation.MessageInput{Author: "Legacy", Text: "old"})

	h.ctrl.OpenChat(chat.ID)
	msgs := h.renderer.conversation.Messages
	if msgs[0].Author != "Bob" || msgs[0].Mine {
		t.Errorf("friend message = %+v, want current friend name", msgs[0])
	}
	if msgs[1].Author != "Legacy" {
		t.Errorf("keyless message author = %q, want stored name", msgs[1].Author)
	}
}

func TestStorageFailureAlertsAndReverts(t *testing.T) {
	h := newHarness(t, testAdapter(t), harnessOptions{})
	signUp(t, h, "Alice")

	h.storage.setFail(true)
	h.ctrl.CreateChat("Team", "")
	h.storage.setFail(false)

	if len(h.renderer.alerts) != 1 || !strings.Contains(h.renderer.alerts[0], "create chat") {
		t.Fatalf("alerts = %v", h.renderer.alerts)
	}
	if n := len(h.store.Chats()); n != 1 {
		t.Errorf("got %d chats, failed create must be reverted", n)
	}
	if h.screens.Current() != screen.Chats {
		t.Errorf("screen = %s", h.screens.Current())
	}
}

func TestTypingIdleTimer(t *testing.T) {
	rp := &recordingPresence{}
	h := newHarness(t, testAdapter(t), harnessOptions{
		presence: rp,
		opts:     Options{TypingIdle: 30 * time.Millisecond},
	})
	signUp(t, h, "Alice")
	h.ctrl.OpenChat(model.FavoritesID)

	h.ctrl.Keystroke()
	h.ctrl.Keystroke()
	h.ctrl.Keystroke()
	if got := rp.calls(); len(got) != 1 || !got[0] {
		t.Fatalf("typing calls = %v, want a single start", got)
	}

	waitFor(t, "stop typing", func() bool { return len(rp.calls()) == 2 })
	if got := rp.calls(); got[1] {
		t.Errorf("typing calls = %v, want start then stop", got)
	}

	// Sending ends the run at once.
	h.ctrl.Keystroke()
	h.ctrl.SendMessage("hi")
	if got := rp.calls(); len(got) != 4 || got[3] {
		t.Errorf("typing calls = %v, want stop on send", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := rp.calls(); len(got) != 4 {
		t.Errorf("idle timer fired after send: %v", got)
	}
}

func TestKeystrokeOutsideChatIgnored(t *testing.T) {
	rp := &recordingPresence{}
	h := newHarness(t, testAdapter(t), harnessOptions{presence: rp})
	signUp(t, h, "Alice")
	h.ctrl.Keystroke()
	if len(rp.calls()) != 0 {
		t.Errorf("typing sent with no open chat: %v", rp.calls())
	}
}

func TestAttachFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	if err := afero.WriteFile(fs, "/pics/cat.png", png, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/big.bin", make([]byte, 4096), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, testAdapter(t), harnessOptions{fs: fs})
	signUp(t, h, "Alice")
	h.ctrl.OpenChat(model.FavoritesID)

	h.ctrl.AttachFile("/pics/cat.png")
	msgs := h.renderer.conversation.Messages
	if len(msgs) != 1 || msgs[0].Type != model.MessageImage || msgs[0].FileName != "cat.png" {
		t.Fatalf("messages = %+v", msgs)
	}
	chat, _ := h.store.Chat(model.FavoritesID)
	if !strings.HasPrefix(chat.Messages[0].FileData, "data:image/png;base64,") {
		t.Errorf("file data = %.40q", chat.Messages[0].FileData)
	}

	tests := []struct {
		path string
		want string
	}{
		{"/big.bin", "File is too large to attach"},
		{"/nope.txt", "File not found"},
		{"", "Choose a file to attach"},
	}
	for _, tt := range tests {
		h.ctrl.AttachFile(tt.path)
		if got := h.renderer.lastNote(); got != tt.want {
			t.Errorf("AttachFile(%q) note = %q, want %q", tt.path, got, tt.want)
		}
	}
	if len(h.renderer.alerts) != 0 {
		t.Errorf("attachment errors must not alert: %v", h.renderer.alerts)
	}
}

func TestFriendWorkflow(t *testing.T) {
	a := testAdapter(t)
	lockDir := t.TempDir()
	alice := newHarness(t, a, harnessOptions{opts: Options{LockDir: lockDir}})
	aliceKey := signUp(t, alice, "Alice")
	if err := a.ClearActiveKey(); err != nil {
		t.Fatal(err)
	}
	bob := newHarness(t, a, harnessOptions{opts: Options{LockDir: lockDir}})
	bobKey := signUp(t, bob, "Bob")

	alice.ctrl.ShowSearch()
	alice.ctrl.SearchChanged("BO")
	if r := alice.renderer.results; len(r) != 1 || r[0].Key != bobKey || r[0].Friend || r[0].Pending {
		t.Fatalf("search results = %+v", r)
	}

	alice.ctrl.SendFriendRequest(aliceKey)
	if alice.renderer.lastNote() != "You cannot send a friend request to yourself" {
		t.Errorf("self request note = %q", alice.renderer.lastNote())
	}
	alice.ctrl.SendFriendRequest(bobKey)
	if alice.renderer.lastNote() != "Friend request sent" {
		t.Fatalf("note = %q, alerts %v", alice.renderer.lastNote(), alice.renderer.alerts)
	}
	if r := alice.renderer.results; len(r) != 1 || !r[0].Pending {
		t.Errorf("search results after send = %+v, want pending", r)
	}
	alice.ctrl.SendFriendRequest(bobKey)
	if alice.renderer.lastNote() != "Friend request already sent" {
		t.Errorf("duplicate note = %q", alice.renderer.lastNote())
	}

	// Bob picks up the request written into his record.
	bob.ctrl.Logout()
	bob.ctrl.RestoreKey(bobKey)
	bob.ctrl.ShowRequests()
	if len(bob.renderer.incoming) != 1 || bob.renderer.incoming[0].Key != aliceKey {
		t.Fatalf("bob's incoming = %+v", bob.renderer.incoming)
	}
	bob.ctrl.AcceptRequest(aliceKey)
	if bob.renderer.lastNote() != "You are now friends with Alice" {
		t.Errorf("accept note = %q, alerts %v", bob.renderer.lastNote(), bob.renderer.alerts)
	}
	if len(bob.renderer.incoming) != 0 {
		t.Errorf("incoming after accept = %+v", bob.renderer.incoming)
	}

	// Alice's next save folds bob's acceptance into her working set.
	alice.ctrl.ShowChats()
	alice.ctrl.CreateChat("Notes", "")
	alice.ctrl.ShowFriends()
	if len(alice.renderer.friends) != 1 || alice.renderer.friends[0].Key != bobKey {
		t.Fatalf("alice's friends = %+v", alice.renderer.friends)
	}

	alice.ctrl.StartPrivateChat(bobKey)
	if alice.screens.Current() != screen.Conversation || alice.renderer.conversation.Type != model.ChatPrivate {
		t.Fatalf("screen %s, conversation %+v", alice.screens.Current(), alice.renderer.conversation)
	}
	first := alice.renderer.conversation.ChatID
	alice.ctrl.ShowFriends()
	alice.ctrl.StartPrivateChat(bobKey)
	if alice.renderer.conversation.ChatID != first {
		t.Error("second StartPrivateChat must reuse the existing chat")
	}
	if n := len(alice.store.Chats()); n != 3 {
		t.Errorf("got %d chats, want favorites, Notes and one private chat", n)
	}

	alice.ctrl.StartPrivateChat("strangerSSSSSSS9")
	if alice.renderer.lastNote() != "Only friends can be messaged" {
		t.Errorf("stranger note = %q", alice.renderer.lastNote())
	}
}

func TestRejectRequest(t *testing.T) {
	a := testAdapter(t)
	carol := model.NewProfile("Carol")
	if err := a.Save("carolCCCCCCCCCC3", carol); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, a, harnessOptions{})
	key := signUp(t, h, "Alice")

	stored, _ := a.Load(key)
	stored.FriendRequests = append(stored.FriendRequests, model.FriendRef{Key: "carolCCCCCCCCCC3", Username: "Carol"})
	if err := a.Save(key, stored); err != nil {
		t.Fatal(err)
	}

	// The incoming request reaches the working set through the merge on save.
	h.ctrl.CreateChat("Team", "")
	h.ctrl.ShowRequests()
	if len(h.renderer.incoming) != 1 {
		t.Fatalf("incoming = %+v", h.renderer.incoming)
	}
	h.ctrl.RejectRequest("carolCCCCCCCCCC3")
	if len(h.renderer.incoming) != 0 || h.renderer.lastNote() != "Friend request rejected" {
		t.Errorf("incoming %+v, note %q", h.renderer.incoming, h.renderer.lastNote())
	}
	h.ctrl.RejectRequest("carolCCCCCCCCCC3")
	if h.renderer.lastNote() != "Not found" {
		t.Errorf("second reject note = %q", h.renderer.lastNote())
	}
}

func TestPeerTypingShown(t *testing.T) {
	b := bus.New()
	sim := presence.NewSimulated(b, presence.Delays{
		StartMin: 5 * time.Millisecond, StartMax: 10 * time.Millisecond,
		HideMin: 20 * time.Millisecond, HideMax: 30 * time.Millisecond,
	})
	defer sim.Close()

	h := newHarness(t, testAdapter(t), harnessOptions{presence: sim, bus: b})
	signUp(t, h, "Alice")
	h.store.AddFriend("bobBBBBBBBBBBBB2", "Bob")
	h.ctrl.StartPrivateChat("bobBBBBBBBBBBBB2")
	h.ctrl.SendMessage("hello")

	waitFor(t, "peer typing", func() bool {
		h.renderer.mu.Lock()
		defer h.renderer.mu.Unlock()
		return len(h.renderer.typing) >= 2
	})
	h.renderer.mu.Lock()
	got := append([]string(nil), h.renderer.typing...)
	h.renderer.mu.Unlock()
	if got[0] != "Bob typing" || got[1] != "Bob stopped" {
		t.Errorf("typing = %v", got)
	}
}

func TestUserMessage(t *testing.T) {
	if _, ok := userMessage(errors.New("disk on fire")); ok {
		t.Error("unknown errors are storage failures")
	}
	if _, ok := userMessage(storage.ErrVersionConflict); ok {
		t.Error("version conflicts are storage failures")
	}
	if msg, ok := userMessage(conversation.ErrAlreadyFriends); !ok || msg != "You are already friends" {
		t.Errorf("userMessage(ErrAlreadyFriends) = %q, %v", msg, ok)
	}
}
