package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/screen"
	"github.com/matheus3301/localchat/internal/storage"
	"github.com/matheus3301/localchat/internal/tui/keys"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/matheus3301/localchat/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Actions are the user intents the UI forwards. *controller.Controller
// implements it.
type Actions interface {
	SubmitNickname(name string)
	RestoreKey(key string)
	Logout()
	CreateChat(name, description string)
	OpenChat(id model.ChatID)
	SendMessage(text string)
	AttachFile(path string)
	Keystroke()
	StartPrivateChat(friendKey string)
	ShowChats()
	ShowFriends()
	ShowRequests()
	ShowSearch()
	ShowProfile()
	SearchChanged(term string)
	SendFriendRequest(key string)
	AcceptRequest(key string)
	RejectRequest(key string)
}

const (
	pagePrompt  = "prompt"
	pageNewChat = "newchat"
	pageAlert   = "alert"
	pageHelp    = "help"
)

var _ controller.Renderer = (*App)(nil)

// App is the terminal UI. It renders controller state and forwards input
// to an Actions implementation on a single worker goroutine, so the UI
// loop never waits on the controller.
type App struct {
	app      *tview.Application
	theme    *ui.Theme
	pages    *ui.Pages
	registry *keys.Registry
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	crumbs   *ui.Crumbs
	identity *ui.Identity
	menu     *ui.Menu
	prompt   *ui.Prompt
	alert    *tview.Modal

	welcome  *views.WelcomeView
	chats    *views.ChatList
	thread   *views.MessageThread
	friends  *views.FriendsView
	requests *views.RequestsView
	search   *views.SearchView
	profile  *views.ProfileView
	newChat  *views.NewChatForm
	help     *views.HelpView

	components map[string]ui.Component

	logger      *zap.Logger
	queueUpdate func(func())
	actions     Actions
	queue       chan func()
	done        chan struct{}
	doneOnce    sync.Once
}

// NewApp creates the TUI application. Call Bind before Run.
func NewApp(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := ui.DefaultTheme()
	a := &App{
		app:      tview.NewApplication(),
		theme:    theme,
		pages:    ui.NewPages(),
		registry: keys.NewRegistry(),
		flash:    ui.NewFlashModel(),
		flashBar: ui.NewFlashBar(theme),
		crumbs:   ui.NewCrumbs(theme),
		identity: ui.NewIdentity(theme),
		menu:     ui.NewMenu(theme),
		prompt:   ui.NewPrompt(theme),
		alert:    tview.NewModal(),
		chats:    views.NewChatList(theme),
		thread:   views.NewMessageThread(theme),
		friends:  views.NewFriendsView(theme),
		requests: views.NewRequestsView(theme),
		profile:  views.NewProfileView(theme),
		newChat:  views.NewNewChatForm(theme),
		help:     views.NewHelpView(theme),
		logger:   logger.Named("tui"),
		queue:    make(chan func(), 256),
		done:     make(chan struct{}),
	}
	a.welcome = views.NewWelcomeView(theme, a.focus)
	a.search = views.NewSearchView(theme, a.focus)
	a.queueUpdate = func(f func()) { a.app.QueueUpdateDraw(f) }

	a.components = map[string]ui.Component{
		string(screen.Welcome):      a.welcome,
		string(screen.Chats):        a.chats,
		string(screen.Conversation): a.thread,
		string(screen.Friends):      a.friends,
		string(screen.Requests):     a.requests,
		string(screen.Search):       a.search,
		string(screen.Profile):      a.profile,
		pageHelp:                    a.help,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.identity.Update("", "")
	return a
}

// Bind sets where user input goes. Input arriving before Bind is dropped.
func (a *App) Bind(actions Actions) {
	a.actions = actions
}

func (a *App) setupBindings() {
	global := []struct {
		name string
		r    rune
		desc string
		fn   func()
	}{
		{"chats", 'c', "Chats", func() { a.do(Actions.ShowChats) }},
		{"friends", 'f', "Friends", func() { a.do(Actions.ShowFriends) }},
		{"requests", 'r', "Requests", func() { a.do(Actions.ShowRequests) }},
		{"search", 's', "Search", func() { a.do(Actions.ShowSearch) }},
		{"profile", 'p', "Profile", func() { a.do(Actions.ShowProfile) }},
		{"command", ':', "Command", func() { a.openPrompt(ui.PromptCommand) }},
		{"help", '?', "Help", a.showHelp},
		{"quit", 'q', "Quit", a.Stop},
	}
	for _, g := range global {
		a.registry.AddGlobal(g.name, &keys.Action{Key: tcell.KeyRune, Rune: g.r, Description: g.desc, Visible: true, Handler: g.fn})
	}

	chats := string(screen.Chats)
	a.registry.AddView(chats, "new", &keys.Action{
		Key: tcell.KeyRune, Rune: 'n', Description: "New chat", Visible: true,
		Handler: a.showNewChat,
	})
	for n := 1; n <= 9; n++ {
		a.registry.AddView(chats, "jump"+string(rune('0'+n)), &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() {
				if id := a.chats.ChatByIndex(n); id != "" {
					a.do(func(x Actions) { x.OpenChat(id) })
				}
			},
		})
	}

	conv := string(screen.Conversation)
	a.registry.AddView(conv, "compose", &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Handler: func() { a.focus(a.thread.Composer()) },
	})
	a.registry.AddView(conv, "attach", &keys.Action{
		Key: tcell.KeyRune, Rune: 'a', Handler: func() { a.openPrompt(ui.PromptAttach) },
	})

	req := string(screen.Requests)
	a.registry.AddView(req, "accept", &keys.Action{
		Key: tcell.KeyRune, Rune: 'a',
		Handler: func() {
			if key := a.requests.SelectedIncoming(); key != "" {
				a.do(func(x Actions) { x.AcceptRequest(key) })
			}
		},
	})
	a.registry.AddView(req, "reject", &keys.Action{
		Key: tcell.KeyRune, Rune: 'x',
		Handler: func() {
			if key := a.requests.SelectedIncoming(); key != "" {
				a.do(func(x Actions) { x.RejectRequest(key) })
			}
		},
	})

	a.registry.AddView(string(screen.Search), "find", &keys.Action{
		Key: tcell.KeyRune, Rune: '/', Description: "Edit term", Visible: true,
		Handler: func() { a.focus(a.search.Input()) },
	})
}

func (a *App) setupCallbacks() {
	a.welcome.SetOnCreate(func(name string) { a.do(func(x Actions) { x.SubmitNickname(name) }) })
	a.welcome.SetOnRestore(func(key string) { a.do(func(x Actions) { x.RestoreKey(key) }) })
	a.chats.SetOnOpen(func(id model.ChatID) { a.do(func(x Actions) { x.OpenChat(id) }) })
	a.thread.SetOnSend(func(text string) { a.do(func(x Actions) { x.SendMessage(text) }) })
	a.thread.SetOnKeystroke(func() { a.do(Actions.Keystroke) })
	a.friends.SetOnOpen(func(key string) { a.do(func(x Actions) { x.StartPrivateChat(key) }) })
	a.search.SetOnChange(func(term string) { a.do(func(x Actions) { x.SearchChanged(term) }) })
	a.search.SetOnRequest(func(key string) { a.do(func(x Actions) { x.SendFriendRequest(key) }) })

	a.newChat.SetOnSubmit(func(name, description string) {
		a.dismiss()
		a.do(func(x Actions) { x.CreateChat(name, description) })
	})
	a.newChat.SetOnCancel(a.dismiss)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.dismiss()
		switch mode {
		case ui.PromptCommand:
			a.runCommand(ParseCommand(text))
		case ui.PromptAttach:
			a.do(func(x Actions) { x.AttachFile(text) })
		}
	})
	a.prompt.SetOnCancel(a.dismiss)

	a.alert.AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { a.dismiss() })
	a.alert.SetBackgroundColor(a.theme.BgColor)
	a.alert.SetTextColor(a.theme.FlashErrColor)
	a.alert.SetBorderColor(a.theme.FlashErrColor)
	a.alert.SetTitle(" Error ")

	a.pages.SetOnChange(func(top string) { a.refreshChrome(top) })
}

func (a *App) setupLayout() {
	for name, c := range a.components {
		if name == pageHelp {
			continue
		}
		a.pages.AddPage(name, c, true, false)
	}
	a.pages.AddPage(pageHelp, center(a.help, 84, 30), true, false)
	a.pages.AddPage(pagePrompt, center(a.prompt, 70, 3), true, false)
	a.pages.AddPage(pageNewChat, center(a.newChat, 60, 9), true, false)
	a.pages.AddPage(pageAlert, a.alert, true, false)
	a.pages.Show(string(screen.Welcome))

	header := tview.NewFlex().
		AddItem(a.crumbs, 0, 1, false).
		AddItem(a.identity, 0, 1, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetFocus(a.welcome.Initial())
	a.app.SetInputCapture(a.handleKey)
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	top := a.pages.Top()

	if event.Key() == tcell.KeyEscape {
		switch top {
		case pageHelp:
			a.dismiss()
			return nil
		case pagePrompt, pageNewChat, pageAlert, string(screen.Welcome), string(screen.Chats):
			return event
		}
		a.do(Actions.ShowChats)
		return nil
	}

	if a.pages.HasOverlay() && top != pageHelp {
		return event
	}

	// Let text input widgets handle all keys normally.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		return event
	}

	if a.registry.HandleEvent(top, event) {
		return nil
	}
	return event
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "":
	case "quit":
		a.Stop()
	case "help":
		a.showHelp()
	case "logout":
		a.do(Actions.Logout)
	case "new":
		if cmd.Args == "" {
			a.showNewChat()
			return
		}
		name, description := splitDescription(cmd.Args)
		a.do(func(x Actions) { x.CreateChat(name, description) })
	case "attach":
		if cmd.Args == "" {
			a.openPrompt(ui.PromptAttach)
			return
		}
		path := cmd.Args
		a.do(func(x Actions) { x.AttachFile(path) })
	case "search":
		a.do(Actions.ShowSearch)
		if term := cmd.Args; term != "" {
			a.do(func(x Actions) { x.SearchChanged(term) })
		}
	case "chats":
		a.do(Actions.ShowChats)
	case "friends":
		a.do(Actions.ShowFriends)
	case "requests":
		a.do(Actions.ShowRequests)
	case "profile":
		a.do(Actions.ShowProfile)
	default:
		a.flash.Warn("Unknown command: " + cmd.Name)
	}
}

// do queues fn for the worker goroutine.
func (a *App) do(fn func(Actions)) {
	if a.actions == nil {
		a.logger.Warn("input before bind dropped")
		return
	}
	actions := a.actions
	select {
	case a.queue <- func() { fn(actions) }:
	default:
		a.logger.Warn("input queue full, dropping action")
	}
}

func (a *App) dispatch() {
	for {
		select {
		case fn := <-a.queue:
			fn()
		case <-a.done:
			return
		}
	}
}

func (a *App) watchFlash() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.flash.Watch():
		case <-ticker.C:
		case <-a.done:
			return
		}
		a.update(func() { a.flashBar.Update(a.flash.GetMessage()) })
	}
}

// update runs f on the UI goroutine unless the UI has stopped.
func (a *App) update(f func()) {
	select {
	case <-a.done:
		return
	default:
	}
	a.queueUpdate(f)
}

func (a *App) focus(p tview.Primitive) {
	a.app.SetFocus(p)
}

// show brings page name to the base layer and focuses it, unless an overlay
// is holding focus.
func (a *App) show(name string) {
	changed := a.pages.Current() != name
	a.pages.Show(name)
	if a.pages.HasOverlay() {
		return
	}
	if changed || a.app.GetFocus() == nil {
		a.focus(a.components[name].Initial())
	}
}

func (a *App) openPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.pages.Overlay(pagePrompt)
	a.focus(a.prompt)
}

func (a *App) showNewChat() {
	a.newChat.Reset()
	a.pages.Overlay(pageNewChat)
	a.focus(a.newChat)
}

func (a *App) showHelp() {
	a.pages.Overlay(pageHelp)
	a.focus(a.help)
}

// dismiss closes the top overlay and returns focus to what is below it.
func (a *App) dismiss() {
	a.pages.Dismiss()
	switch top := a.pages.Top(); top {
	case pagePrompt:
		a.focus(a.prompt)
	case pageNewChat:
		a.focus(a.newChat)
	case pageAlert:
		a.focus(a.alert)
	default:
		if c, ok := a.components[top]; ok {
			a.focus(c.Initial())
		}
	}
}

func (a *App) refreshChrome(top string) {
	trail := []string{"localchat"}
	if c, ok := a.components[a.pages.Current()]; ok {
		trail = append(trail, c.Name())
	}
	var hints []ui.MenuHint
	switch top {
	case pagePrompt:
		trail = append(trail, "Prompt")
		hints = []ui.MenuHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Cancel"}}
	case pageNewChat:
		trail = append(trail, "New chat")
		hints = []ui.MenuHint{{Key: "Tab", Description: "Next field"}, {Key: "Esc", Description: "Cancel"}}
	case pageAlert:
		trail = append(trail, "Error")
		hints = []ui.MenuHint{{Key: "Enter", Description: "Dismiss"}}
	default:
		c, ok := a.components[top]
		if !ok {
			break
		}
		if top == pageHelp {
			trail = append(trail, c.Name())
		}
		hints = append(hints, c.Hints()...)
		if top != string(screen.Welcome) {
			for _, h := range a.registry.Hints(top) {
				hints = append(hints, ui.MenuHint{Key: h.Key, Description: h.Description})
			}
		}
	}
	a.crumbs.Update(trail...)
	a.menu.Update(hints)
}

// Run starts the TUI and blocks until it stops.
func (a *App) Run() error {
	go a.dispatch()
	go a.watchFlash()
	defer a.doneOnce.Do(func() { close(a.done) })
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.app.Stop()
}

// SetIdentity implements controller.Renderer.
func (a *App) SetIdentity(username, key string) {
	a.update(func() { a.identity.Update(username, key) })
}

// ShowWelcome implements controller.Renderer.
func (a *App) ShowWelcome(known []storage.ProfileSummary) {
	a.update(func() {
		a.welcome.Update(known)
		a.show(string(screen.Welcome))
	})
}

// ShowChats implements controller.Renderer.
func (a *App) ShowChats(rows []controller.ChatRow) {
	a.update(func() {
		a.chats.Update(rows)
		a.show(string(screen.Chats))
	})
}

// ShowConversation implements controller.Renderer.
func (a *App) ShowConversation(v controller.ConversationView) {
	a.update(func() {
		a.thread.Update(v)
		a.show(string(screen.Conversation))
		a.refreshChrome(a.pages.Top())
	})
}

// ShowTyping implements controller.Renderer.
func (a *App) ShowTyping(chatID model.ChatID, who string, typing bool) {
	a.update(func() { a.thread.SetTyping(chatID, who, typing) })
}

// ShowFriends implements controller.Renderer.
func (a *App) ShowFriends(friends []model.FriendRef) {
	a.update(func() {
		a.friends.Update(friends)
		a.show(string(screen.Friends))
	})
}

// ShowRequests implements controller.Renderer.
func (a *App) ShowRequests(incoming, outgoing []model.FriendRef) {
	a.update(func() {
		a.requests.Update(incoming, outgoing)
		a.show(string(screen.Requests))
	})
}

// ShowSearch implements controller.Renderer.
func (a *App) ShowSearch(term string, results []controller.SearchResult) {
	a.update(func() {
		a.search.Update(term, results)
		a.show(string(screen.Search))
	})
}

// ShowProfile implements controller.Renderer.
func (a *App) ShowProfile(p controller.ProfileView) {
	a.update(func() {
		a.profile.Update(p)
		a.show(string(screen.Profile))
	})
}

// Notify implements controller.Renderer.
func (a *App) Notify(msg string) {
	a.flash.Info(msg)
}

// Alert implements controller.Renderer.
func (a *App) Alert(msg string) {
	a.logger.Warn("alert shown", zap.String("message", msg))
	a.update(func() {
		a.alert.SetText(msg)
		a.pages.Overlay(pageAlert)
		a.focus(a.alert)
	})
}
