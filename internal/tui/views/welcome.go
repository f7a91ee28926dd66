package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/localchat/internal/storage"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// WelcomeView is the signed-out page: create a profile from a nickname or
// restore one from its key.
type WelcomeView struct {
	*tview.Flex
	theme     *ui.Theme
	nickname  *tview.InputField
	key       *tview.InputField
	known     *tview.Table
	profiles  []storage.ProfileSummary
	focus     Focuser
	onCreate  func(name string)
	onRestore func(key string)
}

// NewWelcomeView creates the welcome page.
func NewWelcomeView(theme *ui.Theme, focus Focuser) *WelcomeView {
	w := &WelcomeView{
		theme:    theme,
		nickname: newInput(theme, " Nickname: ", " New profile "),
		key:      newInput(theme, " Key: ", " Restore with key "),
		known:    newTable(theme, " Profiles on this machine "),
		focus:    focus,
	}
	w.key.SetAcceptanceFunc(tview.InputFieldMaxLength(storage.KeyLength))

	w.nickname.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if w.onCreate != nil {
				w.onCreate(w.nickname.GetText())
			}
		case tcell.KeyTab, tcell.KeyDown:
			w.focus(w.key)
		}
	})
	w.key.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if w.onRestore != nil {
				w.onRestore(w.key.GetText())
			}
		case tcell.KeyTab, tcell.KeyDown:
			if len(w.profiles) > 0 {
				w.focus(w.known)
			} else {
				w.focus(w.nickname)
			}
		case tcell.KeyBacktab, tcell.KeyUp:
			w.focus(w.nickname)
		}
	})
	w.known.SetSelectedFunc(func(row, _ int) {
		if idx := selectedIndex(w.known, len(w.profiles)); idx >= 0 && w.onRestore != nil {
			w.onRestore(w.profiles[idx].Key)
		}
	})
	w.known.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyTab {
			w.focus(w.nickname)
		}
	})

	form := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.nickname, 3, 0, true).
		AddItem(w.key, 3, 0, false).
		AddItem(w.known, 0, 1, false)

	w.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.NewLogo(theme), 6, 0, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(form, 0, 2, true).
			AddItem(nil, 0, 1, false), 0, 1, true)
	w.SetBackgroundColor(theme.BgColor)
	return w
}

// Name implements Component.
func (w *WelcomeView) Name() string { return "Welcome" }

// Initial implements Component.
func (w *WelcomeView) Initial() tview.Primitive { return w.nickname }

// Hints implements Component.
func (w *WelcomeView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnCreate sets the callback for a submitted nickname.
func (w *WelcomeView) SetOnCreate(fn func(name string)) { w.onCreate = fn }

// SetOnRestore sets the callback for a submitted or selected key.
func (w *WelcomeView) SetOnRestore(fn func(key string)) { w.onRestore = fn }

// Update resets the form and lists the stored profiles.
func (w *WelcomeView) Update(known []storage.ProfileSummary) {
	w.nickname.SetText("")
	w.key.SetText("")
	w.profiles = known
	w.known.Clear()
	setHeader(w.known, w.theme, column{" NAME", 1}, column{" KEY", 0})
	for i, p := range known {
		name := p.Username
		if name == "" {
			name = "(unnamed)"
		}
		w.known.SetCell(i+1, 0, textCell(w.theme, name).SetExpansion(1))
		w.known.SetCell(i+1, 1, textCell(w.theme, p.Key))
	}
	keepSelection(w.known, len(known))
	w.known.SetTitle(fmt.Sprintf(" Profiles on this machine (%d) ", len(known)))
}
