package views

import (
	"fmt"

	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// FriendsView lists friends; choosing one opens the private chat.
type FriendsView struct {
	*tview.Table
	theme   *ui.Theme
	friends []model.FriendRef
	onOpen  func(key string)
}

// NewFriendsView creates the friends table.
func NewFriendsView(theme *ui.Theme) *FriendsView {
	fv := &FriendsView{
		Table: newTable(theme, " Friends "),
		theme: theme,
	}
	fv.SetSelectedFunc(func(_, _ int) {
		if key := fv.SelectedFriend(); key != "" && fv.onOpen != nil {
			fv.onOpen(key)
		}
	})
	return fv
}

// Name implements Component.
func (fv *FriendsView) Name() string { return "Friends" }

// Initial implements Component.
func (fv *FriendsView) Initial() tview.Primitive { return fv }

// Hints implements Component.
func (fv *FriendsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Message"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnOpen sets the callback when a friend is chosen.
func (fv *FriendsView) SetOnOpen(fn func(key string)) { fv.onOpen = fn }

// Update refreshes the table.
func (fv *FriendsView) Update(friends []model.FriendRef) {
	fv.friends = friends
	fv.Clear()
	setHeader(fv.Table, fv.theme, column{" NAME", 1}, column{" KEY", 0}, column{" SINCE", 0})
	for i, f := range friends {
		fv.SetCell(i+1, 0, textCell(fv.theme, f.Username).SetExpansion(1))
		fv.SetCell(i+1, 1, textCell(fv.theme, f.Key))
		fv.SetCell(i+1, 2, textCell(fv.theme, shortDate(f.AddedAt)))
	}
	keepSelection(fv.Table, len(friends))
	fv.SetTitle(fmt.Sprintf(" Friends (%d) ", len(friends)))
}

// SelectedFriend returns the key under the cursor.
func (fv *FriendsView) SelectedFriend() string {
	if idx := selectedIndex(fv.Table, len(fv.friends)); idx >= 0 {
		return fv.friends[idx].Key
	}
	return ""
}

// shortDate trims an ISO-8601 timestamp to its date.
func shortDate(ts string) string {
	if len(ts) >= len("2006-01-02") {
		return ts[:len("2006-01-02")]
	}
	return ts
}
