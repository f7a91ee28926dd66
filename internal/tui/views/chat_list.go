package views

import (
	"fmt"

	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatList is the main chat list view.
type ChatList struct {
	*tview.Table
	theme  *ui.Theme
	rows   []controller.ChatRow
	onOpen func(id model.ChatID)
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	cl := &ChatList{
		Table: newTable(theme, " Chats "),
		theme: theme,
	}
	cl.SetSelectedFunc(func(_, _ int) {
		if id := cl.SelectedChat(); id != "" && cl.onOpen != nil {
			cl.onOpen(id)
		}
	})
	return cl
}

// Name implements Component.
func (cl *ChatList) Name() string { return "Chats" }

// Initial implements Component.
func (cl *ChatList) Initial() tview.Primitive { return cl }

// Hints implements Component.
func (cl *ChatList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "1-9", Description: "Jump"},
	}
}

// SetOnOpen sets the callback when a chat is chosen.
func (cl *ChatList) SetOnOpen(fn func(id model.ChatID)) { cl.onOpen = fn }

// Update refreshes the chat list with new data.
func (cl *ChatList) Update(rows []controller.ChatRow) {
	cl.rows = rows
	cl.Clear()
	setHeader(cl.Table, cl.theme,
		column{" NAME", 1},
		column{" LAST MESSAGE", 2},
		column{" TIME", 0},
		column{" TYPE", 0},
		column{" MSGS", 0},
	)

	for i, r := range rows {
		row := i + 1
		kind := "GROUP"
		if r.Type == model.ChatPrivate {
			kind = "DM"
		}
		cl.SetCell(row, 0, textCell(cl.theme, r.Name).SetExpansion(1))
		cl.SetCell(row, 1, textCell(cl.theme, r.LastMessage).SetExpansion(2).SetMaxWidth(50))
		cl.SetCell(row, 2, textCell(cl.theme, r.LastTime).SetAlign(tview.AlignRight))
		cl.SetCell(row, 3, textCell(cl.theme, kind).SetAlign(tview.AlignRight))
		cl.SetCell(row, 4, textCell(cl.theme, fmt.Sprint(r.Messages)).SetAlign(tview.AlignRight))
	}
	keepSelection(cl.Table, len(rows))
	cl.SetTitle(fmt.Sprintf(" Chats (%d) ", len(rows)))
}

// SelectedChat returns the id of the chat under the cursor.
func (cl *ChatList) SelectedChat() model.ChatID {
	if idx := selectedIndex(cl.Table, len(cl.rows)); idx >= 0 {
		return cl.rows[idx].ID
	}
	return ""
}

// ChatByIndex returns the id of the Nth chat (1-based).
func (cl *ChatList) ChatByIndex(n int) model.ChatID {
	if n < 1 || n > len(cl.rows) {
		return ""
	}
	return cl.rows[n-1].ID
}
