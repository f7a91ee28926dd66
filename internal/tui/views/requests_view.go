package views

import (
	"fmt"

	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// RequestsView shows incoming requests, which can be accepted or
// rejected, above the requests still waiting on others.
type RequestsView struct {
	*tview.Flex
	theme    *ui.Theme
	incoming *tview.Table
	outgoing *tview.Table
	in       []model.FriendRef
	out      []model.FriendRef
}

// NewRequestsView creates the requests page.
func NewRequestsView(theme *ui.Theme) *RequestsView {
	rv := &RequestsView{
		theme:    theme,
		incoming: newTable(theme, " Incoming "),
		outgoing: newTable(theme, " Sent "),
	}
	rv.outgoing.SetSelectable(false, false)
	rv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rv.incoming, 0, 2, true).
		AddItem(rv.outgoing, 0, 1, false)
	return rv
}

// Name implements Component.
func (rv *RequestsView) Name() string { return "Requests" }

// Initial implements Component.
func (rv *RequestsView) Initial() tview.Primitive { return rv.incoming }

// Hints implements Component.
func (rv *RequestsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "a", Description: "Accept"},
		{Key: "x", Description: "Reject"},
		{Key: "Esc", Description: "Back"},
	}
}

// Update refreshes both tables.
func (rv *RequestsView) Update(incoming, outgoing []model.FriendRef) {
	rv.in, rv.out = incoming, outgoing
	fill := func(table *tview.Table, refs []model.FriendRef) {
		table.Clear()
		setHeader(table, rv.theme, column{" NAME", 1}, column{" KEY", 0})
		for i, r := range refs {
			table.SetCell(i+1, 0, textCell(rv.theme, r.Username).SetExpansion(1))
			table.SetCell(i+1, 1, textCell(rv.theme, r.Key))
		}
	}
	fill(rv.incoming, incoming)
	fill(rv.outgoing, outgoing)
	keepSelection(rv.incoming, len(incoming))
	rv.incoming.SetTitle(fmt.Sprintf(" Incoming (%d) ", len(incoming)))
	rv.outgoing.SetTitle(fmt.Sprintf(" Sent (%d) ", len(outgoing)))
}

// SelectedIncoming returns the requester key under the cursor.
func (rv *RequestsView) SelectedIncoming() string {
	if idx := selectedIndex(rv.incoming, len(rv.in)); idx >= 0 {
		return rv.in[idx].Key
	}
	return ""
}
