package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Identity shows who is signed in.
type Identity struct {
	*tview.TextView
	theme *Theme
}

// NewIdentity creates the header identity panel.
func NewIdentity(theme *Theme) *Identity {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignRight)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &Identity{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders username and key; empty values mean signed out.
func (id *Identity) Update(username, key string) {
	id.Clear()
	_, _ = fmt.Fprint(id, id.render(username, key))
}

func (id *Identity) render(username, key string) string {
	fg := ColorName(id.theme.FgColor)
	if key == "" {
		return fmt.Sprintf("[%s]not signed in[-]", fg)
	}
	counter := ColorName(id.theme.CounterColor)
	return fmt.Sprintf("[%s::b]%s[-:-:-] [%s]%s[-]",
		counter, tview.Escape(username), fg, key)
}
