package views

import (
	"fmt"

	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Initial implements Component.
func (hv *HelpView) Initial() tview.Primitive { return hv }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Close"},
	}
}

func (hv *HelpView) render() {
	kc := ui.ColorName(hv.theme.MenuKeyColor)
	key := func(k string) string { return fmt.Sprintf("[%s]%s[-:-:-]", kc, tview.Escape(k)) }

	_, _ = fmt.Fprintf(hv, `
  [::b]Anywhere (outside text fields)[-:-:-]

  %s  Chats        %s  Friends      %s  Requests
  %s  Search       %s  Profile      %s  Command
  %s  Help         %s  Quit         %s  Back / close

  [::b]Chats[-:-:-]

  %s  Open chat    %s  New chat     %s  Jump to Nth chat

  [::b]Conversation[-:-:-]

  %s  Compose      %s  Attach file  %s  Send (in composer)

  [::b]Requests[-:-:-]

  %s  Accept       %s  Reject

  [::b]Commands[-:-:-]

  %s   %s   %s
  %s   %s
`,
		key("c"), key("f"), key("r"),
		key("s"), key("p"), key(":"),
		key("?"), key("q"), key("Esc"),
		key("Enter"), key("n"), key("1-9"),
		key("i"), key("a"), key("Enter"),
		key("a"), key("x"),
		key(":new <name>"), key(":attach <path>"), key(":search <name>"),
		key(":logout"), key(":quit"),
	)
}
