package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView shows the signed-in profile and its key as a QR code.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewProfileView creates the profile page.
func NewProfileView(theme *ui.Theme) *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Profile ")
	tv.SetTitleColor(theme.TitleColor)

	return &ProfileView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (pv *ProfileView) Name() string { return "Profile" }

// Initial implements Component.
func (pv *ProfileView) Initial() tview.Primitive { return pv }

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

// Update renders the profile.
func (pv *ProfileView) Update(p controller.ProfileView) {
	pv.Clear()
	_, _ = fmt.Fprint(pv, pv.render(p))
	pv.ScrollToBeginning()
}

func (pv *ProfileView) render(p controller.ProfileView) string {
	fg := ui.ColorName(pv.theme.FgColor)
	ct := ui.ColorName(pv.theme.CounterColor)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		"\n [%s::b]Name:[-:-:-]     [%s]%s[-]\n"+
			" [%s::b]Key:[-:-:-]      [%s]%s[-]\n"+
			" [%s::b]Chats:[-:-:-]    [%s]%d[-]\n"+
			" [%s::b]Friends:[-:-:-]  [%s]%d[-]\n"+
			" [%s::b]Requests:[-:-:-] [%s]%d[-]\n\n",
		fg, ct, tview.Escape(sanitizeForTerminal(p.Username)),
		fg, ct, p.Key,
		fg, ct, p.Chats,
		fg, ct, p.Friends,
		fg, ct, p.Requests,
	)

	qr, err := renderQR(p.Key)
	if err != nil {
		fmt.Fprintf(&sb, " [::d](QR generation failed: %s)[-:-:-]", tview.Escape(err.Error()))
		return sb.String()
	}
	sb.WriteString(" [::d]Keep this key to sign in again, or scan it on another machine:[-:-:-]\n\n")
	sb.WriteString("[white:black]" + qr + "[-:-]")
	return sb.String()
}
