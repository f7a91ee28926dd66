package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestColorName(t *testing.T) {
	if got := ColorName(tcell.ColorOrange); got != "orange" {
		t.Errorf("ColorName(orange) = %q", got)
	}
	if got := ColorName(tcell.NewRGBColor(1, 2, 3)); got != "#010203" {
		t.Errorf("ColorName(rgb) = %q", got)
	}
}

func TestCrumbsHighlightLast(t *testing.T) {
	c := NewCrumbs(DefaultTheme())
	got := c.render([]string{"localchat", "Chats", "Team [x]"})
	if !strings.Contains(got, ":b] Team [x[] [") {
		t.Errorf("last crumb not bold or not escaped: %q", got)
	}
	if strings.Count(got, ":b]") != 1 {
		t.Errorf("exactly one crumb must be active: %q", got)
	}
}

func TestMenuRender(t *testing.T) {
	m := NewMenu(DefaultTheme())
	got := m.render([]MenuHint{{Key: "n", Description: "New chat"}, {Key: "Esc", Description: "Back"}})
	if !strings.Contains(got, "<n>[-:-:-] New chat") || !strings.Contains(got, "<Esc>[-:-:-] Back") {
		t.Errorf("menu = %q", got)
	}
}

func TestIdentityRender(t *testing.T) {
	id := NewIdentity(DefaultTheme())
	if got := id.render("", ""); !strings.Contains(got, "not signed in") {
		t.Errorf("signed out = %q", got)
	}
	got := id.render("Alice", "aB3dE5fG7hJ9kL1m")
	if !strings.Contains(got, "Alice") || !strings.Contains(got, "aB3dE5fG7hJ9kL1m") {
		t.Errorf("signed in = %q", got)
	}
}
