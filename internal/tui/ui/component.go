package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
}

// Component is a page of the TUI.
type Component interface {
	tview.Primitive
	// Name is the page title shown in the breadcrumbs.
	Name() string
	// Focus target when the page is shown.
	Initial() tview.Primitive
	Hints() []MenuHint
}
