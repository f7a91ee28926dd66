package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// Focuser moves keyboard focus, normally tview.Application.SetFocus.
type Focuser func(p tview.Primitive)

func newTable(theme *ui.Theme, title string) *tview.Table {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(title)
	table.SetTitleColor(theme.TitleColor)
	return table
}

type column struct {
	text string
	exp  int
}

func setHeader(table *tview.Table, theme *ui.Theme, cols ...column) {
	for i, h := range cols {
		table.SetCell(0, i, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(theme.TableHeaderFg).
			SetBackgroundColor(theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}
}

func textCell(theme *ui.Theme, s string) *tview.TableCell {
	return tview.NewTableCell(" " + tview.Escape(sanitizeForTerminal(s))).SetTextColor(theme.FgColor)
}

// keepSelection clamps the cursor after the row count changed.
func keepSelection(table *tview.Table, rows int) {
	row, _ := table.GetSelection()
	switch {
	case rows == 0:
		table.Select(0, 0)
	case row < 1:
		table.Select(1, 0)
	case row > rows:
		table.Select(rows, 0)
	}
}

// selectedIndex returns the 0-based data index under the cursor, or -1.
func selectedIndex(table *tview.Table, rows int) int {
	row, _ := table.GetSelection()
	idx := row - 1 // account for header
	if idx < 0 || idx >= rows {
		return -1
	}
	return idx
}

func newInput(theme *ui.Theme, label, title string) *tview.InputField {
	input := tview.NewInputField().
		SetLabel(label).
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetTitle(title)
	input.SetTitleColor(theme.TitleColor)
	return input
}
