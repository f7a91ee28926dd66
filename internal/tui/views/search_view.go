package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// SearchView finds other profiles by name as the term is typed.
type SearchView struct {
	*tview.Flex
	theme     *ui.Theme
	input     *tview.InputField
	results   *tview.Table
	data      []controller.SearchResult
	focus     Focuser
	syncing   bool
	onChange  func(term string)
	onRequest func(key string)
}

// NewSearchView creates a new search view.
func NewSearchView(theme *ui.Theme, focus Focuser) *SearchView {
	sv := &SearchView{
		theme:   theme,
		input:   newInput(theme, " Name: ", " Find people "),
		results: newTable(theme, " Results "),
		focus:   focus,
	}
	sv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(sv.input, 3, 0, true).
		AddItem(sv.results, 0, 1, false)

	sv.input.SetChangedFunc(func(text string) {
		if !sv.syncing && sv.onChange != nil {
			sv.onChange(text)
		}
	})
	sv.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter, tcell.KeyTab, tcell.KeyDown:
			if len(sv.data) > 0 {
				sv.focus(sv.results)
			}
		}
	})
	sv.results.SetSelectedFunc(func(_, _ int) {
		if r, ok := sv.Selected(); ok && sv.onRequest != nil && !r.Friend && !r.Pending {
			sv.onRequest(r.Key)
		}
	})
	sv.results.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyTab {
			sv.focus(sv.input)
		}
	})
	return sv
}

// Name implements Component.
func (sv *SearchView) Name() string { return "Search" }

// Initial implements Component.
func (sv *SearchView) Initial() tview.Primitive { return sv.input }

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Send request"},
		{Key: "Tab", Description: "Results/Input"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnChange sets the callback for every edit of the search term.
func (sv *SearchView) SetOnChange(fn func(term string)) { sv.onChange = fn }

// SetOnRequest sets the callback when a result is chosen.
func (sv *SearchView) SetOnRequest(fn func(key string)) { sv.onRequest = fn }

// Update shows results for term.
func (sv *SearchView) Update(term string, results []controller.SearchResult) {
	if sv.input.GetText() != term {
		sv.syncing = true
		sv.input.SetText(term)
		sv.syncing = false
	}
	sv.data = results
	sv.results.Clear()
	setHeader(sv.results, sv.theme, column{" NAME", 1}, column{" KEY", 0}, column{" STATUS", 0})
	for i, r := range results {
		sv.results.SetCell(i+1, 0, textCell(sv.theme, r.Username).SetExpansion(1))
		sv.results.SetCell(i+1, 1, textCell(sv.theme, r.Key))
		sv.results.SetCell(i+1, 2, textCell(sv.theme, status(r)))
	}
	keepSelection(sv.results, len(results))
	if term == "" {
		sv.results.SetTitle(" Results ")
	} else {
		sv.results.SetTitle(fmt.Sprintf(" Results (%d) ", len(results)))
	}
}

func status(r controller.SearchResult) string {
	switch {
	case r.Friend:
		return "friend"
	case r.Pending:
		return "pending"
	}
	return "-"
}

// Selected returns the result under the cursor.
func (sv *SearchView) Selected() (controller.SearchResult, bool) {
	if idx := selectedIndex(sv.results, len(sv.data)); idx >= 0 {
		return sv.data[idx], true
	}
	return controller.SearchResult{}, false
}

// Input returns the search input field.
func (sv *SearchView) Input() *tview.InputField { return sv.input }

// Results returns the results table.
func (sv *SearchView) Results() *tview.Table { return sv.results }
