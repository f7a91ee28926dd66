package ui

import "github.com/rivo/tview"

// Pages wraps tview.Pages with one visible base page plus a stack of
// overlays (prompts, alerts, help) drawn on top of it.
type Pages struct {
	*tview.Pages
	current  string
	overlays []string
	onChange func(top string)
}

// NewPages creates a new page manager.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the top page changes.
func (p *Pages) SetOnChange(fn func(top string)) {
	p.onChange = fn
}

// Show replaces the base page. Open overlays stay in front.
func (p *Pages) Show(name string) {
	if p.current == name {
		return
	}
	if p.current != "" {
		p.HidePage(p.current)
	}
	p.current = name
	p.ShowPage(name)
	p.SendToBack(name)
	p.notify()
}

// Overlay shows name on top of everything else.
func (p *Pages) Overlay(name string) {
	for i, o := range p.overlays {
		if o == name {
			p.overlays = append(p.overlays[:i], p.overlays[i+1:]...)
			break
		}
	}
	p.overlays = append(p.overlays, name)
	p.ShowPage(name)
	p.SendToFront(name)
	p.notify()
}

// Dismiss hides the topmost overlay and returns its name, or "" if none is
// open.
func (p *Pages) Dismiss() string {
	if len(p.overlays) == 0 {
		return ""
	}
	top := p.overlays[len(p.overlays)-1]
	p.overlays = p.overlays[:len(p.overlays)-1]
	p.HidePage(top)
	p.notify()
	return top
}

// Current returns the base page name.
func (p *Pages) Current() string {
	return p.current
}

// Top returns the page receiving input: the newest overlay, else the base
// page.
func (p *Pages) Top() string {
	if n := len(p.overlays); n > 0 {
		return p.overlays[n-1]
	}
	return p.current
}

// HasOverlay reports whether any overlay is open.
func (p *Pages) HasOverlay() bool {
	return len(p.overlays) > 0
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Top())
	}
}
