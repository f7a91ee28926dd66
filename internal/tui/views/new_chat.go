package views

import (
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// NewChatForm asks for the name and description of a group chat.
type NewChatForm struct {
	*tview.Form
	name        *tview.InputField
	description *tview.InputField
	onSubmit    func(name, description string)
	onCancel    func()
}

// NewNewChatForm creates the form.
func NewNewChatForm(theme *ui.Theme) *NewChatForm {
	f := &NewChatForm{
		Form:        tview.NewForm(),
		name:        tview.NewInputField().SetLabel("Name").SetFieldWidth(40),
		description: tview.NewInputField().SetLabel("Description").SetFieldWidth(40),
	}
	f.SetBorder(true)
	f.SetTitle(" New chat ")
	f.SetTitleColor(theme.TitleColor)
	f.SetBorderColor(theme.PromptBorderColor)
	f.SetBackgroundColor(theme.BgColor)
	f.SetFieldBackgroundColor(theme.BgColor)
	f.SetFieldTextColor(theme.FgColor)
	f.SetLabelColor(theme.MenuKeyColor)
	f.SetButtonBackgroundColor(theme.BorderColor)

	f.AddFormItem(f.name)
	f.AddFormItem(f.description)
	f.AddButton("Create", f.submit)
	f.AddButton("Cancel", f.cancel)
	f.SetCancelFunc(f.cancel)
	return f
}

func (f *NewChatForm) submit() {
	name, desc := f.name.GetText(), f.description.GetText()
	if f.onSubmit != nil {
		f.onSubmit(name, desc)
	}
}

func (f *NewChatForm) cancel() {
	if f.onCancel != nil {
		f.onCancel()
	}
}

// SetOnSubmit sets the callback for Create.
func (f *NewChatForm) SetOnSubmit(fn func(name, description string)) { f.onSubmit = fn }

// SetOnCancel sets the callback for Cancel and Esc.
func (f *NewChatForm) SetOnCancel(fn func()) { f.onCancel = fn }

// Reset clears both fields and focuses the name.
func (f *NewChatForm) Reset() {
	f.name.SetText("")
	f.description.SetText("")
	f.SetFocus(0)
}
