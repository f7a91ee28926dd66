package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/matheus3301/localchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays messages and a composer for a single chat.
type MessageThread struct {
	*tview.Flex
	theme       *ui.Theme
	messages    *tview.TextView
	typingLine  *tview.TextView
	composer    *tview.InputField
	chatID      model.ChatID
	chatName    string
	typing      []string
	clearing    bool
	onSend      func(text string)
	onKeystroke func()
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	typingLine := tview.NewTextView().
		SetDynamicColors(true)
	typingLine.SetBackgroundColor(theme.BgColor)
	typingLine.SetTextColor(theme.TypingColor)

	composer := newInput(theme, " > ", " Compose ")

	mt := &MessageThread{
		theme:      theme,
		messages:   messages,
		typingLine: typingLine,
		composer:   composer,
	}
	mt.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, false).
		AddItem(typingLine, 1, 0, false).
		AddItem(composer, 3, 0, true)

	composer.SetChangedFunc(mt.changed)
	composer.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := composer.GetText()
		if strings.TrimSpace(text) == "" {
			return
		}
		mt.clearing = true
		composer.SetText("")
		mt.clearing = false
		if mt.onSend != nil {
			mt.onSend(text)
		}
	})

	return mt
}

func (mt *MessageThread) changed(text string) {
	if mt.clearing || text == "" || mt.onKeystroke == nil {
		return
	}
	mt.onKeystroke()
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// Initial implements Component.
func (mt *MessageThread) Initial() tview.Primitive { return mt.composer }

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Send"},
		{Key: "i", Description: "Compose"},
		{Key: "a", Description: "Attach"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSend sets the callback when a message is sent.
func (mt *MessageThread) SetOnSend(fn func(text string)) { mt.onSend = fn }

// SetOnKeystroke sets the callback fired for every edit of the composer.
func (mt *MessageThread) SetOnKeystroke(fn func()) { mt.onKeystroke = fn }

// ChatID returns the chat on screen.
func (mt *MessageThread) ChatID() model.ChatID { return mt.chatID }

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView { return mt.messages }

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField { return mt.composer }

// Update redraws the thread. Switching to another chat clears the composer
// and the typing indicator.
func (mt *MessageThread) Update(v controller.ConversationView) {
	if v.ChatID != mt.chatID {
		mt.chatID = v.ChatID
		mt.typing = nil
		mt.clearing = true
		mt.composer.SetText("")
		mt.clearing = false
		mt.renderTyping()
	}
	mt.chatName = v.Name

	title := " " + tview.Escape(sanitizeForTerminal(v.Name)) + " "
	if v.Description != "" {
		title = fmt.Sprintf(" %s · %s ", tview.Escape(sanitizeForTerminal(v.Name)), tview.Escape(sanitizeForTerminal(v.Description)))
	}
	mt.messages.SetTitle(title)

	mt.messages.Clear()
	_, _ = fmt.Fprint(mt.messages, mt.render(v))
	mt.messages.ScrollToEnd()
}

func (mt *MessageThread) render(v controller.ConversationView) string {
	var sb strings.Builder
	if v.Hidden > 0 {
		fmt.Fprintf(&sb, "[::d]%d earlier messages not shown[-:-:-]\n\n", v.Hidden)
	}
	if len(v.Messages) == 0 {
		sb.WriteString("[::d]No messages yet[-:-:-]")
		return sb.String()
	}

	mine := ui.ColorName(mt.theme.MineColor)
	peer := ui.ColorName(mt.theme.PeerColor)
	for _, m := range v.Messages {
		sender, color := m.Author, peer
		if m.Mine {
			sender, color = "You", mine
		}
		fmt.Fprintf(&sb, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
			color, tview.Escape(sanitizeForTerminal(sender)), m.Time, body(m))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func body(m controller.DisplayMessage) string {
	name := tview.Escape(sanitizeForTerminal(m.FileName))
	switch m.Type {
	case model.MessageImage:
		return "[::i]image: " + name + "[-:-:-]"
	case model.MessageVideo:
		return "[::i]video: " + name + "[-:-:-]"
	case model.MessageFile:
		return "[::i]file: " + name + "[-:-:-]"
	}
	return tview.Escape(sanitizeForTerminal(m.Text))
}

// SetTyping adds or removes who from the typing indicator of chatID.
func (mt *MessageThread) SetTyping(chatID model.ChatID, who string, typing bool) {
	if chatID != mt.chatID {
		return
	}
	idx := slices.Index(mt.typing, who)
	switch {
	case typing && idx < 0:
		mt.typing = append(mt.typing, who)
	case !typing && idx >= 0:
		mt.typing = slices.Delete(mt.typing, idx, idx+1)
	}
	mt.renderTyping()
}

// TypingText returns the indicator line as shown.
func (mt *MessageThread) TypingText() string {
	switch len(mt.typing) {
	case 0:
		return ""
	case 1:
		return mt.typing[0] + " is typing..."
	default:
		return strings.Join(mt.typing, ", ") + " are typing..."
	}
}

func (mt *MessageThread) renderTyping() {
	mt.typingLine.Clear()
	if text := mt.TypingText(); text != "" {
		_, _ = fmt.Fprint(mt.typingLine, " [::i]"+tview.Escape(sanitizeForTerminal(text))+"[-:-:-]")
	}
}
