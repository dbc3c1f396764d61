package notify

// Message is the content of a match notification.
type Message struct {
	Summary string
	Body    string
	Icon    string
	AppName string
}

// DefaultMessage returns the stock match-found notification.
func DefaultMessage() Message {
	return Message{
		Summary: "Match Found!",
		Body:    "KO Them!",
		Icon:    "steam_icon_1869590",
		AppName: "Omega Strikers Notifier",
	}
}

// Title formats the summary for transports that only carry a title and body.
func (m Message) Title() string {
	if m.AppName == "" {
		return m.Summary
	}
	return m.AppName + ": " + m.Summary
}
