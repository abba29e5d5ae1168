package models

// Sender identifies who authored a transcript message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single rendered chat bubble
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// UserMessage builds a message authored by the user
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// BotMessage builds a message authored by the assistant
func BotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// IsBot reports whether the message was authored by the assistant
func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}
