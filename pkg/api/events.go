package api

// TextEvent is an inbound free-text message from a chat user.
type TextEvent struct {
	UserID   int64
	ChatID   int64
	ThreadID int64
	Locale   string
	Text     string
}

// CallbackEvent is an inbound button press. Token is the opaque callback
// token attached to the button that was pressed.
type CallbackEvent struct {
	UserID   int64
	ChatID   int64
	ThreadID int64
	Locale   string
	Token    string
}

// Button is a single inline keyboard button.
type Button struct {
	Label string
	Token string
}

// Keyboard is an inline keyboard: rows of buttons.
type Keyboard [][]Button

// Prompt is what the engine wants shown to the user next: the message text
// and, for choice steps, the inline keyboard to render under it.
type Prompt struct {
	Text     string
	Keyboard Keyboard
}

// DeliveryAction is one outbound message the dispatch layer should send.
type DeliveryAction struct {
	ChatID   int64
	ThreadID int64
	Text     string
	Keyboard Keyboard
}
