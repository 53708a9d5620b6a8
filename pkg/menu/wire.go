package menu

// WireElement is the platform-neutral shape of one rendered button.
// Exactly one of URL or Token is set, depending on the element kind.
type WireElement struct {
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
	Token string `json:"token,omitempty"`
}

// WireGrid is the keyboard shape handed to the transport adapter.
// Every row is non-empty.
type WireGrid struct {
	Rows [][]WireElement `json:"rows"`
}

// Format modes carried to the patcher alongside captions.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// PatchOptions accompany a caption edit.
type PatchOptions struct {
	Format   string
	Keyboard *WireGrid
}

// Patcher edits a previously sent message in place. Implemented by the
// transport adapter (pkg/discord); menus stay platform-neutral.
type Patcher interface {
	// EditText rewrites the message body of a plain text message.
	EditText(chatID, messageID, text string, opts PatchOptions) error
	// EditCaption rewrites the caption of a captioned-media message.
	EditCaption(chatID, messageID, caption string, opts PatchOptions) error
}

// Context represents one incoming interaction or refresh request. It
// is built by the transport adapter and is valid for the duration of
// one evaluate/serialize/route sequence.
type Context struct {
	ChatID    string
	MessageID string
	UserID    string
	// Token is the incoming interaction token, if any.
	Token   string
	Patcher Patcher
}
