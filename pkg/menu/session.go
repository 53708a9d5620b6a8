package menu

import "sync"

// ContentKind distinguishes how the displayed message carries its
// text, which decides the edit call used to patch it.
type ContentKind int

const (
	// ContentText is a plain text message.
	ContentText ContentKind = iota
	// ContentCaption is a captioned-media message.
	ContentCaption
)

func (k ContentKind) String() string {
	if k == ContentCaption {
		return "caption"
	}
	return "text"
}

// Session is the render state for one chat: the active context and
// payload, the message being patched, its content kind, and the grids
// most recently rendered per menu (the routing index). Sessions are
// transient; nothing here survives a restart.
type Session struct {
	mu       sync.Mutex
	chatID   string
	ctx      *Context
	payload  any
	message  string
	kind     ContentKind
	rendered map[string]*Grid
}

func newSession(chatID string) *Session {
	return &Session{chatID: chatID, rendered: make(map[string]*Grid)}
}

// ChatID returns the chat this session belongs to.
func (s *Session) ChatID() string {
	return s.chatID
}

// SetContext installs the context for the current interaction. Valid
// only for the duration of one evaluate/serialize/route sequence.
func (s *Session) SetContext(ctx *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = ctx
}

// Context returns the active context, or nil outside an interaction.
func (s *Session) Context() *Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// SetPayload replaces the active navigation payload.
func (s *Session) SetPayload(payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
}

// Payload returns the active navigation payload.
func (s *Session) Payload() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

// SetMessage records the message the menus patch in this chat.
func (s *Session) SetMessage(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = messageID
}

// MessageID returns the patched message's id, or "" before the first
// send.
func (s *Session) MessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// SetContentKind records how the displayed message carries its text.
func (s *Session) SetContentKind(kind ContentKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kind = kind
}

// ContentKind returns the recorded content kind.
func (s *Session) ContentKind() ContentKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// SetRendered records the grid produced by a menu's latest evaluation
// pass. Routing scans these grids, so the transport adapter must call
// this (or Render, which does) after sending a fresh keyboard.
func (s *Session) SetRendered(menuID string, g *Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rendered[menuID] = g
}

// Rendered returns the grid last rendered for menuID in this session,
// or nil if that menu has not been rendered here.
func (s *Session) Rendered(menuID string) *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered[menuID]
}

// Reset clears the interaction-scoped context once routing completes.
// The payload and rendered grids persist: the payload stays active
// until the next navigation replaces it, and stale taps on an old
// keyboard still route.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = nil
}

// Sessions keys render state by chat id. Splitting this store from the
// menu directory keeps short-lived render state out of the long-lived,
// append-only menu registry.
type Sessions struct {
	mu     sync.Mutex
	byChat map[string]*Session
}

// NewSessions returns an empty session store.
func NewSessions() *Sessions {
	return &Sessions{byChat: make(map[string]*Session)}
}

// Bind returns the chat's session, creating it on first use.
func (s *Sessions) Bind(chatID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byChat[chatID]
	if !ok {
		sess = newSession(chatID)
		s.byChat[chatID] = sess
	}
	return sess
}
