package discord

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/small-frappuccino/menucore/pkg/menu"
)

// recordingPatcher captures the keyboards rendered per chat.
type recordingPatcher struct {
	mu     sync.Mutex
	byChat map[string][]*menu.WireGrid
}

func newRecordingPatcher() *recordingPatcher {
	return &recordingPatcher{byChat: make(map[string][]*menu.WireGrid)}
}

func (p *recordingPatcher) EditText(chatID, messageID, text string, opts menu.PatchOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byChat[chatID] = append(p.byChat[chatID], opts.Keyboard)
	return nil
}

func (p *recordingPatcher) EditCaption(chatID, messageID, caption string, opts menu.PatchOptions) error {
	return p.EditText(chatID, messageID, caption, opts)
}

func (p *recordingPatcher) keyboards(chatID string) []*menu.WireGrid {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byChat[chatID]
}

// buildVisibilityMenu declares a menu whose second button is hidden in
// every chat except "visible-chat". Grid evaluation writes per-render
// flags on shared elements, so keyboards are only trustworthy when
// interactions do not interleave.
func buildVisibilityMenu(t *testing.T) (*menu.Registry, *menu.Menu, *atomic.Bool) {
	t.Helper()

	reg := menu.NewRegistry()
	overlapped := &atomic.Bool{}
	var inflight atomic.Int32

	m, err := menu.New("root")
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}
	m.AddAction(menu.Text("Refresh"), func(ctx *menu.Context, api *menu.API) error {
		if inflight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(time.Millisecond)
		api.Update()
		inflight.Add(-1)
		return nil
	}, nil)
	m.AddAction(menu.Text("Secret"), nil, &menu.Requirement{
		Predicate:  func(ctx *menu.Context) bool { return ctx.ChatID == "visible-chat" },
		HideOnFail: true,
	})
	reg.Directory().Register(m)
	return reg, m, overlapped
}

func TestDispatchSerializesInteractions(t *testing.T) {
	reg, m, overlapped := buildVisibilityMenu(t)
	patcher := newRecordingPatcher()
	router := NewInteractionRouter(nil, reg, nil)

	chats := []string{"visible-chat", "hidden-chat"}
	for _, c := range chats {
		sess := reg.Sessions().Bind(c)
		ctx := &menu.Context{ChatID: c, Patcher: patcher}
		sess.SetContext(ctx)
		sess.SetRendered("root", m.Evaluate(ctx, nil))
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		chat := chats[i%len(chats)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := router.dispatch(&menu.Context{
				ChatID:    chat,
				MessageID: "msg-" + chat,
				Token:     "root.1",
				Patcher:   patcher,
			})
			if !ok {
				t.Errorf("tap in %s must route", chat)
			}
		}()
	}
	wg.Wait()

	if overlapped.Load() {
		t.Fatalf("interaction handlers must not overlap")
	}
}

func TestDispatchKeepsKeyboardsChatScoped(t *testing.T) {
	reg, m, _ := buildVisibilityMenu(t)
	patcher := newRecordingPatcher()
	router := NewInteractionRouter(nil, reg, nil)

	chats := []string{"visible-chat", "hidden-chat"}
	for _, c := range chats {
		sess := reg.Sessions().Bind(c)
		ctx := &menu.Context{ChatID: c, Patcher: patcher}
		sess.SetContext(ctx)
		sess.SetRendered("root", m.Evaluate(ctx, nil))
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		chat := chats[i%len(chats)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			router.dispatch(&menu.Context{
				ChatID:    chat,
				MessageID: "msg-" + chat,
				Token:     "root.1",
				Patcher:   patcher,
			})
		}()
	}
	wg.Wait()

	// Every keyboard rendered for a chat must reflect that chat's own
	// predicate results, never another in-flight chat's.
	for _, kb := range patcher.keyboards("visible-chat") {
		if len(kb.Rows) != 1 || len(kb.Rows[0]) != 2 {
			t.Fatalf("visible-chat keyboard must show both buttons, got %v", kb.Rows)
		}
	}
	for _, kb := range patcher.keyboards("hidden-chat") {
		if len(kb.Rows) != 1 || len(kb.Rows[0]) != 1 {
			t.Fatalf("hidden-chat keyboard must hide the gated button, got %v", kb.Rows)
		}
		if kb.Rows[0][0].Text != "Refresh" {
			t.Fatalf("expected only Refresh for hidden-chat, got %q", kb.Rows[0][0].Text)
		}
	}
	if len(patcher.keyboards("hidden-chat")) == 0 || len(patcher.keyboards("visible-chat")) == 0 {
		t.Fatalf("expected rendered keyboards for both chats")
	}
}

func TestDispatchClearsInteractionContext(t *testing.T) {
	reg, m, _ := buildVisibilityMenu(t)
	patcher := newRecordingPatcher()
	router := NewInteractionRouter(nil, reg, nil)

	sess := reg.Sessions().Bind("visible-chat")
	ctx := &menu.Context{ChatID: "visible-chat", Patcher: patcher}
	sess.SetContext(ctx)
	sess.SetRendered("root", m.Evaluate(ctx, nil))

	router.dispatch(&menu.Context{
		ChatID:    "visible-chat",
		MessageID: "msg-1",
		Token:     "root.1",
		Patcher:   patcher,
	})

	if sess.Context() != nil {
		t.Fatalf("interaction context must be cleared after routing")
	}
	if sess.MessageID() != "msg-1" {
		t.Fatalf("message ref must survive the reset, got %q", sess.MessageID())
	}
	if sess.Rendered("root") == nil {
		t.Fatalf("rendered grid must survive the reset")
	}
}
