package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/small-frappuccino/menucore/pkg/errutil"
	"github.com/small-frappuccino/menucore/pkg/log"
	"github.com/small-frappuccino/menucore/pkg/menu"
	"github.com/small-frappuccino/menucore/pkg/storage"
)

// InteractionRouter bridges Discord component interactions to the menu
// registry. One interaction is processed start-to-finish (bind session
// → set context → route → acknowledge) before the handler returns.
type InteractionRouter struct {
	session  *discordgo.Session
	registry *menu.Registry
	store    *storage.Store

	// mu serializes the set/evaluate/serialize/route sequence across
	// interactions. Grid evaluation writes per-render flags on shared
	// elements, so two chats rendering the same menu concurrently
	// would corrupt each other's keyboards.
	mu sync.Mutex

	// Trigger is the chat command that sends RootMenuID as a fresh
	// message, starting a menu session in that channel.
	Trigger    string
	RootMenuID string
}

// NewInteractionRouter wires a Discord session to a menu registry.
// store may be nil to disable the audit trail.
func NewInteractionRouter(s *discordgo.Session, reg *menu.Registry, store *storage.Store) *InteractionRouter {
	return &InteractionRouter{
		session:  s,
		registry: reg,
		store:    store,
		Trigger:  "!menu",
	}
}

// Attach registers the Discord event handlers.
func (r *InteractionRouter) Attach() {
	r.session.AddHandler(r.handleComponent)
	r.session.AddHandler(r.handleMessage)
}

func (r *InteractionRouter) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	token := i.MessageComponentData().CustomID
	ctx := &menu.Context{
		ChatID:  i.ChannelID,
		UserID:  interactionUserID(i),
		Token:   token,
		Patcher: NewPatcher(s),
	}
	if i.Message != nil {
		ctx.MessageID = i.Message.ID
	}

	menuID, routed := r.dispatch(ctx)

	// Element handlers already patched the message through Render;
	// a deferred update acknowledges the tap without further changes.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Errorf("acknowledge interaction in chat %s: %v", i.ChannelID, err)
	}

	if r.store != nil {
		errutil.HandleStoreError("record_interaction", func() error {
			return r.store.RecordInteraction(storage.InteractionRecord{
				ChatID:    i.ChannelID,
				MenuID:    menuID,
				Token:     token,
				UserID:    ctx.UserID,
				Routed:    routed,
				CreatedAt: time.Now(),
			})
		})
	}
}

// dispatch runs one interaction's bind/set/route sequence under the
// router lock, so it completes before the next interaction's set call
// can touch shared state. The session's interaction context is cleared
// once routing finishes.
func (r *InteractionRouter) dispatch(ctx *menu.Context) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.registry.Sessions().Bind(ctx.ChatID)
	if ctx.MessageID != "" {
		sess.SetMessage(ctx.MessageID)
	}
	sess.SetContext(ctx)
	defer sess.Reset()

	return r.registry.Route(sess, ctx.Token)
}

func (r *InteractionRouter) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if r.RootMenuID == "" || !strings.EqualFold(strings.TrimSpace(m.Content), r.Trigger) {
		return
	}
	if err := r.SendMenu(m.ChannelID, r.RootMenuID, nil); err != nil {
		log.Errorf("send menu %q to chat %s: %v", r.RootMenuID, m.ChannelID, err)
	}
}

// SendMenu posts a menu as a fresh message in chatID and records the
// resulting session state so later taps route and later renders patch
// the same message.
func (r *InteractionRouter) SendMenu(chatID, menuID string, payload any) error {
	m, err := r.registry.Directory().Lookup(menuID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.registry.Sessions().Bind(chatID)
	ctx := &menu.Context{ChatID: chatID, Patcher: NewPatcher(r.session)}
	sess.SetContext(ctx)
	sess.SetPayload(payload)

	grid := m.Evaluate(ctx, payload)
	sess.SetRendered(m.ID(), grid)

	msg, err := r.session.ChannelMessageSendComplex(chatID, &discordgo.MessageSend{
		Content:    m.ResolveCaption(ctx, payload),
		Components: Components(grid.Serialize(ctx)),
	})
	if err != nil {
		return fmt.Errorf("send menu message: %w", err)
	}

	sess.SetMessage(msg.ID)
	sess.SetContentKind(menu.ContentText)
	log.Infof(log.Menu, "menu %q sent to chat %s as message %s", menuID, chatID, msg.ID)
	return nil
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
