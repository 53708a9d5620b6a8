package menu

import (
	"fmt"

	"github.com/small-frappuccino/menucore/pkg/log"
)

// Generator produces dynamic content for one slot. It is re-invoked on
// every render; nothing it produces is cached. The Range writes into a
// transient grid, never into the menu's static layout.
type Generator func(ctx *Context, r *Range, payload any)

type dynamicSlot struct {
	id  int
	gen Generator
}

// Caption is the message text shown above a menu's keyboard, either a
// literal or a function of the render context and active payload.
type Caption struct {
	text string
	fn   func(ctx *Context, payload any) string
}

// CaptionText returns a literal caption.
func CaptionText(s string) Caption { return Caption{text: s} }

// CaptionFunc returns a caption computed per render.
func CaptionFunc(fn func(ctx *Context, payload any) string) Caption {
	return Caption{fn: fn}
}

func (c Caption) resolve(ctx *Context, payload any) string {
	if c.fn != nil {
		return c.fn(ctx, payload)
	}
	return c.text
}

// Menu is a named, navigable screen: a static grid built once at
// declaration time, a caption, and zero or more dynamic slots spliced
// in at render time. Menus live for the process lifetime.
type Menu struct {
	id       string
	parentID string
	caption  Caption
	format   string

	static   *Grid
	dynamics []dynamicSlot

	nextToken int
	nextSlot  int
}

// New creates an empty menu. The id must be non-empty; it is the
// menu's key in the directory and the prefix of its element tokens.
func New(id string) (*Menu, error) {
	if id == "" {
		return nil, fmt.Errorf("menu: id must not be empty")
	}
	return &Menu{
		id:     id,
		format: FormatMarkdown,
		static: NewGrid(),
	}, nil
}

// ID returns the menu's directory key.
func (m *Menu) ID() string { return m.id }

// ParentID returns the id of the menu that registered this one as a
// submenu, or "" for roots.
func (m *Menu) ParentID() string { return m.parentID }

// allocToken hands out deterministic tokens from a per-menu counter.
// Tokens are unique within a process because menu ids are unique and
// the counter only grows.
func (m *Menu) allocToken() string {
	m.nextToken++
	return fmt.Sprintf("%s.%d", m.id, m.nextToken)
}

// SetCaption sets the menu caption. An empty format keeps the current
// format mode.
func (m *Menu) SetCaption(c Caption, format string) *Menu {
	m.caption = c
	if format != "" {
		m.format = format
	}
	return m
}

// AddAction appends a tappable button to the current row. A nil req
// means always enabled and visible.
func (m *Menu) AddAction(label Label, action Handler, req *Requirement) *Menu {
	e := newElement(KindAction, label, req)
	e.action = action
	e.token = m.allocToken()
	m.static.Append(e)
	return m
}

// AddLink appends a button opening an external URL.
func (m *Menu) AddLink(label Label, url string, req *Requirement) *Menu {
	e := newElement(KindLink, label, req)
	e.url = url
	m.static.Append(e)
	return m
}

// AddWebApp appends a button opening an embedded application.
func (m *Menu) AddWebApp(label Label, url string, req *Requirement) *Menu {
	e := newElement(KindWebApp, label, req)
	e.url = url
	m.static.Append(e)
	return m
}

// NewRow starts a new static row.
func (m *Menu) NewRow() *Menu {
	m.static.NewRow()
	return m
}

// AddSubmenu appends an action navigating to targetID. The payload may
// be a literal or a func(*Context, *API) any resolved at tap time.
func (m *Menu) AddSubmenu(label Label, targetID string, payload any) *Menu {
	return m.AddAction(label, func(ctx *Context, api *API) error {
		return api.Navigate(targetID, resolvePayload(ctx, api, payload))
	}, nil)
}

// AddBack appends an action navigating to targetID, defaulting to this
// menu's parent when targetID is empty.
func (m *Menu) AddBack(label Label, targetID string, payload any) *Menu {
	return m.AddAction(label, func(ctx *Context, api *API) error {
		return api.Back(targetID, resolvePayload(ctx, api, payload))
	}, nil)
}

func resolvePayload(ctx *Context, api *API, payload any) any {
	if fn, ok := payload.(func(*Context, *API) any); ok {
		return fn(ctx, api)
	}
	return payload
}

// RegisterDynamic declares a dynamic slot. The placeholder appended
// here pins the exact position where the generator's output will be
// spliced into the layout on every render.
func (m *Menu) RegisterDynamic(gen Generator) *Menu {
	m.nextSlot++
	slot := m.nextSlot
	m.dynamics = append(m.dynamics, dynamicSlot{id: slot, gen: gen})
	e := newElement(KindPlaceholder, Label{}, nil)
	e.slot = slot
	m.static.Append(e)
	return m
}

// Range is the scoped builder handed to a dynamic generator. It shares
// the top-level builder vocabulary but writes into a transient grid,
// so generator code cannot touch the static layout. Tokens still come
// from the owning menu's counter.
type Range struct {
	grid *Grid
	menu *Menu
}

// AddAction appends a tappable button to the transient grid.
func (r *Range) AddAction(label Label, action Handler, req *Requirement) *Range {
	e := newElement(KindAction, label, req)
	e.action = action
	e.token = r.menu.allocToken()
	r.grid.Append(e)
	return r
}

// AddLink appends a URL button to the transient grid.
func (r *Range) AddLink(label Label, url string, req *Requirement) *Range {
	e := newElement(KindLink, label, req)
	e.url = url
	r.grid.Append(e)
	return r
}

// AddWebApp appends an embedded-app button to the transient grid.
func (r *Range) AddWebApp(label Label, url string, req *Requirement) *Range {
	e := newElement(KindWebApp, label, req)
	e.url = url
	r.grid.Append(e)
	return r
}

// AddSubmenu appends a navigation button to the transient grid.
func (r *Range) AddSubmenu(label Label, targetID string, payload any) *Range {
	return r.AddAction(label, func(ctx *Context, api *API) error {
		return api.Navigate(targetID, resolvePayload(ctx, api, payload))
	}, nil)
}

// NewRow starts a new row in the transient grid. The row break is
// preserved through splicing.
func (r *Range) NewRow() *Range {
	r.grid.NewRow()
	return r
}

// ResolveCaption resolves the menu caption against the render context
// and active payload.
func (m *Menu) ResolveCaption(ctx *Context, payload any) string {
	return m.caption.resolve(ctx, payload)
}

// Format returns the caption's markup mode tag.
func (m *Menu) Format() string { return m.format }

// Evaluate runs the render pipeline: invoke every generator against a
// fresh transient grid, splice each result into the placeholder's
// position (keeping both the outer row breaks and the generator's own
// internal row breaks), then evaluate every element's requirement.
// The merged grid is the menu's rendered grid for this pass.
func (m *Menu) Evaluate(ctx *Context, payload any) *Grid {
	subs := make(map[int]*Grid, len(m.dynamics))
	for _, d := range m.dynamics {
		tg := NewGrid()
		d.gen(ctx, &Range{grid: tg, menu: m}, payload)
		subs[d.id] = tg
	}

	merged := NewGrid()
	for ri, row := range m.static.rows {
		if ri > 0 {
			merged.NewRow()
		}
		for _, e := range row {
			if e.kind != KindPlaceholder {
				merged.Append(e)
				continue
			}
			sub, ok := subs[e.slot]
			if !ok {
				continue
			}
			for si, srow := range sub.rows {
				if si > 0 {
					merged.NewRow()
				}
				for _, se := range srow {
					merged.Append(se)
				}
			}
		}
	}

	merged.EvaluateAll(ctx)
	return merged
}

// Render re-evaluates the menu against the session's context and
// payload and patches the previously sent message. The edit is first
// attempted under the session's recorded content kind; on failure the
// other kind is tried, since a plain text message rejects caption
// edits and vice versa. Both failing is logged and swallowed: a failed
// refresh must not abort interaction processing.
func (m *Menu) Render(sess *Session) {
	ctx := sess.Context()
	if ctx == nil {
		log.Errorf("render %s: no active context on session %s", m.id, sess.ChatID())
		return
	}

	grid := m.Evaluate(ctx, sess.Payload())
	sess.SetRendered(m.id, grid)

	if ctx.Patcher == nil || sess.MessageID() == "" {
		log.Infof(log.Menu, "render %s: no message to patch in chat %s", m.id, sess.ChatID())
		return
	}

	caption := m.ResolveCaption(ctx, sess.Payload())
	opts := PatchOptions{Format: m.format, Keyboard: grid.Serialize(ctx)}

	primary, fallback := ContentText, ContentCaption
	if sess.ContentKind() == ContentCaption {
		primary, fallback = ContentCaption, ContentText
	}

	primaryErr := m.patch(ctx, sess, primary, caption, opts)
	if primaryErr == nil {
		return
	}
	log.Infof(log.Menu, "render %s: %s edit failed for chat %s message %s, trying %s: %v",
		m.id, primary, sess.ChatID(), sess.MessageID(), fallback, primaryErr)
	if err := m.patch(ctx, sess, fallback, caption, opts); err != nil {
		log.Errorf("render %s: both edit attempts failed for chat %s message %s: %v",
			m.id, sess.ChatID(), sess.MessageID(), err)
		return
	}
	sess.SetContentKind(fallback)
}

func (m *Menu) patch(ctx *Context, sess *Session, kind ContentKind, caption string, opts PatchOptions) error {
	if kind == ContentCaption {
		return ctx.Patcher.EditCaption(sess.ChatID(), sess.MessageID(), caption, opts)
	}
	return ctx.Patcher.EditText(sess.ChatID(), sess.MessageID(), caption, opts)
}
