package menu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/small-frappuccino/menucore/pkg/log"
)

// ErrMenuNotFound is returned when navigation targets an id that was
// never registered.
var ErrMenuNotFound = errors.New("menu not found")

// Directory is the long-lived, append-only index of declared menus.
// The first registration under an id wins; later attempts for the
// same id are silently ignored, so callers must not rely on
// re-registration replacing a definition.
type Directory struct {
	mu    sync.RWMutex
	menus map[string]*Menu
	order []*Menu
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{menus: make(map[string]*Menu)}
}

// Register adds a root menu. Returns false when the id was already
// taken (the existing definition is kept).
func (d *Directory) Register(m *Menu) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.menus[m.id]; exists {
		log.Infof(log.Menu, "menu %q already registered, keeping first definition", m.id)
		return false
	}
	d.menus[m.id] = m
	d.order = append(d.order, m)
	return true
}

// RegisterSub adds child under parent, recording the parent id used by
// back navigation. First-write-wins applies as in Register.
func (d *Directory) RegisterSub(parent, child *Menu) bool {
	child.parentID = parent.id
	return d.Register(child)
}

// Lookup resolves a menu id, returning ErrMenuNotFound for unknown ids.
func (d *Directory) Lookup(id string) (*Menu, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.menus[id]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", id, ErrMenuNotFound)
	}
	return m, nil
}

// snapshot returns menus in registration order for the routing scan.
func (d *Directory) snapshot() []*Menu {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Menu, len(d.order))
	copy(out, d.order)
	return out
}

// Registry composes the menu directory with the per-chat session
// store. It holds no render state of its own.
type Registry struct {
	dir      *Directory
	sessions *Sessions
}

// NewRegistry returns a registry with an empty directory and session
// store.
func NewRegistry() *Registry {
	return &Registry{dir: NewDirectory(), sessions: NewSessions()}
}

// Directory exposes the menu index.
func (r *Registry) Directory() *Directory { return r.dir }

// Sessions exposes the per-chat session store.
func (r *Registry) Sessions() *Sessions { return r.sessions }

// Navigate renders the target menu into the session, replacing the
// active payload. Unknown targets fail with ErrMenuNotFound.
func (r *Registry) Navigate(sess *Session, targetID string, payload any) error {
	target, err := r.dir.Lookup(targetID)
	if err != nil {
		return err
	}
	sess.SetPayload(payload)
	target.Render(sess)
	return nil
}

// Route finds the element whose token matches across every menu's
// most recently rendered grid in this session — menus in registration
// order, rows top-to-bottom, columns left-to-right — and invokes it
// with an API bound to the menu that owns it. One handler can thus
// serve buttons belonging to several composed menus. Unroutable
// tokens are logged and ignored. Returns the owning menu's id when a
// match was invoked.
func (r *Registry) Route(sess *Session, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, m := range r.dir.snapshot() {
		grid := sess.Rendered(m.id)
		if grid == nil {
			continue
		}
		e := grid.find(token)
		if e == nil {
			continue
		}
		api := &API{menu: m, sess: sess, reg: r}
		e.Invoke(sess.Context(), api)
		return m.id, true
	}
	log.Infof(log.Menu, "unroutable interaction token %q in chat %s", token, sess.ChatID())
	return "", false
}

// API is handed to element handlers, bound to the menu that owns the
// tapped element.
type API struct {
	menu *Menu
	sess *Session
	reg  *Registry
}

// Menu returns the owning menu.
func (a *API) Menu() *Menu { return a.menu }

// Update re-renders the owning menu in place.
func (a *API) Update() {
	a.menu.Render(a.sess)
}

// Navigate renders another menu into this chat, replacing the payload.
func (a *API) Navigate(targetID string, payload any) error {
	return a.reg.Navigate(a.sess, targetID, payload)
}

// Back navigates to targetID, defaulting to the owning menu's parent
// when targetID is empty. A root menu without a parent cannot go back.
func (a *API) Back(targetID string, payload any) error {
	if targetID == "" {
		targetID = a.menu.parentID
	}
	if targetID == "" {
		return fmt.Errorf("back from %q: %w", a.menu.id, ErrMenuNotFound)
	}
	return a.reg.Navigate(a.sess, targetID, payload)
}

// Payload reads the session's active payload.
func (a *API) Payload() any {
	return a.sess.Payload()
}
