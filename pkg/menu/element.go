package menu

import (
	"fmt"
	"sync/atomic"

	"github.com/small-frappuccino/menucore/pkg/errutil"
)

// Kind discriminates the element variants. The zero value is invalid;
// elements are always constructed through the builder methods, which
// supply the kind.
type Kind int

const (
	// KindAction is a tappable button routed back through its token.
	KindAction Kind = iota + 1
	// KindLink opens an external URL.
	KindLink
	// KindWebApp opens an embedded application URL.
	KindWebApp
	// KindPlaceholder marks a dynamic slot position. Never rendered.
	KindPlaceholder
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindLink:
		return "link"
	case KindWebApp:
		return "webapp"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "invalid"
	}
}

// Handler runs when an element is tapped. Failures are logged and
// swallowed by the routing pass; they never reach the caller.
type Handler func(ctx *Context, api *API) error

// Predicate gates an element's visibility/enablement for one render.
type Predicate func(ctx *Context) bool

// Requirement configures how a failing predicate affects an element.
// A nil Predicate always passes.
type Requirement struct {
	Predicate     Predicate
	DisableOnFail bool
	HideOnFail    bool
	// OnDisabled runs instead of the action when the element is tapped
	// while disabled.
	OnDisabled Handler
}

// Label is either a literal or a function resolved at serialization
// time. Resolved labels are never cached.
type Label struct {
	text string
	fn   func(ctx *Context) string
}

// Text returns a literal label.
func Text(s string) Label { return Label{text: s} }

// TextFunc returns a label computed against the render context.
func TextFunc(fn func(ctx *Context) string) Label { return Label{fn: fn} }

func (l Label) resolve(ctx *Context) string {
	if l.fn != nil {
		return l.fn(ctx)
	}
	return l.text
}

// lockedMarker is appended to the label of a disabled element.
const lockedMarker = "🔒"

// Element is one interactive cell of a grid. The disabled/hidden flags
// are transient per-render state, recomputed by EvaluateRequirement on
// every pass.
type Element struct {
	kind   Kind
	label  Label
	url    string
	action Handler
	req    Requirement

	// token is the wire callback identifier for action elements,
	// allocated once by the owning menu and never regenerated.
	token string

	// slot links a placeholder element to its dynamic generator.
	slot int

	disabled bool
	hidden   bool
}

func newElement(kind Kind, label Label, req *Requirement) *Element {
	if kind == 0 {
		panic("menu: element constructed without a kind")
	}
	e := &Element{kind: kind, label: label}
	if req != nil {
		e.req = *req
	}
	return e
}

// Kind reports the element variant.
func (e *Element) Kind() Kind { return e.kind }

// Token reports the stable callback identifier. Empty for non-action
// elements.
func (e *Element) Token() string { return e.token }

// Disabled reports the flag computed by the last evaluation pass.
func (e *Element) Disabled() bool { return e.disabled }

// Hidden reports the flag computed by the last evaluation pass.
func (e *Element) Hidden() bool { return e.hidden }

// ResolveLabel resolves the literal or computed label. Pure; a panic
// inside a label function is a caller bug and is not recovered.
func (e *Element) ResolveLabel(ctx *Context) string {
	return e.label.resolve(ctx)
}

// EvaluateRequirement recomputes the disabled/hidden flags against ctx
// and returns the raw predicate result. Placeholders are always hidden
// and never invoke the predicate.
func (e *Element) EvaluateRequirement(ctx *Context) bool {
	if e.kind == KindPlaceholder {
		e.hidden = true
		return false
	}
	ok := true
	if e.req.Predicate != nil {
		ok = e.req.Predicate(ctx)
	}
	e.disabled = e.req.DisableOnFail && !ok
	e.hidden = e.req.HideOnFail && !ok
	return ok
}

// Invoke re-evaluates the requirement and runs the action (or the
// disabled handler). Handler failures are logged and swallowed: a
// misbehaving handler never breaks the routing pass, and there is no
// retry.
func (e *Element) Invoke(ctx *Context, api *API) {
	if e.EvaluateRequirement(ctx) {
		if e.action != nil {
			errutil.HandleHandlerError("element_action", e.token, func() error {
				return e.action(ctx, api)
			})
		}
		return
	}
	if e.disabled && e.req.OnDisabled != nil {
		errutil.HandleHandlerError("disabled_handler", e.token, func() error {
			return e.req.OnDisabled(ctx, api)
		})
	}
}

// fallbackToken covers the degenerate case of serializing a disabled
// element that never got a token from its menu.
var fallbackToken atomic.Int64

// serialize produces the wire shape for one element, or ok=false when
// the element emits nothing (hidden, or a placeholder).
func (e *Element) serialize(ctx *Context) (WireElement, bool) {
	if e.kind == KindPlaceholder || e.hidden {
		return WireElement{}, false
	}
	text := e.label.resolve(ctx)
	if e.disabled {
		if e.token == "" {
			e.token = fmt.Sprintf("locked.%d", fallbackToken.Add(1))
		}
		return WireElement{Text: text + " " + lockedMarker, Token: e.token}, true
	}
	switch e.kind {
	case KindLink, KindWebApp:
		return WireElement{Text: text, URL: e.url}, true
	default:
		return WireElement{Text: text, Token: e.token}, true
	}
}
