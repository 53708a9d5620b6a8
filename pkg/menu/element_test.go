package menu

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenAllocationIsDeterministicPerMenu(t *testing.T) {
	m, err := New("settings")
	if err != nil {
		t.Fatalf("unexpected error creating menu: %v", err)
	}
	m.AddAction(Text("A"), nil, nil)
	m.AddAction(Text("B"), nil, nil)

	first := m.static.rows[0][0]
	second := m.static.rows[0][1]
	if first.Token() != "settings.1" || second.Token() != "settings.2" {
		t.Fatalf("expected counter tokens, got %q %q", first.Token(), second.Token())
	}

	// Evaluation must never regenerate a token.
	ctx := &Context{ChatID: "c1"}
	m.Evaluate(ctx, nil)
	m.Evaluate(ctx, nil)
	if first.Token() != "settings.1" {
		t.Fatalf("token changed across evaluations: %q", first.Token())
	}
}

func TestMenuRequiresID(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty menu id")
	}
}

func TestPlaceholderAlwaysHidden(t *testing.T) {
	e := newElement(KindPlaceholder, Label{}, &Requirement{
		Predicate: func(ctx *Context) bool { t.Fatalf("predicate must not run for placeholders"); return true },
	})
	if e.EvaluateRequirement(&Context{}) {
		t.Fatalf("placeholder evaluation must return false")
	}
	if !e.Hidden() {
		t.Fatalf("placeholder must be hidden")
	}
	if _, ok := e.serialize(&Context{}); ok {
		t.Fatalf("placeholder must not serialize")
	}
}

func TestRequirementFlags(t *testing.T) {
	e := newElement(KindAction, Text("X"), &Requirement{
		Predicate:     func(ctx *Context) bool { return false },
		DisableOnFail: true,
		HideOnFail:    true,
	})
	e.token = "m.1"

	if e.EvaluateRequirement(&Context{}) {
		t.Fatalf("expected predicate failure")
	}
	if !e.Disabled() || !e.Hidden() {
		t.Fatalf("expected disabled and hidden, got disabled=%v hidden=%v", e.Disabled(), e.Hidden())
	}
	// Hidden wins over disabled for rendering.
	if _, ok := e.serialize(&Context{}); ok {
		t.Fatalf("hidden element must not serialize even when disabled")
	}
}

func TestDisabledSerializationCarriesLockAndToken(t *testing.T) {
	e := newElement(KindAction, Text("Vault"), &Requirement{
		Predicate:     func(ctx *Context) bool { return false },
		DisableOnFail: true,
	})
	e.token = "m.7"
	e.EvaluateRequirement(&Context{})

	we, ok := e.serialize(&Context{})
	if !ok {
		t.Fatalf("disabled non-hidden element must serialize")
	}
	if !strings.HasSuffix(we.Text, lockedMarker) {
		t.Fatalf("expected locked marker suffix, got %q", we.Text)
	}
	if we.Token != "m.7" || we.URL != "" {
		t.Fatalf("disabled element must carry token and no url, got %+v", we)
	}
}

func TestLazyLabelResolvedPerSerialization(t *testing.T) {
	calls := 0
	e := newElement(KindAction, TextFunc(func(ctx *Context) string {
		calls++
		return ctx.UserID
	}), nil)
	e.token = "m.1"

	ctx := &Context{UserID: "alice"}
	e.EvaluateRequirement(ctx)
	if we, _ := e.serialize(ctx); we.Text != "alice" {
		t.Fatalf("expected computed label, got %q", we.Text)
	}
	ctx.UserID = "bob"
	if we, _ := e.serialize(ctx); we.Text != "bob" {
		t.Fatalf("label must not be cached, got %q", we.Text)
	}
	if calls != 2 {
		t.Fatalf("expected 2 label resolutions, got %d", calls)
	}
}

func TestInvokeSwallowsHandlerFailure(t *testing.T) {
	ran := 0
	e := newElement(KindAction, Text("Boom"), nil)
	e.token = "m.1"
	e.action = func(ctx *Context, api *API) error {
		ran++
		return errors.New("handler exploded")
	}

	// Must not panic or retry.
	e.Invoke(&Context{}, &API{})
	if ran != 1 {
		t.Fatalf("expected exactly one attempt, got %d", ran)
	}
}

func TestInvokeRunsDisabledHandler(t *testing.T) {
	var gotAction, gotDisabled bool
	e := newElement(KindAction, Text("Locked"), &Requirement{
		Predicate:     func(ctx *Context) bool { return false },
		DisableOnFail: true,
		OnDisabled: func(ctx *Context, api *API) error {
			gotDisabled = true
			return nil
		},
	})
	e.token = "m.1"
	e.action = func(ctx *Context, api *API) error {
		gotAction = true
		return nil
	}

	e.Invoke(&Context{}, &API{})
	if gotAction {
		t.Fatalf("action must not run when predicate fails")
	}
	if !gotDisabled {
		t.Fatalf("disabled handler must run for a disabled element")
	}
}

func TestInvokeHiddenOnlyDoesNothing(t *testing.T) {
	e := newElement(KindAction, Text("Ghost"), &Requirement{
		Predicate:  func(ctx *Context) bool { return false },
		HideOnFail: true,
		OnDisabled: func(ctx *Context, api *API) error {
			t.Fatalf("disabled handler must not run when element is only hidden")
			return nil
		},
	})
	e.token = "m.1"
	e.action = func(ctx *Context, api *API) error {
		t.Fatalf("action must not run when predicate fails")
		return nil
	}
	e.Invoke(&Context{}, &API{})
}
