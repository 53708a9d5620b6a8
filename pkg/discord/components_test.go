package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/small-frappuccino/menucore/pkg/menu"
)

func TestComponentsMapRowsToActionsRows(t *testing.T) {
	wire := &menu.WireGrid{Rows: [][]menu.WireElement{
		{{Text: "Go", Token: "root.1"}, {Text: "Docs", URL: "https://example.com"}},
		{{Text: "Back", Token: "root.2"}},
	}}

	comps := Components(wire)
	if len(comps) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(comps))
	}

	row, ok := comps[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected ActionsRow, got %T", comps[0])
	}
	if len(row.Components) != 2 {
		t.Fatalf("expected 2 buttons in first row, got %d", len(row.Components))
	}

	go1, ok := row.Components[0].(discordgo.Button)
	if !ok {
		t.Fatalf("expected Button, got %T", row.Components[0])
	}
	if go1.CustomID != "root.1" || go1.URL != "" || go1.Style != discordgo.SecondaryButton {
		t.Fatalf("unexpected action button: %+v", go1)
	}

	docs := row.Components[1].(discordgo.Button)
	if docs.URL != "https://example.com" || docs.CustomID != "" || docs.Style != discordgo.LinkButton {
		t.Fatalf("unexpected link button: %+v", docs)
	}
}

func TestComponentsNilGrid(t *testing.T) {
	if got := Components(nil); got != nil {
		t.Fatalf("expected nil components for nil grid, got %v", got)
	}
}
