package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/small-frappuccino/menucore/pkg/menu"
)

// Components converts a wire grid into Discord message components:
// one ActionsRow per wire row, URL elements as link buttons, token
// elements as secondary buttons carrying the token as CustomID.
// Disabled elements keep their token (the tap routes to the disabled
// handler), so the Discord-level Disabled flag stays false.
func Components(g *menu.WireGrid) []discordgo.MessageComponent {
	if g == nil {
		return nil
	}
	rows := make([]discordgo.MessageComponent, 0, len(g.Rows))
	for _, row := range g.Rows {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, el := range row {
			buttons = append(buttons, button(el))
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

func button(el menu.WireElement) discordgo.Button {
	if el.URL != "" {
		return discordgo.Button{
			Label: el.Text,
			Style: discordgo.LinkButton,
			URL:   el.URL,
		}
	}
	return discordgo.Button{
		Label:    el.Text,
		Style:    discordgo.SecondaryButton,
		CustomID: el.Token,
	}
}
