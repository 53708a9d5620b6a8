package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/small-frappuccino/menucore/pkg/menu"
)

// Patcher implements menu.Patcher on top of a Discord session. Plain
// text menus live in the message content; captioned menus live in an
// embed description. A message of one shape rejects edits of the
// other, which is what the menu render fallback recovers from.
type Patcher struct {
	session *discordgo.Session
}

// NewPatcher wraps a Discord session.
func NewPatcher(s *discordgo.Session) *Patcher {
	return &Patcher{session: s}
}

// EditText rewrites the content of a plain text menu message.
func (p *Patcher) EditText(chatID, messageID, text string, opts menu.PatchOptions) error {
	msg, err := p.session.ChannelMessage(chatID, messageID)
	if err != nil {
		return fmt.Errorf("fetch message: %w", err)
	}
	if len(msg.Embeds) > 0 {
		return fmt.Errorf("message %s carries an embed caption, refusing text edit", messageID)
	}
	comps := Components(opts.Keyboard)
	_, err = p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    chatID,
		ID:         messageID,
		Content:    &text,
		Components: &comps,
	})
	return err
}

// EditCaption rewrites the embed caption of a captioned menu message.
func (p *Patcher) EditCaption(chatID, messageID, caption string, opts menu.PatchOptions) error {
	msg, err := p.session.ChannelMessage(chatID, messageID)
	if err != nil {
		return fmt.Errorf("fetch message: %w", err)
	}
	if len(msg.Embeds) == 0 {
		return fmt.Errorf("message %s has no embed, refusing caption edit", messageID)
	}
	embed := *msg.Embeds[0]
	embed.Description = caption
	comps := Components(opts.Keyboard)
	empty := ""
	_, err = p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    chatID,
		ID:         messageID,
		Content:    &empty,
		Embeds:     &[]*discordgo.MessageEmbed{&embed},
		Components: &comps,
	})
	return err
}
