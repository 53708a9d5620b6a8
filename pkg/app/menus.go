package app

import (
	"fmt"

	"github.com/small-frappuccino/menucore/pkg/files"
	"github.com/small-frappuccino/menucore/pkg/log"
	"github.com/small-frappuccino/menucore/pkg/menu"
	"github.com/small-frappuccino/menucore/pkg/storage"
)

const (
	rootMenuID     = "root"
	activityMenuID = "activity"
)

// buildMenus declares the menu tree served by the bot: a root screen
// with a couple of static buttons and an activity screen whose body is
// generated per render from the interaction audit trail.
func buildMenus(store *storage.Store, cfg files.AppConfig) (*menu.Registry, error) {
	registry := menu.NewRegistry()

	root, err := menu.New(rootMenuID)
	if err != nil {
		return nil, err
	}
	root.SetCaption(menu.CaptionText("**Main menu**"), cfg.FormatMode)
	root.AddAction(menu.Text("Ping"), func(ctx *menu.Context, api *menu.API) error {
		log.Infof(log.Menu, "ping from user %s in chat %s", ctx.UserID, ctx.ChatID)
		api.Update()
		return nil
	}, nil)
	root.AddSubmenu(menu.Text("Activity"), activityMenuID, nil)
	root.NewRow()
	root.AddLink(menu.Text("Project page"), "https://github.com/small-frappuccino/menucore", nil)

	activity, err := menu.New(activityMenuID)
	if err != nil {
		return nil, err
	}
	activity.SetCaption(menu.CaptionFunc(func(ctx *menu.Context, payload any) string {
		return fmt.Sprintf("**Recent activity** in <#%s>", ctx.ChatID)
	}), cfg.FormatMode)
	activity.RegisterDynamic(func(ctx *menu.Context, r *menu.Range, payload any) {
		recs, err := store.RecentInteractions(ctx.ChatID, 5)
		if err != nil {
			log.Infof(log.Database, "recent interactions for chat %s: %v", ctx.ChatID, err)
			return
		}
		for _, rec := range recs {
			r.AddAction(menu.Text(fmt.Sprintf("%s · %s", rec.CreatedAt.Format("15:04:05"), rec.Token)),
				func(ctx *menu.Context, api *menu.API) error {
					log.Infof(log.Menu, "replaying audit entry %s for user %s", rec.Token, ctx.UserID)
					api.Update()
					return nil
				}, nil)
			r.NewRow()
		}
	})
	activity.AddBack(menu.Text("Back"), "", nil)

	registry.Directory().Register(root)
	registry.Directory().RegisterSub(root, activity)
	return registry, nil
}
