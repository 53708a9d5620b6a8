package main

import (
	"os"

	"github.com/small-frappuccino/menucore/pkg/app"
	"github.com/small-frappuccino/menucore/pkg/log"
)

// main is the entry point of the menu bot.
func main() {
	if err := app.Run("menucore", "MENUCORE_BOT_TOKEN"); err != nil {
		log.Errorf("Fatal: %v", err)
		os.Exit(1)
	}
}
