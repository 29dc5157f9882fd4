package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/essaydesk/internal/client/cli"
	"github.com/dmitrijs2005/essaydesk/internal/client/config"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
