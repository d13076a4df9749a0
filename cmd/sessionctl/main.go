package main

import (
	"context"
	"log"

	"github.com/alphamobile/sessioncore"
	"github.com/alphamobile/sessioncore/internal/cli"
	"github.com/alphamobile/sessioncore/internal/config"
	"github.com/alphamobile/sessioncore/internal/flagx"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(flagx.JSONConfigFlags())
	if err != nil {
		log.Fatalf("%v", err)
	}

	core, err := sessioncore.New(ctx, cfg, sessioncore.Options{})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer core.Close()

	cli.NewApp(core).Run(ctx)
}
