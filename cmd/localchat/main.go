package main

import (
	"flag"

	"github.com/matheus3301/localchat/internal/app"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "", "path to config.toml (default ~/.localchat/config.toml)")
	dataDirFlag := flag.String("data-dir", "", "data directory (overrides config data_dir)")
	flag.Parse()

	fx.New(
		app.Module(app.Params{ConfigPath: *configFlag, DataDir: *dataDirFlag}),
		app.WithLogger(),
	).Run()
}
