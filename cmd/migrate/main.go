package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/joripage/stockmarket-dev/config"
	"github.com/joripage/stockmarket-dev/pkg/infra"
)

func main() {
	var configFile string
	var source string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.StringVar(&source, "source", "file://migrations", "Specify migration source")
	flag.Parse()

	logger, _ := zap.NewProduction()
	zap.ReplaceGlobals(logger)
	defer logger.Sync() // nolint

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	infra.GetMigrateTool().Migrate(source, cfg.MarketDB.MigrationConnURL)
}
