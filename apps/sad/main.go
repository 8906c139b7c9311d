package main

import (
	"log"
	"os"

	"github.com/fen-analytics/sad/core"
	"github.com/fen-analytics/sad/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logsvc.NewLogger(conf)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	cli := commandLine{
		conf: conf,
		log:  logger,
		out:  os.Stdout,
	}
	err = cli.run(os.Args)
	if err != nil && err != errHelp {
		logger.Error("command failed", "args", os.Args[1:], err)
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
