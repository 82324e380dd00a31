package main

import (
	"github.com/esolink/backend/internal/server"
	"github.com/esolink/backend/internal/util"
	"github.com/esolink/backend/pkg/logger"
	"github.com/esolink/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Prefix: "server",
	})
	logger.Init(consoleLogger)

	server.Init()
}
