package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"crashreporter/src/capture"
	"crashreporter/src/database"
	"crashreporter/src/format"
	"crashreporter/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel // safe fallback
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(server.GetConfig())
}

// handlePanic turns an escaped panic into a captured report on stderr, so
// even the service's own crash leaves a structured trail.
func handlePanic() {
	if r := recover(); r != nil {
		err := capture.Trace(fmt.Errorf("%+v", r))
		detail := capture.Capture(err)
		_, _ = fmt.Fprintln(os.Stderr, format.Format(detail, true))
		logger.WithError(err).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
