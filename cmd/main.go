package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"crashreporter/cmd/demo"
	"crashreporter/src/database"
	"crashreporter/src/server"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "crashreporter CMD"
	app.Usage = "The crashreporter command line interface"

	app.Commands = []cli.Command{
		demoCMD,
		serveCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	demoCMD = cli.Command{
		Name:        "demo",
		Usage:       "capture and print demo failures",
		Action:      demoAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Raise synthetic nested failures, capture them and print the formatted reports`,
	}
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the report ingest service",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the HTTP ingest service that stores and streams exception reports`,
	}
)

func demoAction(_ *cli.Context) error {
	logrus.Info("Starting demo CMD")

	d := &demo.Demo{}
	if err := d.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func serveAction(_ *cli.Context) error {
	logrus.Info("Starting ingest CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(server.GetConfig())
	return nil
}
