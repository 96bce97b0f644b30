package main

import (
	"log"
	"os"

	hellocli "github.com/go-barry/hello-lambda/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "hello-lambda",
		Usage: "Serve a FastHTML-style hello page, locally or on AWS Lambda",
		Commands: []*clilib.Command{
			hellocli.ServeCommand,
			hellocli.DevCommand,
			hellocli.InitCommand,
			hellocli.InfoCommand,
			hellocli.CheckCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
