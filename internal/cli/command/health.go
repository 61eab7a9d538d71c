package command

import (
	"github.com/urfave/cli/v2"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the server is up",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ready",
				Usage: "query the readiness endpoint instead",
			},
		},
		Action: healthCheck,
	}
}

func healthCheck(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	client := rt.client()
	check := client.Health
	if c.Bool("ready") {
		check = client.Ready
	}

	h, err := check(c.Context)
	if err != nil {
		return err
	}
	return rt.print(c, h)
}
