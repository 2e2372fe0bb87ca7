// Package cli implements the vercel-bot command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vercel-bot/engine/internal/models"
)

// Client is the part of the Vercel client the CLI uses.
type Client interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, idOrName string) (*models.Project, error)
	CreateProject(ctx context.Context, name, framework string) (*models.Project, error)
	DeleteProject(ctx context.Context, idOrName string) error
	ListDeployments(ctx context.Context, project string, limit int) ([]models.Deployment, error)
	GetUser(ctx context.Context) (*models.User, error)
}

// ClientFactory builds a client on first use. team is the --team flag value,
// empty when the flag was not given.
type ClientFactory func(team string) (Client, error)

// exitError ends the process with a status code without printing anything
// further; the command has already explained itself on stdout.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type app struct {
	factory ClientFactory
	team    string
}

func (a *app) client() (Client, error) {
	return a.factory(a.team)
}

// NewRootCommand assembles the command tree. Output goes to out, errors are
// returned to the caller.
func NewRootCommand(factory ClientFactory, out io.Writer) *cobra.Command {
	a := &app{factory: factory}

	root := &cobra.Command{
		Use:           "vercel-bot",
		Short:         "CLI bot to manage Vercel projects",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.team, "team", "", "Vercel team id (overrides VERCEL_TEAM_ID)")

	root.AddCommand(
		a.listCommand(),
		a.getCommand(),
		a.createCommand(),
		a.deleteCommand(),
		a.deploymentsCommand(),
		a.whoamiCommand(),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are written to errOut as "Error: <message>".
func Execute(ctx context.Context, args []string, factory ClientFactory, out, errOut io.Writer) int {
	root := NewRootCommand(factory, out)
	root.SetErr(errOut)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(errOut, "Error: %s\n", err)
	return 1
}
