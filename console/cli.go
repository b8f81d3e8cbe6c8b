// Package console is the go-injector command line: it builds an Application
// from the environment and exposes the container through subcommands.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/container"
)

// CLI is the root command plus the state its flags fill in.
type CLI struct {
	rootCmd *cobra.Command

	envFiles []string
	// Setup runs on the booted application before any subcommand touches it.
	// Embedders use it to register their own providers and entries.
	Setup func(*app.Application) error
}

// New builds the command tree.
func New() *CLI {
	c := &CLI{}
	c.rootCmd = &cobra.Command{
		Use:           "go-injector",
		Short:         "go-injector inspects and exercises a dependency-resolution container",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.rootCmd.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, ".env files to load (default .env)")

	c.addCmd(&serveCmd{})
	c.addCmd(&entriesCmd{})
	c.addCmd(&resolveCmd{})
	c.addCmd(&versionCmd{})
	return c
}

// Exec runs the command line with os.Args.
func (c *CLI) Exec(ctx context.Context) error {
	return c.rootCmd.ExecuteContext(ctx)
}

// Root exposes the root command, e.g. to set arguments and outputs in tests.
func (c *CLI) Root() *cobra.Command { return c.rootCmd }

func (c *CLI) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(inner *cobra.Command, args []string) error {
		return cmd.run(c, inner, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(cl *CLI, cmd *cobra.Command, args []string) error
}

// application builds and boots the Application, logging to the command's
// error stream.
func (c *CLI) application(cmd *cobra.Command) (*app.Application, error) {
	a, err := app.New(app.Options{EnvFiles: c.envFiles, LogOut: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, err
	}
	if c.Setup != nil {
		if err := c.Setup(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ── serve ────────────────────────────────────────────────────────────────────

type serveCmd struct{}

func (s *serveCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the read-only inspection endpoints on INSPECT_ADDR",
		Args:  cobra.NoArgs,
	}
}

func (s *serveCmd) run(cl *CLI, cmd *cobra.Command, _ []string) error {
	a, err := cl.application(cmd)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context())
}

// ── entries ──────────────────────────────────────────────────────────────────

type entriesCmd struct{}

func (e *entriesCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "list registered identifiers and how each would be called",
		Args:  cobra.NoArgs,
	}
}

func (e *entriesCmd) run(cl *CLI, cmd *cobra.Command, _ []string) error {
	a, err := cl.application(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, id := range a.Entries() {
		raw, err := a.Get(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%-10s %s\n", a.KindOf(raw), id)
	}
	return nil
}

// ── resolve ──────────────────────────────────────────────────────────────────

type resolveCmd struct {
	params   []string
	autowire bool
	fresh    bool
}

func (r *resolveCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "resolve an identifier and print the result",
		Example: `  go-injector resolve time.Time --autowire
  go-injector resolve time.Time --autowire -p '$datetime=1992-10-27 10:15:00'
  go-injector resolve time.Time --autowire -p 0=2021-01-01`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringArrayVarP(&r.params, "param", "p", nil, "parameter override name=value ($name, name or a position); repeatable, the value is taken verbatim")
	cmd.Flags().BoolVar(&r.autowire, "autowire", false, "enable autowiring regardless of CONTAINER_AUTOWIRING")
	cmd.Flags().BoolVar(&r.fresh, "make", false, "build a fresh value instead of resolving")
	return cmd
}

func (r *resolveCmd) run(cl *CLI, cmd *cobra.Command, args []string) error {
	a, err := cl.application(cmd)
	if err != nil {
		return err
	}
	if r.autowire {
		a.UseAutowiring(true)
	}

	params, err := overrides(r.params)
	if err != nil {
		return err
	}
	var v any
	if r.fresh {
		v, err = a.Make(args[0], params)
	} else {
		v, err = a.Resolve(args[0], params)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render(v))
	return nil
}

// overrides turns name=value flags into Params. Only the first "=" splits, so
// values may hold commas or further "=". Keys that parse as integers are
// positions; a repeated key keeps the last value.
func overrides(flags []string) (container.Params, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	params := make(container.Params, len(flags))
	for _, flag := range flags {
		k, v, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, errors.Errorf("--param %q: want name=value", flag)
		}
		if pos, err := strconv.Atoi(k); err == nil {
			params[pos] = v
			continue
		}
		params[k] = v
	}
	return params, nil
}

func render(v any) string {
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case string:
		return x
	}
	return strings.TrimSpace(fmt.Sprintf("%#v", v))
}

// ── version ──────────────────────────────────────────────────────────────────

type versionCmd struct{}

func (v *versionCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
	}
}

func (v *versionCmd) run(_ *CLI, cmd *cobra.Command, _ []string) error {
	_, err := io.WriteString(cmd.OutOrStdout(), app.Version+"\n")
	return err
}
