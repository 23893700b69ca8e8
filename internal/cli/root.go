package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal"
	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/config"
	"github.com/c7d5a6/goliath/internal/identity"
	"github.com/c7d5a6/goliath/internal/logging"
	"github.com/c7d5a6/goliath/internal/login"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const (
	ServiceName  = "goliath-cli"
	defaultWidth = 100
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Auth is what the account commands need from the session store.
type Auth interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignInWithGoogle(ctx context.Context) error
	SignOut(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
	User() *identity.User
}

// Env is everything a command runs against.
type Env struct {
	Client *api.Client
	// nil when no identity provider is configured
	Auth     Auth
	Limiter  login.Limiter
	Prompter Prompter
	Close    func() error
}

type GlobalFlags struct {
	Env        string
	ConfigPath string
	Width      int
}

type EnvFactory func(ctx context.Context, flags GlobalFlags) (*Env, error)

type Options struct {
	// NewEnv defaults to loading the TOML config and wiring a full internal.App.
	NewEnv EnvFactory
	Out    io.Writer
	Err    io.Writer
}

type cli struct {
	opts  Options
	flags GlobalFlags
	env   *Env
}

// shownError is a failure the command already rendered, so Execute does not print it again.
type shownError struct {
	error
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.NewEnv == nil {
		opts.NewEnv = NewDefaultEnv
	}
	c := &cli{opts: opts}

	rootCmd := &cobra.Command{
		Use:   "goliath",
		Short: "Terminal client for the goliath fitness tracker",
		Long: color.CyanString(`goliath - fitness tracking from the terminal

Browse the muscle and exercise catalogs, author exercises and
build workouts against a goliath backend.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if opts.Out != nil {
		rootCmd.SetOut(opts.Out)
	}
	if opts.Err != nil {
		rootCmd.SetErr(opts.Err)
	}

	rootCmd.PersistentFlags().StringVar(&c.flags.Env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&c.flags.ConfigPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().IntVar(&c.flags.Width, "width", 0, "terminal width; narrower than 80 renders cards instead of tables (default $COLUMNS or 100)")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(c.newLoginCommand())
	rootCmd.AddCommand(c.newLogoutCommand())
	rootCmd.AddCommand(c.newWhoamiCommand())
	rootCmd.AddCommand(c.newTokenCommand())
	rootCmd.AddCommand(c.newMusclesCommand())
	rootCmd.AddCommand(c.newRegionsCommand())
	rootCmd.AddCommand(c.newMuscleGroupsCommand())
	rootCmd.AddCommand(c.newExerciseAreasCommand())
	rootCmd.AddCommand(c.newExercisesCommand())
	rootCmd.AddCommand(c.newWorkoutsCommand())
	rootCmd.AddCommand(c.newUsersCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			titleColor.Fprint(w, "goliath version: ")
			fmt.Fprintln(w, Version)
			titleColor.Fprint(w, "git commit: ")
			fmt.Fprintln(w, GitCommit)
		},
	}
}

// Execute runs the root command against a real config and backend.
func Execute(ctx context.Context) error {
	return ExecuteWith(ctx, NewRootCommand(Options{}), os.Args[1:])
}

func ExecuteWith(ctx context.Context, rootCmd *cobra.Command, args []string) error {
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var shown shownError
		if !errors.As(err, &shown) {
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// NewDefaultEnv loads the config, sets logging up and wires the application.
func NewDefaultEnv(ctx context.Context, flags GlobalFlags) (*Env, error) {
	cfg, err := config.Load(flags.Env, flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: ServiceName,
	})
	log.Debugf("goliath cli running in [%s] environment", cfg.Environment)

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:       cfg,
		ServiceName:  ServiceName,
		DevicePrompt: devicePrompt(os.Stderr),
	})
	if err != nil {
		return nil, err
	}

	env := &Env{
		Client:   app.Client,
		Limiter:  app.Limiter,
		Prompter: NewSurveyPrompter(),
		Close:    app.Shutdown,
	}
	if app.Session != nil {
		env.Auth = app.Session
	}
	return env, nil
}

func devicePrompt(w io.Writer) identity.DevicePrompt {
	return func(verificationURL, userCode string) {
		titleColor.Fprintf(w, "To sign in with Google, open %s and enter the code %s\n", verificationURL, userCode)
	}
}

// run builds the environment before fn and closes it after, whatever fn returned.
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		env, err := c.opts.NewEnv(cmd.Context(), c.flags)
		if err != nil {
			return err
		}
		c.env = env
		defer func() {
			err = multierr.Append(err, c.close())
		}()
		return fn(cmd, args)
	}
}

func (c *cli) close() error {
	if c.env == nil || c.env.Close == nil {
		return nil
	}
	env := c.env
	c.env = nil
	return env.Close()
}

func (c *cli) auth() (Auth, error) {
	if c.env.Auth == nil {
		return nil, internal.ErrIdentityNotConfigured
	}
	return c.env.Auth, nil
}

// User reports the signed in user. It is nil when signed out or when signing in is not configured.
func (c *cli) User() *identity.User {
	if c.env.Auth == nil {
		return nil
	}
	return c.env.Auth.User()
}

func (c *cli) width() int {
	if c.flags.Width > 0 {
		return c.flags.Width
	}
	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}

func success(w io.Writer, format string, a ...any) {
	successColor.Fprintf(w, format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	warnColor.Fprintf(w, format+"\n", a...)
}
