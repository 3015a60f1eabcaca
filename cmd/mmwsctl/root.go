package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/jroosing/mmws/internal/client"
	"github.com/jroosing/mmws/internal/config"
	"github.com/jroosing/mmws/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// offline marks commands that never talk to the server.
const offline = "offline"

type app struct {
	out io.Writer

	configPath string
	server     string
	username   string
	scheme     string
	jsonOut    bool
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
	client *client.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "mmwsctl",
		Short: "Inspect and change objects on a Micetro server",
		Long: `mmwsctl talks to the Micetro REST API (MMWS).

Connection settings come from the config file ($XDG_CONFIG_HOME/mmws/config.yaml
or --config), MMWS_* environment variables, a .env file, and the flags below.
When no password is configured it is read from the terminal.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.connect,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (or set MMWS_CONFIG)")
	pf.StringVar(&a.server, "server", "", "Micetro server, host or host:port")
	pf.StringVar(&a.username, "username", "", "user name")
	pf.StringVar(&a.scheme, "scheme", "", "http or https")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON instead of a table")
	pf.BoolVar(&a.debug, "debug", false, "log every request")

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.accessCmd(),
		a.historyCmd(),
		a.propdefsCmd(),
		a.exportCmd(),
		a.kindsCmd(),
		a.versionCmd(),
	)
	return root
}

// connect loads the configuration and builds the client before any
// command that needs the server.
func (a *app) connect(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[offline] != "" {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	if a.username != "" {
		cfg.Username = a.username
	}
	if a.scheme != "" {
		cfg.Scheme = a.scheme
	}
	if a.debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Password == "" {
		if cfg.Password, err = promptPassword(cmd.ErrOrStderr(), cfg.Username); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = logging.Configure(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	a.client, err = client.New(cfg.Server, cfg.Username, cfg.Password,
		client.WithScheme(cfg.Scheme),
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(a.logger),
	)
	return err
}

// promptPassword reads a password from the terminal without echo. Without
// a terminal the password stays empty.
func promptPassword(w io.Writer, username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprintf(w, "Password for %s: ", username)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.out, "mmwsctl", version)
		},
	}
}
