// isql is an interactive SQL client for MSSQL, MySQL, PostgreSQL, SQLite and
// Oracle.
//
// Statements are typed line by line into a buffer and sent to the server with
// "go". Settings live in ~/.isql/isql.yaml (or $ISQL_HOME/isql.yaml).
//
// Usage:
//
//	isql -S localhost -U sa -D master
//	isql -T psql -S db.example.com -U app -D orders
//	isql -F ./local.db -Q "select * from users"
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/ergochat/readline"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/bawdo/isql/backend"
	"github.com/bawdo/isql/internal/config"
	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/internal/logsink"
	"github.com/bawdo/isql/snippets"
)

// CLI holds the command-line flags.
type CLI struct {
	User       string `name:"user" short:"U" help:"user name for the connection"`
	Server     string `name:"server" short:"S" help:"server name or address"`
	Database   string `name:"database" short:"D" help:"database name"`
	Password   string `name:"password" short:"P" help:"password (asked for when omitted)"`
	Port       string `name:"port" short:"p" help:"port number"`
	ServerType string `name:"servertype" short:"T" help:"server type: ${types}"`
	SQLiteDB   string `name:"sqlitedb" short:"F" help:"location of the SQLite database file"`
	Input      string `name:"input" short:"i" help:"read input lines from file before prompting"`
	Output     string `name:"output" short:"o" help:"append results to file"`
	Query      string `name:"query" short:"Q" help:"run query, then exit"`
	Quiet      bool   `name:"quiet" short:"q" help:"suppress informational messages"`
	Config     string `name:"config" help:"settings file (default ~/.isql/isql.yaml)"`
}

func main() {
	var cli CLI
	_ = kong.Parse(&cli,
		kong.Name("isql"),
		kong.Description("Interactive SQL client."),
		kong.HelpOptions{Compact: true, FlagsLast: true},
		kong.UsageOnError(),
		kong.Vars{"types": strings.Join(backend.Types(), "|")},
	)
	os.Exit(run(&cli))
}

func run(cli *CLI) int {
	profile, err := resolveProfile(cli)
	if err != nil {
		return fatal(err)
	}

	home, err := config.Home()
	if err != nil {
		return fatal(err)
	}
	if err := config.EnsureHome(home); err != nil {
		return fatal(err)
	}
	configPath := cli.Config
	if configPath == "" {
		configPath = config.Path(home)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fatal(err)
	}

	actor := actingUser()
	sink, err := logsink.Open(logsink.Config{
		Dir:        config.LogDir(home),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Level:      cfg.Log.Level,
	}, actor)
	if err != nil {
		return fatal(err)
	}
	defer func() { _ = sink.Close() }()
	log := sink.Logger()
	log.Info("starting isql", "args", redactArgs(os.Args[1:]))

	params := backend.Params{
		Server:   cli.Server,
		Port:     cli.Port,
		User:     cli.User,
		Password: cli.Password,
		Database: cli.Database,
		File:     cli.SQLiteDB,
	}
	if !profile.FileBased && params.Password == "" && isatty.IsTerminal(os.Stdin.Fd()) {
		pw, err := readPassword(params.User)
		if err != nil {
			return fatal(err)
		}
		params.Password = pw
	}

	store, err := snippets.Load(cfg.SnippetRoot(home), profile.Type)
	if err != nil {
		return fatal(err)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "isql> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fatal(errors.Wrap(err, "readline init"))
	}
	defer func() { _ = rl.Close() }()

	var sess *Session
	db := backend.SQLDatabase{
		Profile:   profile,
		OnMessage: func(m backend.Message) { sess.serverMessage(m) },
	}
	sess = NewSession(db, profile, params, rl)
	sess.log = log
	sess.snippets = store
	sess.quiet = cli.Quiet
	sess.terminal = isatty.IsTerminal(os.Stdout.Fd())
	sess.configPath = configPath
	sess.outputFile = cli.Output
	if err := sess.applyConfig(cfg); err != nil {
		return fatal(err)
	}

	// Set up the completer now that we have a session.
	_ = rl.SetConfig(&readline.Config{
		Prompt:          "isql> ",
		HistoryFile:     filepath.Join(home, "history"),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		VimMode:         cfg.Prompt.ViMode,
	})

	if store.Len() > 0 {
		sess.notice(fmt.Sprintf("Snippets: %s", strings.Join(store.Names(), ", ")))
	}

	if err := sess.Connect(context.Background()); err != nil {
		log.Error("initial connect failed", "class", failure.Class(err), "err", err.Error())
		return fatal(err)
	}
	defer sess.Close()
	sess.notice(fmt.Sprintf("Connected to %s", sess.describeTarget()))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			sess.Interrupt()
		}
	}()

	if cli.Input != "" {
		if err := sess.RunFile(cli.Input); err != nil {
			if errors.Is(err, ErrExit) {
				return 0
			}
			sess.ReportError(err)
		}
	}
	if cli.Query != "" {
		sess.appendLine(cli.Query)
		if err := sess.Execute("go"); err != nil {
			sess.ReportError(err)
			return 1
		}
		return 0
	}

	loop(sess, rl)
	log.Info("exiting isql")
	return 0
}

// loop reads and executes lines until exit or end of input.
func loop(sess *Session, rl *readline.Instance) {
	for {
		rl.SetPrompt(sess.nextPrompt())
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sess.ReportError(err)
			break
		}
		if err := sess.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				break
			}
			sess.ReportError(err)
		}
	}
}

// resolveProfile picks the backend from -T, falling back to MSSQL when a
// server is given and to SQLite when only a database file is.
func resolveProfile(cli *CLI) (*backend.Profile, error) {
	switch {
	case cli.ServerType != "":
		p, ok := backend.Lookup(cli.ServerType)
		if !ok {
			return nil, failure.Input("unknown server type %q (expected one of %s)", cli.ServerType, strings.Join(backend.Types(), ", "))
		}
		return p, nil
	case cli.Server != "":
		return backend.MSSQL, nil
	case cli.SQLiteDB != "":
		return backend.SQLite, nil
	}
	return nil, failure.Input("usage: isql -S <server> [-T %s] or isql -F <file>", strings.Join(backend.Types(), "|"))
}

func readPassword(dbUser string) (string, error) {
	label := "Password: "
	if dbUser != "" {
		label = fmt.Sprintf("Password for %s: ", dbUser)
	}
	_, _ = fmt.Fprint(os.Stderr, label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(pw), nil
}

// actingUser names the operating-system user for log records.
func actingUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// redactArgs hides the value of -P/--password.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, a := range out {
		switch {
		case a == "-P" || a == "--password":
			if i+1 < len(out) {
				out[i+1] = "****"
			}
		case strings.HasPrefix(a, "--password="):
			out[i] = "--password=****"
		case strings.HasPrefix(a, "-P") && len(a) > 2:
			out[i] = "-P****"
		}
	}
	return out
}

func fatal(err error) int {
	_, _ = fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
	return 1
}
