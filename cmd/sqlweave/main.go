// Command sqlweave is an interactive shell for building statements and
// printing the SQL and bound values each dialect produces.
//
// Configuration (flags override environment, environment overrides file):
//
//	--dialect / SQLWEAVE_DIALECT          postgres, mysql or sqlite
//	--dsn / SQLWEAVE_DSN / DATABASE_URL   connect on start
//	--server-version                      gate features by server version
//	--config                              defaults to ~/.sqlweave.yaml
//
// Usage:
//
//	go run ./cmd/sqlweave
//	go run ./cmd/sqlweave -c "from users" -c "where id = 1" -c all
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const prompt = "sqlweave> "

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		commands []string
	)
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sqlweave",
		Short: "Build SQL statements interactively for PostgreSQL, MySQL and SQLite",
		Long: `sqlweave - interactive SQL statement builder

Build a statement one clause at a time and print the SQL text and bound
values for any dialect. Optionally connect to a database to EXPLAIN or run
the statement.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			sess, err := NewSession(cfg, cmd.OutOrStdout(), newLogger(cfg.Verbose, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer sess.Close()

			if cfg.DSN != "" {
				if err := sess.Execute("connect " + cfg.DSN); err != nil {
					printError(cmd.ErrOrStderr(), fmt.Errorf("connect on start: %w", err))
				}
			}
			if len(commands) > 0 {
				return runCommands(sess, commands)
			}
			return runInteractive(sess, cfg, cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.sqlweave.yaml)")
	flags.StringP("dialect", "d", "postgres", "SQL dialect: postgres, mysql or sqlite")
	flags.String("dsn", "", "database to connect to on start")
	flags.String("server-version", "", "server version used to gate dialect features")
	flags.Bool("pretty", false, "print each clause on its own line")
	flags.BoolP("verbose", "v", false, "log every compiled statement")
	flags.StringArrayVarP(&commands, "command", "c", nil, "run a command and exit (repeatable)")

	for key, flag := range map[string]string{
		"dialect":        "dialect",
		"dsn":            "dsn",
		"server_version": "server-version",
		"pretty":         "pretty",
		"verbose":        "verbose",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// runCommands executes each command in order and stops at the first error.
func runCommands(sess *Session, commands []string) error {
	for _, line := range commands {
		if err := sess.Execute(line); err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
	}
	return nil
}

func runInteractive(sess *Session, cfg *Config, errOut io.Writer) error {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.History,
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	banner(sess.out, "sqlweave - type 'help' for commands, 'exit' to quit")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl-D.
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lower := strings.ToLower(line); lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			printError(errOut, err)
		}
		rl.SetPrompt(sess.prompt())
	}
	return nil
}
