package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"userdir/internal/lib/config"
	"userdir/internal/lib/sl"
	"userdir/internal/migrator"
)

const usage = `usage: migrator -config <path> <command> [arg]

commands:
  up, migrate      apply all pending migrations
  down, rollback   roll back the last migration
  reset            roll back all migrations
  steps N          apply N migrations, or roll back -N
  goto V           migrate up or down to version V
  force V          set version V without running migrations
  version          print the current version
`

type command struct {
	name string
	arg  string
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, fmt.Errorf("command is required")
	}

	cmd := command{name: args[0]}
	switch cmd.name {
	case "up", "migrate", "down", "rollback", "reset", "version":
		if len(args) != 1 {
			return command{}, fmt.Errorf("%s takes no arguments", cmd.name)
		}
	case "steps", "goto", "force":
		if len(args) != 2 {
			return command{}, fmt.Errorf("%s needs exactly one argument", cmd.name)
		}
		cmd.arg = args[1]
	default:
		return command{}, fmt.Errorf("unknown command %q", cmd.name)
	}

	return cmd, nil
}

func run(m *migrator.Migrator, log *slog.Logger, cmd command) error {
	switch cmd.name {
	case "up", "migrate":
		return m.Up()
	case "down", "rollback":
		return m.Down()
	case "reset":
		return m.Reset()
	case "steps":
		n, err := strconv.Atoi(cmd.arg)
		if err != nil {
			return fmt.Errorf("steps: %w", err)
		}
		return m.Steps(n)
	case "goto":
		v, err := strconv.ParseUint(cmd.arg, 10, 64)
		if err != nil {
			return fmt.Errorf("goto: %w", err)
		}
		return m.Goto(uint(v))
	case "force":
		v, err := strconv.Atoi(cmd.arg)
		if err != nil {
			return fmt.Errorf("force: %w", err)
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("current version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		fmt.Printf("%d dirty=%t\n", version, dirty)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd.name)
}

func main() {
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }

	cfg := config.MustLoad()
	log := sl.Setup(cfg.Env)

	cmd, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	m, err := migrator.New(context.Background(), log, cfg.Database)
	if err != nil {
		log.Error("failed to init migrator", sl.Err(err))
		os.Exit(1)
	}

	if err := run(m, log, cmd); err != nil {
		log.Error("migration command failed", slog.String("command", cmd.name), sl.Err(err))
		_ = m.Close()
		os.Exit(1)
	}

	if err := m.Close(); err != nil {
		log.Error("failed to close migrator", sl.Err(err))
		os.Exit(1)
	}
}
