package cli

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/storage"
	"github.com/tgienger/todo/internal/tasklist"
)

// session is the config and open store behind one command
type session struct {
	cfg    *config.Config
	store  tasklist.Storage
	closer io.Closer
	logger *log.Logger
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(cmd.ErrOrStderr(), "todo: ", log.LstdFlags)
	}

	s := &session{cfg: cfg, logger: logger}
	location := "(in process)"
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		s.store = storage.NewMemory()
	case config.BackendFile:
		path := cfg.Storage.Path
		if path == "" {
			dir, err := db.DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "todo.json")
		}
		f, err := storage.NewFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		s.store, location = f, f.Path()
	default:
		database, err := db.New(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		s.store, s.closer, location = database, database, database.Path()
	}
	logger.Printf("using %s storage at %s, key %q", cfg.Storage.Backend, location, cfg.Storage.Key)
	return s, nil
}

// controllerOptions translates the config into controller options
func (s *session) controllerOptions() ([]tasklist.Option, error) {
	status, err := tasklist.ParseStatusFilter(s.cfg.Filters.Status)
	if err != nil {
		return nil, fmt.Errorf("config filters.status: %w", err)
	}
	date, err := tasklist.ParseDateFilter(s.cfg.Filters.Date)
	if err != nil {
		return nil, fmt.Errorf("config filters.date: %w", err)
	}
	return []tasklist.Option{
		tasklist.WithKey(s.cfg.Storage.Key),
		tasklist.WithLogger(s.logger),
		tasklist.WithStatusFilter(status),
		tasklist.WithDateFilter(date),
		tasklist.WithDateBuckets(s.cfg.Filters.DateBuckets),
	}, nil
}

// withController opens a session, loads the collection and runs fn
func withController(cmd *cobra.Command, opts *rootOptions, confirm tasklist.ConfirmFunc, fn func(*tasklist.Controller) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrlOpts, err := s.controllerOptions()
	if err != nil {
		return err
	}
	if confirm != nil {
		ctrlOpts = append(ctrlOpts, tasklist.WithConfirm(confirm))
	}

	ctrl, err := tasklist.New(s.store, ctrlOpts...)
	if err != nil {
		return err
	}
	return fn(ctrl)
}

// promptConfirm asks on the command's input, defaulting to no
func promptConfirm(cmd *cobra.Command, assumeYes bool) tasklist.ConfirmFunc {
	reader := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
