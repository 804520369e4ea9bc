package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	go_collection "github.com/PayRam/go-collection"
	"github.com/PayRam/go-collection/internal/config"
	"github.com/PayRam/go-collection/internal/db"
	"github.com/PayRam/go-collection/internal/logger"
	"github.com/PayRam/go-collection/request"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log/slog"
)

type app struct {
	v           *viper.Viper
	collections *go_collection.Collections
	logger      *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "collectionctl",
		Short:         "Query the users table with document-style filters",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.String("driver", "", "database driver: sqlite or postgres")
	flags.String("dsn", "", "database connection string")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("db.driver", flags.Lookup("driver"))
	_ = a.v.BindPFlag("db.dsn", flags.Lookup("dsn"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newMigrateCmd(a),
		newFindCmd(a),
		newInsertCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) open(logOut io.Writer) error {
	cfg, err := config.Unmarshal(a.v)
	if err != nil {
		return err
	}
	a.logger = logger.New(cfg.Log, logOut)
	slog.SetDefault(a.logger)

	gdb, err := db.InitDB(cfg.DB, logger.Gorm(cfg.Log, logOut))
	if err != nil {
		return err
	}
	a.collections, err = go_collection.NewCollections(gdb, go_collection.WithLogger(a.logger))
	return err
}

func decodeFilter(s string) (request.Filter, error) {
	f := request.Filter{}
	if s == "" {
		return f, nil
	}
	if err := decodeJSON(s, &f); err != nil {
		return nil, fmt.Errorf("invalid --filter: %w", err)
	}
	return f, nil
}

func decodeRecord(s string) (request.Record, error) {
	r := request.Record{}
	if err := decodeJSON(s, &r); err != nil {
		return nil, fmt.Errorf("invalid --record: %w", err)
	}
	return r, nil
}

func decodeJSON(s string, dest any) error {
	dec := json.NewDecoder(bytes.NewBufferString(s))
	dec.UseNumber()
	return dec.Decode(dest)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
