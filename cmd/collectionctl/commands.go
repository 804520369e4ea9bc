package main

import (
	"encoding/json"
	"fmt"
	"github.com/PayRam/go-collection/request"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the collections already migrated the database.
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newFindCmd(a *app) *cobra.Command {
	var (
		filterJSON string
		sortSpec   string
		limit      int
		offset     int
		one        bool
	)
	cmd := &cobra.Command{
		Use:   "find",
		Short: "List users matching a filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := decodeFilter(filterJSON)
			if err != nil {
				return err
			}
			sortFields, err := request.ParseSort(sortSpec)
			if err != nil {
				return err
			}
			opts := &request.QueryOptions{Sort: sortFields, Limit: limit, Offset: offset}
			if one {
				user, err := a.collections.Users.FindOne(cmd.Context(), f, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), user)
			}
			users, err := a.collections.Users.Find(cmd.Context(), f, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
	cmd.Flags().StringVar(&filterJSON, "filter", "", `filter document, e.g. {"age": {"in": [30, 31]}}`)
	cmd.Flags().StringVar(&sortSpec, "sort", "", "sort directives, e.g. name:asc,age:desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows, 0 for no limit")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of rows to skip")
	cmd.Flags().BoolVar(&one, "one", false, "return only the first match")
	return cmd
}

func newInsertCmd(a *app) *cobra.Command {
	var recordJSON string
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert one user, or many when --record is a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if err := decodeJSON(recordJSON, &raw); err != nil {
				return fmt.Errorf("invalid --record: %w", err)
			}
			if len(raw) > 0 && raw[0] == '[' {
				var records []request.Record
				if err := decodeJSON(recordJSON, &records); err != nil {
					return fmt.Errorf("invalid --record: %w", err)
				}
				users, err := a.collections.Users.InsertMany(cmd.Context(), records)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), users)
			}
			record, err := decodeRecord(recordJSON)
			if err != nil {
				return err
			}
			user, err := a.collections.Users.Insert(cmd.Context(), record)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&recordJSON, "record", "", "record or array of records as JSON")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		filterJSON string
		patchJSON  string
		many       bool
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update users matching a non-empty filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := decodeFilter(filterJSON)
			if err != nil {
				return err
			}
			patch, err := decodeRecord(patchJSON)
			if err != nil {
				return err
			}
			if many {
				result, err := a.collections.Users.UpdateMany(cmd.Context(), f, patch)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			}
			user, err := a.collections.Users.Update(cmd.Context(), f, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&filterJSON, "filter", "", "filter document")
	cmd.Flags().StringVar(&patchJSON, "record", "", "patch as JSON")
	cmd.Flags().BoolVar(&many, "many", false, "report the affected row count instead of the first updated row")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var filterJSON string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete users matching a non-empty filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := decodeFilter(filterJSON)
			if err != nil {
				return err
			}
			users, err := a.collections.Users.Delete(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
	cmd.Flags().StringVar(&filterJSON, "filter", "", "filter document")
	return cmd
}
