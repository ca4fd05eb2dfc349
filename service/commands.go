package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hodolog/app/repositories"

	"github.com/spf13/cobra"
)

func newDBCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Post store maintenance commands",
	}

	cmd.AddCommand(
		newInitCommand(opts),
		newCleanCommand(opts),
		newBackupCommand(opts),
		newRestoreCommand(opts),
	)
	return cmd
}

// newInitCommand opens the store, which creates the badger directory or the SQL table.
func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the post store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.Store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized successfully (%s, %d posts)\n", cfg.Store.Driver, n)
			return nil
		},
	}
}

func newCleanCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := app.Store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count posts: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is already clean")
				return nil
			}

			if !yes && !confirm(cmd, fmt.Sprintf("Are you sure you want to delete %d posts? This cannot be undone.", n)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}

			if err := app.Store.DeleteAll(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clean database: %w", err)
			}
			app.Log.WithField("posts", n).Info("database cleaned")
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the badger store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path, err := badgerPath(cfg.Store, "backup")
			if err != nil {
				return err
			}
			if ok, err := exists(path); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("no database exists to backup at %s", path)
			}

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			backuper, ok := app.Store.(repositories.Backuper)
			if !ok {
				return fmt.Errorf("store %q does not support backups", cfg.Store.Driver)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}
			backupFile := filepath.Join(outDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			f, err := os.Create(backupFile)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer f.Close()

			if _, err := backuper.Backup(f); err != nil {
				return fmt.Errorf("failed to backup database: %w", err)
			}
			if err := f.Sync(); err != nil {
				return fmt.Errorf("failed to backup database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", backupFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "data/backups", "backup directory")
	return cmd
}

func newRestoreCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the badger store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile := args[0]

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path, err := badgerPath(cfg.Store, "restore")
			if err != nil {
				return err
			}

			fi, err := os.Stat(backupFile)
			if os.IsNotExist(err) {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			} else if err != nil {
				return err
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			// Loaded entries keep their backed up versions, so they go into a fresh directory.
			if ok, err := exists(path); err != nil {
				return err
			} else if ok {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
				if err := os.RemoveAll(path); err != nil {
					return fmt.Errorf("failed to remove existing database: %w", err)
				}
			}

			app, err := NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			f, err := os.Open(backupFile)
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer f.Close()

			err = func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("panic occurred during restore: %v", r)
					}
				}()
				return app.Store.(repositories.Backuper).Load(f)
			}()
			if err != nil {
				return fmt.Errorf("failed to restore database: %w", err)
			}

			n, err := app.Store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count restored posts: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database restored successfully (%d posts)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
