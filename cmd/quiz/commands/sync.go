// ABOUTME: Sync commands for the Charm cloud question bank
// ABOUTME: Provides status, an immediate sync, and pushing the local SQLite bank to Charm
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/quizsmith/internal/config"
	"github.com/harper/quizsmith/internal/storage"
	"github.com/harper/quizsmith/internal/storage/charmkv"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization of the question bank with Charm cloud.

The default bank is a local SQLite file. Set QUIZ_BACKEND=charm to use
the Charm key-value store instead; it syncs across devices linked to
the same Charm account. 'quiz sync push' copies the local SQLite bank
into Charm.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncPushCmd())

	return cmd
}

func openCharm(cfg *config.Config) (*charmkv.Client, error) {
	client, err := charmkv.NewClient(&charmkv.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			client, err := openCharm(cfg)
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintf(out, "Error: %v\n", err)
				return nil
			}
			store := charmkv.NewQuestionStore(client)
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to count questions: %w", err)
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "Host: %s\n", cfg.CharmHost)
			fmt.Fprintf(out, "Database: %s\n", cfg.CharmDBName)
			fmt.Fprintf(out, "Auto-sync: %t\n", cfg.AutoSync)
			fmt.Fprintf(out, "Questions: %d\n", count)
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Syncing...")
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Fprintln(out, "Sync complete")
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Copy the local SQLite bank into Charm",
		Long: `Copy every question from the local SQLite bank into the Charm store.

Questions already present in Charm (same stem, options, and answer)
are skipped, so push can be run repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			defer log.Sync()

			local, err := openSQLiteBank(cfg, log)
			if err != nil {
				return err
			}
			defer local.Close()

			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			remote := charmkv.NewQuestionStore(client)
			defer remote.Close()

			copied, skipped, err := pushQuestions(cmd.Context(), local, remote)
			if err != nil {
				return err
			}
			if err := client.Sync(); err != nil {
				log.Warn("final sync failed", "error", err)
			}
			writePushSummary(cmd.OutOrStdout(), copied, skipped)
			return nil
		},
	}
}

// pushQuestions copies every question in src that dst does not already hold
func pushQuestions(ctx context.Context, src, dst storage.Provider) (copied, skipped int, err error) {
	all, err := src.All(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read source bank: %w", err)
	}

	for i := range all {
		q := &all[i]
		exists, err := dst.Exists(ctx, &q.QuizQuestion)
		if err != nil {
			return copied, skipped, fmt.Errorf("failed to check question %s: %w", q.ID, err)
		}
		if exists {
			skipped++
			continue
		}
		if _, err := dst.Save(ctx, q.Topic, &q.QuizQuestion); err != nil {
			return copied, skipped, fmt.Errorf("failed to copy question %s: %w", q.ID, err)
		}
		copied++
	}
	return copied, skipped, nil
}

func writePushSummary(w io.Writer, copied, skipped int) {
	if jsonOutput() {
		fmt.Fprintf(w, "{\"copied\": %d, \"skipped\": %d}\n", copied, skipped)
		return
	}
	fmt.Fprintf(w, "✓ Copied %d questions (%d already present)\n", copied, skipped)
}
