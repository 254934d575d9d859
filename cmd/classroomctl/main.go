package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/pkg/config"
)

var (
	outputFormat string
	printMetrics bool

	current *app
)

// rootCmd opens the configured stores, loads the site document and restores the session.
var rootCmd = &cobra.Command{
	Use:           "classroomctl",
	Short:         "Operate an online classroom from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil || !printMetrics {
			return nil
		}
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		return enc.Encode(current.metrics.Snapshot())
	},
}

// execute runs one command line and releases the stores whether or not it succeeded.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	defer func() {
		if current != nil {
			current.close()
			current = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "json", "Output format: json or yaml")
	rootCmd.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "Print operation metrics to stderr after the command")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd, teacherSignupCmd)
	rootCmd.AddCommand(coursesCmd, verificationsCmd, messagesCmd)
	rootCmd.AddCommand(sweepCmd, dumpCmd, statsCmd, rosterCmd, blobCmd)
}

func main() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
