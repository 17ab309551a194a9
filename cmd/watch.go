package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trestle/internal/formatting"
	"trestle/internal/watch"
	"trestle/pkg/logging"
)

func newWatchCmd() *cobra.Command {
	opts := &runOptions{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <results.xml>",
		Short: "Upload on every change to the results file",
		Long: `Runs an upload immediately, then keeps watching the results file and
re-uploads after each settled change. A failed upload is logged and the
watch continues. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsPath := args[0]

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			run := func() {
				report, err := runOnce(ctx, opts, resultsPath)
				if err != nil {
					logging.Error("Watcher", err, "Upload failed; still watching")
					return
				}
				if !opts.quiet {
					formatting.RenderSummary(cmd.OutOrStdout(), report)
				}
			}

			run()

			watcher, err := watch.NewFileWatcher(resultsPath, debounce)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx, run); err != nil {
				return err
			}
			defer watcher.Stop()

			<-ctx.Done()
			return nil
		},
	}

	addRunFlags(cmd, opts)
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "How long to wait for further writes before re-uploading")
	return cmd
}
