package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidpack/internal/config"
	"vidpack/internal/deps"
)

func newDepsCommand(configFlag *string) *cobra.Command {
	var ffmpegPath string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Report availability of external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			override := ffmpegPath
			if override == "" {
				override = cfg.Encoder.FFmpeg
			}

			statuses := []deps.Status{deps.CheckFFmpeg(override)}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					rows = append(rows, []string{status.Name, availabilityLabel(status.Available), status.Command, status.Detail})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Dependency", "Status", "Command", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
			} else {
				for _, status := range statuses {
					fmt.Fprintf(out, "%s: %s (%s) %s\n", status.Name, availabilityLabel(status.Available), status.Command, status.Detail)
				}
			}

			for _, status := range statuses {
				if !status.Available && !status.Optional {
					return fmt.Errorf("missing required dependency: %s", status.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary")
	return cmd
}

func availabilityLabel(available bool) string {
	if available {
		return "ok"
	}
	return "missing"
}
