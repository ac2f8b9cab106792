package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"vidpack/internal/container"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.video>",
		Short: "Print the container header of a .video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			header, err := container.ReadHeader(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:         %s\n", path)
			fmt.Fprintf(out, "Magic:        %s\n", container.Magic)
			fmt.Fprintf(out, "Version:      %d\n", header.Version)
			fmt.Fprintf(out, "Payload size: %d bytes\n", header.PayloadSize)
			fmt.Fprintf(out, "Total size:   %d bytes\n", header.TotalSize())
			return nil
		},
	}
}
