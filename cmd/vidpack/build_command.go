package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidpack/internal/build"
	"vidpack/internal/config"
	"vidpack/internal/logging"
	"vidpack/internal/manifest"
	"vidpack/internal/preflight"
	"vidpack/internal/services"
	"vidpack/internal/services/ffmpeg"
)

func newBuildCommand(configFlag *string) *cobra.Command {
	var (
		recursive     bool
		keepWebM      bool
		force         bool
		skipUnchanged bool
		ffmpegPath    string
		crf           int
		deadline      string
		cpuUsed       int
		audio         bool
		audioBitrate  int
	)

	cmd := &cobra.Command{
		Use:   "build <src> <out>",
		Short: "Encode videos under <src> and write .video containers to <out>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}

			src, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}
			outDir, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			encOpts := encoderOptions(cmd, cfg, crf, deadline, cpuUsed, audio, audioBitrate)
			if !ffmpeg.ValidDeadline(encOpts.Deadline) {
				return services.Wrap(services.ErrValidation, "build", "",
					fmt.Sprintf("invalid deadline %q (expected realtime, good, or best)", encOpts.Deadline), nil)
			}

			if override := strings.TrimSpace(ffmpegPath); override != "" {
				cfg.Encoder.FFmpeg = override
			}
			resolution, err := ffmpeg.Resolve(cfg.Encoder.FFmpeg)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "vidpack.log")},
			})
			if err != nil {
				return err
			}
			logger.Info("using ffmpeg",
				logging.String("binary", resolution.Binary),
				logging.String("source", resolution.Source))
			if resolution.LibraryDir != "" {
				logger.Info("injecting encoder libraries",
					logging.String("dir", resolution.LibraryDir),
					logging.String("variable", ffmpeg.LibraryPathVar()))
			}

			var store *manifest.Store
			if cfg.Manifest.Enabled {
				store, err = manifest.Open(cfg.Manifest.Path)
				if err != nil {
					return fmt.Errorf("open manifest: %w", err)
				}
				defer store.Close()
			}
			if skipUnchanged && store == nil {
				return services.Wrap(services.ErrConfiguration, "build", "",
					"--skip-unchanged requires the manifest (manifest.enabled)", nil)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if failed := preflight.Failed(preflight.RunAll(cfg, outDir)); len(failed) > 0 {
				for _, f := range failed {
					logger.Warn("preflight check failed",
						logging.String("check", f.Name),
						logging.String("detail", f.Detail))
				}
			}

			encoder := ffmpeg.NewCLI(
				ffmpeg.WithBinary(resolution.Binary),
				ffmpeg.WithLibraryDir(resolution.LibraryDir),
			)
			runner := build.New(encoder, store, logger)
			results, err := runner.Run(cmd.Context(), src, outDir, recursive, build.Options{
				Encoder:       encOpts,
				KeepWebM:      keepWebM,
				Force:         force,
				SkipUnchanged: skipUnchanged,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range results {
				if result.Skipped {
					fmt.Fprintf(out, "Up to date %s\n", result.Job.FinalPath)
					continue
				}
				fmt.Fprintf(out, "Built %s\n", result.Job.FinalPath)
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderResultsTable(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recursive, "recursive", false, "Scan the input directory recursively")
	cmd.Flags().BoolVar(&keepWebM, "keep-webm", false, "Keep intermediate .webm files")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite outputs if they exist")
	cmd.Flags().BoolVar(&skipUnchanged, "skip-unchanged", false, "Skip sources unchanged since their last build")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary")
	cmd.Flags().IntVar(&crf, "crf", 30, "VP9 quality (lower is better, 15-40 typical)")
	cmd.Flags().StringVar(&deadline, "deadline", "good", "Encoding deadline: realtime, good, or best")
	cmd.Flags().IntVar(&cpuUsed, "cpu-used", 4, "VP9 speed/quality tradeoff (0-8)")
	cmd.Flags().BoolVar(&audio, "audio", false, "Keep the audio track (Opus)")
	cmd.Flags().IntVar(&audioBitrate, "audio-bitrate", 128, "Opus bitrate in kbps")

	return cmd
}

// encoderOptions starts from the configured defaults and applies only the
// flags the user actually set.
func encoderOptions(cmd *cobra.Command, cfg *config.Config, crf int, deadline string, cpuUsed int, audio bool, audioBitrate int) ffmpeg.Options {
	opts := ffmpeg.Options{
		CRF:          cfg.Encoder.CRF,
		Deadline:     cfg.Encoder.Deadline,
		CPUUsed:      cfg.Encoder.CPUUsed,
		Audio:        cfg.Encoder.Audio,
		AudioBitrate: cfg.Encoder.AudioBitrate,
	}
	flags := cmd.Flags()
	if flags.Changed("crf") {
		opts.CRF = crf
	}
	if flags.Changed("deadline") {
		opts.Deadline = strings.ToLower(strings.TrimSpace(deadline))
	}
	if flags.Changed("cpu-used") {
		opts.CPUUsed = cpuUsed
	}
	if flags.Changed("audio") {
		opts.Audio = audio
	}
	if flags.Changed("audio-bitrate") {
		opts.AudioBitrate = audioBitrate
	}
	return opts
}
