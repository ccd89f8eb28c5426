package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scribe/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath      string
		outputFormat    string
		modelSize       string
		language        string
		device          string
		diarize         bool
		cleanAudio      bool
		enhance         bool
		preset          string
		assumeYes       bool
		createOutputDir bool
		noCache         bool
		downloadModels  bool
	)

	cmd := &cobra.Command{
		Use:   "run <audio-file>",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			req := pipeline.Request{
				InputPath:       args[0],
				OutputPath:      outputPath,
				Format:          outputFormat,
				ModelSize:       modelSize,
				Language:        language,
				Device:          device,
				Diarize:         diarize,
				CleanAudio:      cleanAudio,
				Enhance:         enhance,
				EnhancePreset:   preset,
				AssumeYes:       assumeYes,
				CreateOutputDir: createOutputDir,
				NoCache:         noCache,
				DownloadModels:  downloadModels,
			}

			// Unset flags fall back to the configured defaults.
			flags := cmd.Flags()
			if !flags.Changed("format") {
				req.Format = cfg.Output.Format
			}
			if !flags.Changed("model-size") {
				req.ModelSize = cfg.Whisper.ModelSize
			}
			if !flags.Changed("language") {
				req.Language = cfg.Whisper.Language
			}
			if !flags.Changed("device") {
				req.Device = cfg.Whisper.Device
			}
			if !flags.Changed("diarize") {
				req.Diarize = cfg.Diarize.Enabled
			}
			if !flags.Changed("enhance") {
				req.Enhance = cfg.Enhance.Enabled
			}
			if !flags.Changed("preset") {
				req.EnhancePreset = cfg.Enhance.Preset
			}
			if !flags.Changed("create-output-dir") {
				req.CreateOutputDir = cfg.Output.CreateMissingDir
			}

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			finalPath, err := p.Run(runCtx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transcription saved to %s\n", finalPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (required)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: json, txt, or md")
	cmd.Flags().StringVarP(&modelSize, "model-size", "m", "", "Whisper model size")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Audio language (name or ISO code, empty auto-detects)")
	cmd.Flags().StringVar(&device, "device", "", "Inference device: auto, cpu, or cuda")
	cmd.Flags().BoolVar(&diarize, "diarize", false, "Identify speakers and label segments")
	cmd.Flags().BoolVar(&cleanAudio, "clean-audio", false, "Apply light noise reduction before transcription")
	cmd.Flags().BoolVar(&enhance, "enhance", false, "Apply the full enhancement chain before transcription")
	cmd.Flags().StringVar(&preset, "preset", "", "Enhancement preset: default, meeting, podcast, or phone")
	cmd.Flags().BoolVarP(&assumeYes, "assume-yes", "y", false, "Proceed past degradable preflight failures")
	cmd.Flags().BoolVar(&createOutputDir, "create-output-dir", false, "Create the output directory if missing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the transcript cache for this run")
	cmd.Flags().BoolVar(&downloadModels, "download-models", false, "Prefetch the model before transcribing")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
