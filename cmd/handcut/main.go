package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kikiluvv/handcut/internal/config"
	"github.com/kikiluvv/handcut/internal/detect"
	"github.com/kikiluvv/handcut/internal/ffmpeg"
	"github.com/kikiluvv/handcut/internal/logging"
	"github.com/kikiluvv/handcut/internal/pipeline"
)

var (
	cfgFile string
	verbose bool

	outputPath     string
	profileName    string
	detectionsFile string

	minKeepSec  float64
	mergeGapSec float64
	padSec      float64
	speed       float64
	fastCut     bool

	hAnchor      float64
	vAnchor      float64
	smoothWindow int
	manualZoom   float64
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "handcut",
	Short: "handcut - detection-driven video auto-editor",
	Long:  "Cuts a source video down to the parts where a tracked object (a hand, a head) is on screen, and can render a zoomed crop that follows it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./handcut.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	for _, cmd := range []*cobra.Command{editCmd, cropCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output video path")
		cmd.Flags().StringVar(&profileName, "profile", "hand", "tracking profile (hand or head)")
		cmd.Flags().StringVar(&detectionsFile, "detections", "", "saved detection stream instead of running the detector")
	}

	editCmd.Flags().Float64Var(&minKeepSec, "min-keep", 0, "drop presence runs shorter than this many seconds")
	editCmd.Flags().Float64Var(&mergeGapSec, "merge-gap", 0, "merge kept runs separated by at most this many seconds")
	editCmd.Flags().Float64Var(&padSec, "pad", 0, "pad each kept segment by this many seconds on both sides")
	editCmd.Flags().Float64Var(&speed, "speed", 0, "playback speed multiplier for the final cut")
	editCmd.Flags().BoolVar(&fastCut, "fast", false, "extract segments with codec copy; faster, but cuts land on keyframes")

	cropCmd.Flags().Float64Var(&hAnchor, "h-anchor", 0, "horizontal anchor ratio inside the crop")
	cropCmd.Flags().Float64Var(&vAnchor, "v-anchor", 0, "vertical anchor ratio inside the crop")
	cropCmd.Flags().IntVar(&smoothWindow, "smooth-window", 0, "moving-average window over tracked positions, in frames")
	cropCmd.Flags().Float64Var(&manualZoom, "zoom", 0, "fixed crop ratio; disables auto-zoom")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(cropCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [input video]",
	Short: "Cut the video down to where the tracked object is present",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := buildPipeline(cmd)
		if err != nil {
			return err
		}

		input := args[0]
		report, err := pipe.Edit(cmd.Context(), input, defaultOutput(input, "_cut"))
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().
			Int("segments", len(report.Segments)).
			Float64("kept_sec", report.KeptDuration()).
			Str("output", report.Output).
			Msg("edit finished")
		return nil
	},
}

var cropCmd = &cobra.Command{
	Use:   "crop [input video]",
	Short: "Render a zoomed crop that follows the tracked object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pipe, err := buildPipeline(cmd)
		if err != nil {
			return err
		}

		input := args[0]
		report, err := pipe.Crop(cmd.Context(), input, defaultOutput(input, "_crop"))
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.Info().
			Int("frames", report.FramesKept).
			Float64("crop_ratio", report.ZoomRatio).
			Str("output", report.Output).
			Msg("crop finished")
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Print source video metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads, cfg.FFmpeg.Preset, cfg.FFmpeg.CRF)
		if err != nil {
			return err
		}

		info, err := exec.ProbeVideo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("file:      %s\n", info.FilePath)
		fmt.Printf("duration:  %s\n", info.Duration)
		fmt.Printf("size:      %dx%d\n", info.Width, info.Height)
		fmt.Printf("fps:       %.3f\n", info.FPS)
		fmt.Printf("video:     %s\n", info.VideoCodec)
		if info.HasAudio {
			fmt.Printf("audio:     %s\n", info.AudioCodec)
		} else {
			fmt.Printf("audio:     none\n")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with all defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./handcut.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	cfg := config.FromContext(cmd.Context())
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}

	profile, err := detect.ProfileByName(profileName)
	if err != nil {
		return nil, err
	}

	source, err := buildSource(cfg)
	if err != nil {
		return nil, err
	}

	return pipeline.New(log.Logger, cfg, source, profile)
}

func buildSource(cfg *config.Config) (detect.Source, error) {
	if detectionsFile != "" {
		return detect.FileSource{
			Path:        detectionsFile,
			FallbackFPS: float64(cfg.Detection.FPSSample),
		}, nil
	}

	if cfg.Detection.DetectorCmd == "" {
		return nil, fmt.Errorf("no detector configured: set detection.detector_cmd or pass --detections")
	}

	src := detect.NewSidecarSource(log.Logger,
		cfg.Detection.DetectorCmd, cfg.Detection.DetectorArgs,
		cfg.Detection.FPSSample, cfg.Detection.MinConfidence)
	src.ShowProgress = !verbose
	return src, nil
}

// applyOverrides folds explicitly-set command flags into the loaded
// config, then re-validates so a bad flag value fails the same way a bad
// config file does.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("min-keep") {
		cfg.Segments.MinKeepSec = minKeepSec
	}
	if flags.Changed("merge-gap") {
		cfg.Segments.MergeGapSec = mergeGapSec
	}
	if flags.Changed("pad") {
		cfg.Segments.PadSec = padSec
	}
	if flags.Changed("speed") {
		cfg.Output.Speed = speed
	}
	if flags.Changed("fast") {
		cfg.Output.FastCut = fastCut
	}

	if flags.Changed("h-anchor") {
		cfg.Crop.HorizontalAnchor = hAnchor
	}
	if flags.Changed("v-anchor") {
		cfg.Crop.VerticalAnchor = vAnchor
	}
	if flags.Changed("smooth-window") {
		cfg.Crop.SmoothWindow = smoothWindow
	}
	if flags.Changed("zoom") {
		cfg.Crop.AutoZoom = false
		cfg.Crop.ManualZoomRatio = manualZoom
	}

	return cfg.Validate()
}

func defaultOutput(input, suffix string) string {
	if outputPath != "" {
		return outputPath
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}
