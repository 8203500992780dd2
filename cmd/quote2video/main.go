package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ivlev/quote2video/internal/config"
	"github.com/ivlev/quote2video/internal/domain"
	"github.com/ivlev/quote2video/internal/engine"
	"github.com/ivlev/quote2video/internal/logging"
	"github.com/ivlev/quote2video/internal/renderer"
	"github.com/ivlev/quote2video/internal/system"
	"github.com/ivlev/quote2video/internal/video"
)

var exampleUsage = strings.TrimSpace(`
  quote2video --quote "知行合一，止于至善。" --author "王阳明" --font /fonts/NotoSerifSC.otf
  quote2video --quote "Stay hungry, stay foolish." --author "Steve Jobs" --preset 16:9 --audio track.mp3
  quote2video --timeline saved.yaml --seed 42 --output output/replay.mp4
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := config.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "quote2video",
		Short:         "Turn a quote and its author into a timed, scored short video",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Verbose {
				logging.SetLevel(zerolog.DebugLevel)
			}
			log := logging.Logger()

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = config.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && config.FileExists(cfgFile) {
				fc, err := config.LoadFileConfig(cfgFile)
				if err != nil {
					return &domain.InputError{Field: "config", Reason: err.Error()}
				}
				if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return &domain.InputError{Field: "config", Reason: err.Error()}
				}
			}
			if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
				return &domain.InputError{Field: "env", Reason: err.Error()}
			}
			if err := cfg.ApplyPreset(); err != nil {
				return err
			}

			if cfg.OutputPath == "" {
				cfg.OutputPath = filepath.Join("output", fmt.Sprintf("quote_%s.mp4", time.Now().Format("2006-01-02_15-04-05")))
			}
			if !changed["seed"] && cfg.Seed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			cfg.BuildVersion = getVersion()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			system.InitResourceLimits()

			if cfg.VideoEncoder == "" {
				cfg.VideoEncoder = system.GetBestH264Encoder(ctx, "ffmpeg")
				if cfg.VideoEncoder != "libx264" {
					log.Info().Str("encoder", cfg.VideoEncoder).Msg("hardware acceleration detected")
				}
			}
			if cfg.Quality == 0 {
				cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
			}

			log.Debug().Interface("config", cfg).Msg("configuration")
			log.Info().Int64("seed", cfg.Seed).Msg("starting run")

			enc := &video.FFmpegEncoder{VideoEncoder: cfg.VideoEncoder, Quality: cfg.Quality}
			project := engine.NewProject(&cfg, renderer.NewRasterFactory(), enc, rand.New(rand.NewSource(cfg.Seed)))

			report, err := project.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Println(report.Output)
			return nil
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.quote2video/config.toml)")

	f.StringVar(&cfg.Quote, "quote", cfg.Quote, "quote text")
	f.StringVar(&cfg.Author, "author", cfg.Author, "attribution shown after the quote")
	f.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "output video (default: output/quote_<timestamp>.mp4)")
	f.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "replace an existing output")
	f.StringVar(&cfg.TimelinePath, "timeline", cfg.TimelinePath, "render a previously dumped timeline instead of the quote")
	f.StringVar(&cfg.DumpTimeline, "dump-timeline", cfg.DumpTimeline, "write the synthesized timeline as YAML")

	f.Float64Var(&cfg.UnitSpeed, "unit-speed", cfg.UnitSpeed, "seconds per character")
	f.Float64Var(&cfg.InitialDelay, "initial-delay", cfg.InitialDelay, "blank lead before the first character, seconds")
	f.Float64Var(&cfg.EndingDelay, "ending-delay", cfg.EndingDelay, "hold after the last reveal, seconds")
	f.Float64Var(&cfg.AuthorLogoGap, "author-logo-gap", cfg.AuthorLogoGap, "pause between author and logo, seconds")
	f.Float64Var(&cfg.RevealSpan, "reveal-span", cfg.RevealSpan, "per-character reveal animation length, seconds")
	f.IntVar(&cfg.MaxChars, "max-chars", cfg.MaxChars, "maximum characters per display line")

	f.IntVar(&cfg.Width, "width", cfg.Width, "canvas width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "canvas height")
	f.StringVar(&cfg.Preset, "preset", cfg.Preset, "aspect preset: 16:9, 9:16, 4:5, 1:1")
	f.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames per second")
	f.StringVar(&cfg.Style, "style", cfg.Style, "reveal style: fade, rise, drop, slide, type, random")
	f.StringVar(&cfg.FontPath, "font", cfg.FontPath, "TrueType/OpenType font (default: Go Regular)")
	f.Float64Var(&cfg.FontSize, "font-size", cfg.FontSize, "font size in pixels (0: derive from width)")
	f.StringVar(&cfg.LogoPath, "logo", cfg.LogoPath, "logo image (png, jpeg, pdf, svg)")
	f.StringVar(&cfg.CodeURL, "code-url", cfg.CodeURL, "content of the scannable code shown after the logo")
	f.BoolVar(&cfg.NoCode, "no-code", cfg.NoCode, "omit the scannable code")

	f.StringVar(&cfg.AudioPath, "audio", cfg.AudioPath, "background track (default: random track from --audio-dir)")
	f.StringVar(&cfg.AudioDir, "audio-dir", cfg.AudioDir, "directory of candidate background tracks")
	f.Float64Var(&cfg.SafetyMargin, "safety-margin", cfg.SafetyMargin, "seconds of track kept after the video ends")
	f.Float64Var(&cfg.FadeSpan, "fade", cfg.FadeSpan, "audio fade in/out length, seconds")

	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel renderers (0: size from CPU and memory)")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for style, palette and audio choices (0: time based)")
	f.DurationVar(&cfg.ReadyTimeout, "ready-timeout", cfg.ReadyTimeout, "maximum wait for one frame to render")
	f.StringVar(&cfg.VideoEncoder, "encoder", cfg.VideoEncoder, "H.264 encoder (default: best available)")
	f.IntVar(&cfg.Quality, "quality", cfg.Quality, "quality (0: auto; x264 CRF, VideoToolbox bitrate = Q*100kbit/s)")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "debug logging")
	f.BoolVar(&cfg.ShowStats, "stats", cfg.ShowStats, "print a performance report and append it to benchmark.log")

	if err := root.Execute(); err != nil {
		log := logging.Logger()
		log.Error().Err(err).Msg("quote2video")
		os.Exit(domain.ExitCode(err))
	}
}
