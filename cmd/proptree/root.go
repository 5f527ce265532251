package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/builder"
	"github.com/gogpu/proptree/document"
	"github.com/gogpu/proptree/layout"
)

const envPrefix = "PROPTREE"

// config mirrors the keys read from flags, proptree.toml and PROPTREE_*
// environment variables.
type config struct {
	Viewport struct {
		Width  float64 `mapstructure:"width"`
		Height float64 `mapstructure:"height"`
	} `mapstructure:"viewport"`
	Scrolling struct {
		Threaded bool `mapstructure:"threaded"`
	} `mapstructure:"scrolling"`
	Document struct {
		Strict bool `mapstructure:"strict"`
	} `mapstructure:"document"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// app holds the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "proptree",
		Short: "Build and inspect paint property trees of HTML documents",
		Long: `proptree lays out an HTML document with inline styles, builds its
transform, clip, effect and scroll trees, and prints or renders the result.

Settings are read from flags, then PROPTREE_* environment variables, then
proptree.toml in the current directory or $HOME/.config/proptree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./proptree.toml)")
	flags.Float64("viewport-width", 800, "viewport width in CSS pixels")
	flags.Float64("viewport-height", 600, "viewport height in CSS pixels")
	flags.Bool("threaded-scrolling", true, "allow scrolling off the main thread")
	flags.Bool("strict", false, "fail on CSS that cannot be parsed")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"viewport.width":     "viewport-width",
		"viewport.height":    "viewport-height",
		"scrolling.threaded": "threaded-scrolling",
		"document.strict":    "strict",
		"log.level":          "log-level",
	} {
		// BindPFlag only fails for a nil flag.
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(
		newDumpCmd(a),
		newRectsCmd(a),
		newRenderCmd(a),
	)
	return cmd
}

// initialize reads the configuration and installs the logger.
func (a *app) initialize(logOutput io.Writer) error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.SetConfigName("proptree")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "proptree"))
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.cfg.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	proptree.SetLogger(slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadFrame loads the document at path ("-" for stdin) and builds its
// property trees.
func (a *app) loadFrame(cmd *cobra.Command, path string) (*layout.Frame, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	frame, err := document.Load(r,
		document.WithViewport(a.cfg.Viewport.Width, a.cfg.Viewport.Height),
		document.WithSettings(layout.Settings{ThreadedScrollingDisabled: !a.cfg.Scrolling.Threaded}),
		document.WithStrict(a.cfg.Document.Strict),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	builder.New().UpdateFrame(frame)
	return frame, nil
}
