package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "0.1.0"

// Config carries the runtime settings, bound to flags and environment
// variables by newCmd.
type Config struct {
	bind      string
	port      int
	projectID string
	region    string
	models    []string
	countdown time.Duration
	pace      time.Duration
	tlsCert   string
	tlsKey    string
	verbose   bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if len(c.models) < 2 {
		return fmt.Errorf("at least two models are required for a race, got %d", len(c.models))
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CROSSRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "crossrace",
		Short:         "Race LLM backends against each other on a slang crossword.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CROSSRACE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: CROSSRACE_PORT)")
	fs.StringVar(&cfg.projectID, "project-id", "", "GCP project for Vertex AI (env: CROSSRACE_PROJECT_ID)")
	fs.StringVar(&cfg.region, "region", defaultRegion, "Vertex AI region (env: CROSSRACE_REGION)")
	fs.StringSliceVar(&cfg.models, "models", []string{"gemini-2.5-flash", "gemini-2.5-flash-lite", "gemini-2.5-pro"}, "competitor models (env: CROSSRACE_MODELS)")
	fs.DurationVar(&cfg.countdown, "countdown", 3*time.Second, "pre-race countdown (env: CROSSRACE_COUNTDOWN)")
	fs.DurationVar(&cfg.pace, "pace", 400*time.Millisecond, "pause between clues, for watchability (env: CROSSRACE_PACE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: CROSSRACE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: CROSSRACE_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: CROSSRACE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("crossrace v{{.Version}}\n")

	cmd.SilenceUsage = true

	return cmd
}
