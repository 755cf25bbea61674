// Command mindmap is a terminal client for the mind map server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/mindmap/client"
	"github.com/persistorai/mindmap/internal/models"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = client.DefaultBaseURL

var (
	apiClient    *client.Client
	logger       *logrus.Logger
	flagURL      string
	flagKey      string
	flagFmt      string
	flagRootID   int64
	flagRootName string
	flagTimeout  time.Duration
	flagVerbose  bool
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("mindmap version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("mindmap version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mindmap",
		Short:   "mindmap CLI: grow, inspect, export and prune a keyword mind map",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			logger = newLogger(cmd)

			opts := []client.Option{client.WithTimeout(flagTimeout)}
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Mind map server API URL (env: MINDMAP_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key (env: MINDMAP_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")
	rootCmd.PersistentFlags().Int64Var(&flagRootID, "root-id", int64(models.DefaultRootID), "Id of the hidden root node")
	rootCmd.PersistentFlags().StringVar(&flagRootName, "root-name", models.DefaultRootName, "Name of the hidden root node")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log command progress to stderr")

	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if flagVerbose {
		l.SetLevel(logrus.DebugLevel)
	}

	return l
}

func rootRule() models.RootRule {
	return models.RootRule{ID: models.NodeID(flagRootID), Name: flagRootName}
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("MINDMAP_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("MINDMAP_API_KEY")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".mindmap", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	resolvedURL := cfg.URL
	resolvedKey := cfg.APIKey
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.APIKey != "" {
				resolvedKey = p.APIKey
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagKey == "" && resolvedKey != "" {
		flagKey = resolvedKey
	}
}
