package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vhnw configuration",
	Long: `Manage vhnw configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (VHNW_*)
3. Config file (~/.vhnw/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration (defaults merged with config file, env vars and flags).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "  Current Configuration")
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w)
		fmt.Fprintln(w, string(yamlData))
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Configuration hierarchy (highest to lowest priority):")
		fmt.Fprintln(w, "  1. CLI flags")
		fmt.Fprintln(w, "  2. Environment variables (VHNW_*, e.g. VHNW_SEARCH_BASE_URL)")
		fmt.Fprintln(w, "  3. Config file (~/.vhnw/config.yaml)")
		fmt.Fprintln(w, "  4. Defaults")
		fmt.Fprintln(w)

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.vhnw/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath, err := defaultConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'vhnw config show' to view it, or delete it first to recreate", configPath)
		}

		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✓ Created default configuration: %s\n", configPath)
		fmt.Fprintf(w, "\nTo list the organizations you can enable:\n")
		fmt.Fprintf(w, "  vhnw organizations\n")
		fmt.Fprintf(w, "\nTo enable one:\n")
		fmt.Fprintf(w, "  vhnw config set options.enabled_municipalities '[gemeente_utrecht]'\n")
		fmt.Fprintf(w, "  vhnw config set options.filter_organizations true\n")
		fmt.Fprintf(w, "\n")

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting in the config file",
	Long: `Set writes a single setting to the config file. Values are parsed as
YAML, so lists use flow syntax:

  vhnw config set options.enabled_provinces '[provincie_utrecht, provincie_limburg]'
  vhnw config set options.filter_organizations true
  vhnw config set cache.backend sqlite

Changing the enabled organizations or the organization filter clears the
result cache.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("invalid value %q: %w", raw, err)
		}
		if value == nil {
			value = raw
		}

		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			p, err := defaultConfigPath()
			if err != nil {
				return err
			}
			if err := writeDefaultConfig(p); err != nil {
				return err
			}
			viper.SetConfigFile(p)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
			configPath = p
		}

		viper.Set(key, value)
		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		// validate and apply scope changes to the cache right away
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Cache.Enabled {
			_, closer, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %v (%s)\n", key, value, configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// writeDefaultConfig writes the defaults with a short header
func writeDefaultConfig(configPath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	// Helper for writing with error checking
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(f, format, a...)
	}

	printf("# vhnw configuration file\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (VHNW_*)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n")
	printf("#\n")
	printf("# Durations accept Go syntax (90m, 2h) and days (14d).\n\n")
	printf("%s", yamlData)

	return err
}
