package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/merit/internal/config"
	"github.com/rohankatakam/merit/internal/errors"
	"github.com/rohankatakam/merit/internal/ui"
)

var (
	showFlag   bool
	deleteFlag bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store AI provider keys in the OS keychain",
	Long: `Save an API key for one provider in the OS keychain so it never has to live
in a config file or shell profile. Environment variables still take
precedence over the keychain.

  --show    list every provider and where its key comes from
  --delete  remove the provider's key from the keychain`,
	Example: `  merit configure --provider claude
  merit configure --show`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().BoolVar(&showFlag, "show", false, "show configured providers and key sources")
	configureCmd.Flags().BoolVar(&deleteFlag, "delete", false, "delete the provider's key from the keychain")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	km := config.NewKeyringManager()

	if showFlag {
		showKeys(out, km)
		return nil
	}

	if !km.IsAvailable() {
		return errors.ConfigError("OS keychain not available (headless system or Linux without libsecret). " +
			"Set the provider's environment variable instead")
	}

	name := providerName
	if name == "" {
		if !config.IsInteractive() {
			return errors.ValidationError("--provider is required when not running in a terminal")
		}
		chosen, err := ui.Pick(ctx, os.Stdin, os.Stderr, "Configure which provider?", ui.ProviderOptions(config.ProviderNames))
		if cancelled(err) {
			return nil
		}
		if err != nil {
			return err
		}
		name = chosen.Value
	}
	if cfg.LLM.ProviderConfig(name) == nil {
		return errors.ValidationErrorf("unknown provider %q", name)
	}

	if deleteFlag {
		if err := km.DeleteProviderKey(name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s key from the keychain\n", name)
		return nil
	}

	key, err := config.ReadSecret(os.Stderr, os.Stdin, fmt.Sprintf("Enter %s API key: ", name))
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return errors.ValidationError("no API key entered")
	}

	if err := km.SetProviderKey(name, key); err != nil {
		return err
	}

	fmt.Fprintf(out, "Saved %s key %s to the keychain (%s)\n", name, config.MaskAPIKey(key), keychainLocation())
	if os.Getenv(config.EnvVar(name)) != "" {
		fmt.Fprintf(out, "Note: %s is set and takes precedence over the keychain\n", config.EnvVar(name))
	}
	return nil
}

func showKeys(w io.Writer, km *config.KeyringManager) {
	for _, name := range config.ProviderNames {
		pc := cfg.LLM.ProviderConfig(name)
		info := km.KeySource(name, cfg)

		source := info.Source
		if source == "env" {
			source = "env " + config.EnvVar(name)
		}
		if info.Source == "config" {
			source += " (plaintext)"
		}
		fmt.Fprintf(w, "%-9s %-14s %-24s %s\n", name, config.MaskAPIKey(pc.APIKey), pc.Model, source)
	}
}

func keychainLocation() string {
	switch runtime.GOOS {
	case "darwin":
		return "Keychain Access, service " + config.KeyringService
	case "windows":
		return "Credential Manager, target " + config.KeyringService
	default:
		return "Secret Service, service " + config.KeyringService
	}
}
