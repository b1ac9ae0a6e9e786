package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jarl-lint/jarl/internal/config"
	"github.com/jarl-lint/jarl/pkg/rules"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize jarl configuration interactively",
	Long: `Guides you through setting up jarl configuration step by step.
Creates a config file with rule selection, output and cache settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	// === SECTION 1: Rules ===
	var ignored []string
	var ruleOptions []huh.Option[string]
	for _, r := range rules.All() {
		label := r.Name
		if r.HasSafeFix() || r.HasUnsafeFix() {
			label += " (fixable)"
		}
		ruleOptions = append(ruleOptions, huh.NewOption(label, r.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Rules to disable").
				Description("All rules run by default. Pick the ones to turn off, or none.").
				Options(ruleOptions...).
				Value(&ignored),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Output and cache ===
	formatChoice := string(config.FormatText)
	useCache := true
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("How diagnostics are printed").
				Options(
					huh.NewOption("Text (one finding per line)", string(config.FormatText)),
					huh.NewOption("JSON", string(config.FormatJSON)),
				).
				Value(&formatChoice),
			huh.NewConfirm().
				Title("Result cache").
				Description("Skip re-checking files that have not changed?").
				Affirmative("Yes, cache results").
				Negative("No").
				Value(&useCache),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Stop functions ===
	var stopFunctions string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Extra terminating functions (optional, press Enter to skip)").
				Description("Comma-separated function names treated like stop(), e.g. from custom error helpers").
				Placeholder("my_abort, fail").
				Value(&stopFunctions),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 4: Config location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Project (./.jarl.yaml)", "project"),
					huh.NewOption("Global (~/.jarl/config.yaml)", "global"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var configPath string
	if saveLocationChoice == "global" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		configPath = filepath.Join(home, ".jarl", "config.yaml")
	} else {
		configPath = config.ProjectConfigFile
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	cfg := config.DefaultConfig()
	cfg.Ignore = ignored
	cfg.Format = config.Format(formatChoice)
	cfg.Cache = useCache
	cfg.StopFunctions = splitRules(stopFunctions)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Show config preview
	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	if len(cfg.Ignore) == 0 {
		fmt.Println("Disabled rules: none")
	} else {
		fmt.Printf("Disabled rules: %s\n", strings.Join(cfg.Ignore, ", "))
	}
	fmt.Printf("Format: %s\n", cfg.Format)
	fmt.Printf("Cache: %v\n", cfg.Cache)
	if len(cfg.StopFunctions) > 0 {
		fmt.Printf("Stop functions: %s\n", strings.Join(cfg.StopFunctions, ", "))
	}
	fmt.Println("================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)

	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
