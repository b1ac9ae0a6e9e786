package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jarl-lint/jarl/internal/config"
	"github.com/jarl-lint/jarl/internal/log"
	"github.com/jarl-lint/jarl/internal/output"
	"github.com/jarl-lint/jarl/internal/scanner"
	"github.com/jarl-lint/jarl/internal/vcs"
	"github.com/jarl-lint/jarl/pkg/cache"
	"github.com/jarl-lint/jarl/pkg/lint"
	"github.com/jarl-lint/jarl/pkg/rpkg"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Lint R files",
	Long: `Lints the given files and directories (default: the current directory).
Directories are walked recursively for .R and .r files, honoring .jarlignore
patterns. With --fix, safe fixes are applied in place; this refuses to run
outside version control or on a dirty worktree unless overridden.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fix, _ := cmd.Flags().GetBool("fix")
		allowDirty, _ := cmd.Flags().GetBool("allow-dirty")
		allowNoVCS, _ := cmd.Flags().GetBool("allow-no-vcs")
		format, _ := cmd.Flags().GetString("format")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		selectRules, _ := cmd.Flags().GetString("select-rules")
		ignoreRules, _ := cmd.Flags().GetString("ignore-rules")
		jobs, _ := cmd.Flags().GetInt("jobs")
		configPath, _ := cmd.Flags().GetString("config")

		return runCheck(checkOptions{
			paths:       args,
			fix:         fix,
			allowDirty:  allowDirty,
			allowNoVCS:  allowNoVCS,
			format:      format,
			noCache:     noCache,
			selectRules: selectRules,
			ignoreRules: ignoreRules,
			jobs:        jobs,
			configPath:  configPath,
		})
	},
}

type checkOptions struct {
	paths       []string
	fix         bool
	allowDirty  bool
	allowNoVCS  bool
	format      string
	noCache     bool
	selectRules string
	ignoreRules string
	jobs        int
	configPath  string
}

func runCheck(opts checkOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger := log.Default()
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// CLI rule selection overrides the config file; ignores accumulate.
	if opts.selectRules != "" {
		cfg.Select = splitRules(opts.selectRules)
	}
	if opts.ignoreRules != "" {
		cfg.Ignore = append(cfg.Ignore, splitRules(opts.ignoreRules)...)
	}
	if opts.format != "" {
		cfg.Format = config.Format(opts.format)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths := opts.paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if opts.fix {
		if err := vcs.CheckVersionControl(paths[0], opts.allowNoVCS, opts.allowDirty); err != nil {
			return err
		}
	}

	files, err := discoverFiles(paths, cfg.Exclude)
	if err != nil {
		return err
	}
	logger.Debug("discovered files", "count", len(files))

	duplicates := rpkg.Duplicates(files)

	var resultCache *cache.Cache
	cachePath := cache.DefaultPath(".")
	if cfg.Cache && !opts.noCache && !opts.fix {
		resultCache = cache.New(cache.Options{})
		if err := resultCache.Load(cachePath); err != nil {
			logger.Warn("could not load cache", "path", cachePath, "error", err)
		}
	}

	runner := &lint.Runner{
		Options: lint.Options{
			Rules:         cfg.EnabledRules(),
			StopFunctions: cfg.StopFunctions,
			Fixable:       cfg.Fixable,
			Unfixable:     cfg.Unfixable,
		},
		Fix:        opts.fix,
		Workers:    opts.jobs,
		Duplicates: duplicates,
	}
	if resultCache != nil {
		runner.Cache = resultCache
	}

	results := runner.Run(files)

	if resultCache != nil {
		if err := resultCache.Save(cachePath); err != nil {
			logger.Warn("could not save cache", "path", cachePath, "error", err)
		}
	}

	return report(cfg, results, logger)
}

// report renders the results and translates them to the process outcome.
func report(cfg *config.Config, results []lint.Result, logger log.Logger) error {
	var rendered []output.FileDiagnostics
	total, fixable, failed := 0, 0, 0

	for _, res := range results {
		if res.Err != nil {
			logger.Error("check failed", "error", res.Err)
			failed++
			continue
		}
		if len(res.Diagnostics) == 0 {
			continue
		}

		content, err := os.ReadFile(res.Path)
		if err != nil {
			logger.Error("check failed", "error", err)
			failed++
			continue
		}

		total += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			if !d.Fix.Empty() && !d.Fix.SkipDueToComments {
				fixable++
			}
		}
		rendered = append(rendered, output.FileDiagnostics{
			Path:        displayPath(res.Path),
			Content:     content,
			Diagnostics: res.Diagnostics,
		})
	}

	emitter := output.Emitter{Color: log.IsTerminal(os.Stdout)}
	switch cfg.Format {
	case config.FormatJSON:
		if err := emitter.EmitJSON(os.Stdout, rendered); err != nil {
			return err
		}
	default:
		if err := emitter.EmitText(os.Stdout, rendered); err != nil {
			return err
		}
		if total > 0 {
			fmt.Println()
		}
		if err := emitter.EmitSummary(os.Stdout, total, fixable); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to check %d file(s)", failed)
	}
	if total > 0 {
		return ErrViolationsFound
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// discoverFiles expands the path arguments into the list of R files to
// check, preserving argument order and dropping duplicates.
func discoverFiles(paths []string, exclude []string) ([]string, error) {
	opts := scanner.DefaultOptions()
	opts.ExtraExcludes = exclude

	seen := make(map[string]bool)
	var files []string
	for _, path := range paths {
		found, err := scanner.ScanWithOptions(path, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f.FullPath] {
				seen[f.FullPath] = true
				files = append(files, f.FullPath)
			}
		}
	}
	return files, nil
}

// displayPath shortens an absolute path to be relative to the working
// directory when possible.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func splitRules(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	checkCmd.Flags().Bool("fix", false, "Apply safe fixes in place")
	checkCmd.Flags().Bool("allow-dirty", false, "Apply fixes even if the worktree has uncommitted changes")
	checkCmd.Flags().Bool("allow-no-vcs", false, "Apply fixes even without version control")
	checkCmd.Flags().String("format", "", "Output format (text or json)")
	checkCmd.Flags().Bool("no-cache", false, "Do not read or write the result cache")
	checkCmd.Flags().String("select-rules", "", "Comma-separated list of rules to run")
	checkCmd.Flags().String("ignore-rules", "", "Comma-separated list of rules to skip")
	checkCmd.Flags().IntP("jobs", "j", 0, "Number of parallel workers (0 = one per file)")
	checkCmd.Flags().String("config", "", "Config file path")
	RootCmd.AddCommand(checkCmd)
}
