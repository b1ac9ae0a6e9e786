package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jarl-lint/jarl/pkg/rules"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available lint rules",
	Long: `Lists every rule in the registry with its categories, whether it runs by
default, and whether it offers an automatic fix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runRules(cmd, jsonOutput)
	},
}

type ruleListing struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Default    string   `json:"default"`
	Fix        string   `json:"fix"`
}

func runRules(cmd *cobra.Command, jsonOutput bool) error {
	listings := make([]ruleListing, 0, len(rules.All()))
	for _, r := range rules.All() {
		listings = append(listings, ruleListing{
			Name:       r.Name,
			Categories: r.Categories,
			Default:    string(r.DefaultStatus),
			Fix:        string(r.FixStatus),
		})
	}

	if jsonOutput {
		data, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORIES\tDEFAULT\tFIX")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Name, strings.Join(l.Categories, ","), l.Default, l.Fix)
	}
	return w.Flush()
}

func init() {
	rulesCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(rulesCmd)
}
