package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/analyzer"
)

var skillsCmd = &cobra.Command{
	Use:   "skills [filter]",
	Short: "List the skill dictionary, including extra skills from the config",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger, config := setup()

		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}

		entries := dictionaryEntries(analyzer.NewDictionary(config.Analyzer.ExtraSkills), filter)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\n", entry.Term, entry.Canonical)
		}
		if err := w.Flush(); err != nil {
			logger.Fatal("printing skills", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}

// dictionaryEntries returns entries whose term or display name contains filter, sorted by term.
func dictionaryEntries(dict *analyzer.Dictionary, filter string) []analyzer.Entry {
	filter = strings.ToLower(strings.TrimSpace(filter))

	var out []analyzer.Entry
	for _, entry := range dict.Entries() {
		if filter != "" &&
			!strings.Contains(entry.Term, filter) &&
			!strings.Contains(strings.ToLower(entry.Canonical), filter) {
			continue
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}
