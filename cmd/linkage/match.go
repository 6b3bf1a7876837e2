package main

import (
	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/alias"
	"github.com/scholref/linkage/internal/config"
	"github.com/scholref/linkage/internal/match"
	"github.com/scholref/linkage/internal/record"
)

var (
	matchORCID   string
	matchExplain bool
)

// MatchResponse is the JSON shape of a match result.
type MatchResponse struct {
	Matched bool     `json:"matched"`
	Slug    string   `json:"slug,omitempty"`
	Name    string   `json:"name,omitempty"`
	Rule    string   `json:"rule,omitempty"`
	Also    []string `json:"also_plausible,omitempty"`
}

var matchCmd = &cobra.Command{
	Use:   "match <name>",
	Short: "Match one author name against the roster",
	Long: `Match resolves a single raw author name (optionally with an ORCID)
against the workspace roster, using the same decision procedure the
build applies: persistent identifier first, then the curated alias
table, then fuzzy name heuristics in roster order.

With --explain the response names the rule that fired and any other
roster entries a fuzzy rule would also have accepted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := workspaceRoot()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		roster, err := loadRoster(cfg, root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		aliases, err := alias.Load(cfg.AliasPath(root))
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}

		author := record.Author{Name: args[0], ORCID: matchORCID}
		res, ok := match.AuthorDetailed(author, roster, aliases)

		resp := MatchResponse{Matched: ok}
		if ok {
			resp.Slug = res.Person.Slug
			resp.Name = res.Person.CanonicalName
			if matchExplain {
				resp.Rule = string(res.Rule)
				for _, p := range res.Ambiguous {
					resp.Also = append(resp.Also, p.Slug)
				}
			}
		}

		if humanOutput {
			if !ok {
				outputHuman("no match\n")
			} else if matchExplain {
				outputHuman("%s (%s) via %s\n", resp.Slug, resp.Name, resp.Rule)
			} else {
				outputHuman("%s (%s)\n", resp.Slug, resp.Name)
			}
			return
		}
		outputJSON(resp)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchORCID, "orcid", "", "Persistent identifier supplied with the name")
	matchCmd.Flags().BoolVar(&matchExplain, "explain", false, "Report the rule that matched and other plausible candidates")
	rootCmd.AddCommand(matchCmd)
}
