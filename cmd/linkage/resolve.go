package main

import (
	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/config"
	"github.com/scholref/linkage/internal/record"
)

// ResolveResponse is the JSON shape of a key lookup.
type ResolveResponse struct {
	Found       bool                `json:"found"`
	Publication *record.Publication `json:"publication,omitempty"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Look a publication up by any historical identifier form",
	Long: `Resolve looks a publication up in the built cache by any key it was
registered under: its native identifier, its https://doi.org/ form,
or (for curated records) the legacy http://dx.doi.org/ form.`,
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
		db := openCache(cfg, root)
		defer db.Close()

		pub, err := db.ResolveKey(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			if pub == nil {
				outputHuman("not found\n")
			} else {
				outputHuman("%s\n  %s (%d)\n", pub.CanonicalID, pub.Title, pub.Year)
			}
			return
		}
		outputJSON(ResolveResponse{Found: pub != nil, Publication: pub})
	},
}

// AuthorsResponse is the JSON shape of a publication's resolved authors.
type AuthorsResponse struct {
	Found bool     `json:"found"`
	Slugs []string `json:"slugs,omitempty"`
}

var authorsCmd = &cobra.Command{
	Use:   "authors <key>",
	Short: "List the resolved roster authors of a publication",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := workspaceRoot()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		db := openCache(cfg, root)
		defer db.Close()

		pub, err := db.ResolveKey(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if pub == nil {
			if humanOutput {
				outputHuman("not found\n")
			} else {
				outputJSON(AuthorsResponse{Found: false})
			}
			return
		}

		slugs, err := db.AuthorSlugs(pub.CanonicalID)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			for _, s := range slugs {
				outputHuman("%s\n", s)
			}
			return
		}
		outputJSON(AuthorsResponse{Found: true, Slugs: slugs})
	},
}

// WorksResponse is the JSON shape of a person's publication list.
type WorksResponse struct {
	Slug         string                `json:"slug"`
	Publications []*record.Publication `json:"publications,omitempty"`
}

var worksCmd = &cobra.Command{
	Use:   "works <slug>",
	Short: "List the cached publications crediting a roster person",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := workspaceRoot()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		db := openCache(cfg, root)
		defer db.Close()

		pubs, err := db.PublicationsOf(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}

		if humanOutput {
			for _, p := range pubs {
				outputHuman("%s  %s (%d)\n", p.CanonicalID, p.Title, p.Year)
			}
			return
		}
		outputJSON(WorksResponse{Slug: args[0], Publications: pubs})
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(authorsCmd)
	rootCmd.AddCommand(worksCmd)
}
