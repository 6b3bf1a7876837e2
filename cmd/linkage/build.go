package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/alias"
	"github.com/scholref/linkage/internal/config"
	"github.com/scholref/linkage/internal/index"
	"github.com/scholref/linkage/internal/ingest"
	"github.com/scholref/linkage/internal/resolve"
	"github.com/scholref/linkage/internal/storage"
)

// BuildResponse summarizes one batch run.
type BuildResponse struct {
	Status       string `json:"status"`
	Publications int    `json:"publications"`
	LookupKeys   int    `json:"lookup_keys"`
	Credits      int    `json:"credits"`
	Skipped      int    `json:"skipped_records"`
	CacheDB      string `json:"cache_db"`
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve all source tiers and rebuild the cache",
	Long: `Build loads the roster, the alias table, and the three source tiers
(curated records, aggregator snapshot, registry snapshot), merges them
into one canonical publication per work, resolves every raw author
against the roster, verifies the two association indexes agree, and
rebuilds the SQLite cache.

Malformed source records are logged and skipped; a build never aborts
on individual record defects.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := workspaceRoot()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if err := cfg.Validate(root); err != nil {
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

		curated, errs := ingest.ReadCuratedDir(cfg.CuratedPath(root))
		skipped := reportSkipped("curated", errs)
		aggregator, errs := ingest.ReadSnapshotFile(cfg.AggregatorPath(root), ingest.ParseAggregatorWork)
		skipped += reportSkipped("aggregator", errs)
		registry, errs := ingest.ReadSnapshotFile(cfg.RegistryPath(root), ingest.ParseRegistryWork)
		skipped += reportSkipped("registry", errs)

		tiers := resolve.Tiers(curated, aggregator, registry)
		lookup := resolve.BuildLookup(tiers)
		corpus := resolve.CanonicalRecords(tiers, lookup)
		log.Debugf("resolved %d canonical publications from %d raw records",
			len(corpus), len(curated)+len(aggregator)+len(registry))

		byPub, _, err := index.Build(corpus, roster, aliases)
		if err != nil {
			exitWithError(ExitDataError, "index verification: %v", err)
		}

		if err := os.MkdirAll(filepath.Dir(cfg.CacheDBPath(root)), 0755); err != nil {
			exitWithError(ExitError, "creating cache dir: %v", err)
		}
		if err := storage.WritePublications(cfg.PublicationsPath(root), corpus); err != nil {
			exitWithError(ExitError, "writing publications: %v", err)
		}

		db, err := storage.OpenDB(cfg.CacheDBPath(root))
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		defer db.Close()

		if _, err := db.Rebuild(lookup, byPub); err != nil {
			exitWithError(ExitError, "rebuilding cache: %v", err)
		}
		pubs, keys, credits, err := db.Counts()
		if err != nil {
			exitWithError(ExitError, "counting cache rows: %v", err)
		}

		resp := BuildResponse{
			Status:       "ok",
			Publications: pubs,
			LookupKeys:   keys,
			Credits:      credits,
			Skipped:      skipped,
			CacheDB:      cfg.CacheDBPath(root),
		}
		if humanOutput {
			outputHuman("Resolved %d publications (%d keys, %d credits, %d records skipped)\n",
				resp.Publications, resp.LookupKeys, resp.Credits, resp.Skipped)
		} else {
			outputJSON(resp)
		}
	},
}

// reportSkipped logs each per-record parse failure and returns how
// many there were. Defects are local: the batch always continues.
func reportSkipped(tier string, errs []error) int {
	for _, err := range errs {
		log.Warnf("%s: skipping record: %v", tier, err)
	}
	return len(errs)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
