package main

import (
	"github.com/spf13/cobra"

	"github.com/scholref/linkage/internal/pdf"
)

// ScanPDFResponse is the JSON skeleton of a curated record, ready to
// be filled in by hand and dropped into the curated directory.
type ScanPDFResponse struct {
	ID      string   `json:"id"`
	DOI     string   `json:"doi"`
	Title   string   `json:"title"`
	Year    string   `json:"year"`
	Venue   string   `json:"venue"`
	Authors []string `json:"authors"`
}

var scanPDFCmd = &cobra.Command{
	Use:   "scan-pdf <file>",
	Short: "Extract a DOI from a PDF to seed a curated record",
	Long: `Scan-pdf searches the first pages of a PDF for a DOI and emits a
curated record skeleton with the normalized DOI filled in. The
remaining fields are left for hand curation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d, err := pdf.ExtractDOI(args[0])
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", args[0], err)
		}
		if d == "" {
			log.Warnf("no DOI found in %s", args[0])
		}

		if humanOutput {
			outputHuman("%s\n", d)
			return
		}
		outputJSON(ScanPDFResponse{DOI: d, Authors: []string{}})
	},
}

func init() {
	rootCmd.AddCommand(scanPDFCmd)
}
