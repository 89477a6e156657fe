package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentlens/internal/document"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE...",
	Short: "Print the text extracted locally from documents",
	Long: "Extracts plain text from .txt, .md, .pdf and .docx files without contacting the backend.\n" +
		"Useful to check that a resume is machine-readable before submitting it.",
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	failed := 0
	for i, path := range args {
		doc, err := document.Load(path)
		if err != nil {
			logger.Error("failed to read document", "path", path, "error", err)
			failed++
			continue
		}

		text, err := document.ExtractText(doc)
		if errors.Is(err, document.ErrUnsupported) {
			logger.Warn("no local text extraction for this format", "file", doc.Name)
			failed++
			continue
		}
		if err != nil {
			logger.Error("failed to extract text", "file", doc.Name, "error", err)
			failed++
			continue
		}

		if len(args) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("==> %s <==\n", doc.Name)
		}
		fmt.Println(strings.TrimSpace(text))
	}

	if failed > 0 {
		logger.Error("extraction incomplete", "failed", failed, "total", len(args))
		os.Exit(1)
	}
	return nil
}
