package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/atihsingh22/research-agent/internal/library"
	"github.com/atihsingh22/research-agent/internal/pdf"
	"github.com/atihsingh22/research-agent/internal/summarizer"
)

var addCmd = &cobra.Command{
	Use:   "add <file.pdf|file.txt> [more files...]",
	Short: "Index papers from PDF or plain text files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)
		lib := mustOpenLibrary(cfg)
		defer lib.Close()
		sum := summarizer.NewFrequencySummarizer()

		for _, path := range args {
			var (
				text     string
				title    string
				sections map[string]string
				pages    int
			)
			if strings.EqualFold(filepath.Ext(path), ".pdf") {
				var err error
				text, pages, err = pdf.ExtractText(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				title = pdf.ExtractTitle(text)
				sections = pdf.ExtractSections(text)
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%s contains no extractable text", path)
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			id := uuid.NewString()
			added, err := eng.AddPaper(cmd.Context(), id, title, text, sections, nil)
			if err != nil {
				return fmt.Errorf("indexing %s: %w", path, err)
			}

			abstract := pdf.ExtractAbstract(text)
			if abstract == "" {
				abstract, _ = sum.Summarize(text, cfg.Summarizer.MaxSentences)
			}
			if err := lib.Save(cmd.Context(), library.Paper{
				ID:       id,
				Title:    title,
				Abstract: abstract,
				Filename: filepath.Base(path),
				Pages:    pages,
			}); err != nil {
				return fmt.Errorf("cataloging %s: %w", path, err)
			}
			fmt.Printf("%s  %q  %d documents\n", id, title, added)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <paper-id>",
	Short: "Remove a paper and rebuild the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)
		lib := mustOpenLibrary(cfg)
		defer lib.Close()

		if err := eng.RemovePaper(cmd.Context(), args[0]); err != nil {
			return err
		}
		if err := lib.Delete(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog entry not removed: %v\n", err)
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
}
