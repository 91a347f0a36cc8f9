package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/atihsingh22/research-agent/internal/tui"
)

var (
	searchK      int
	searchPapers []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed papers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)

		results, err := eng.Search(cmd.Context(), args[0], searchK, searchPapers)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no results")
			return nil
		}
		for i, r := range results {
			origin := r.Title
			if r.Section != "" {
				origin += " / " + r.Section
			}
			fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, r.Score, origin, r.PaperID)
			content := r.Content
			if len(content) > 300 {
				content = content[:300] + "..."
			}
			fmt.Printf("    %s\n", content)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask a question across the indexed papers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)

		bundle, err := eng.MultiDocumentContext(cmd.Context(), args[0], searchPapers, cfg.Chat.MaxContextChars)
		if err != nil {
			return err
		}
		if bundle.Empty {
			fmt.Println("I could not find relevant information in the indexed papers to answer this question.")
			return nil
		}

		if syn := buildSynthesizer(cfg); syn != nil {
			fmt.Println(syn.Answer(cmd.Context(), args[0], bundle.Context))
		} else {
			fmt.Println(bundle.Context)
		}
		fmt.Println("\nSources:")
		for _, s := range bundle.Sources {
			origin := s.Title
			if s.Section != "" {
				origin += " / " + s.Section
			}
			fmt.Printf("  [%.3f] %s (%s)\n", s.Score, origin, s.PaperID)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)

		s := eng.Stats()
		fmt.Printf("papers:     %d\n", s.TotalPapers)
		fmt.Printf("documents:  %d\n", s.TotalDocuments)
		fmt.Printf("index rows: %d\n", s.IndexSize)
		fmt.Printf("dimension:  %d\n", s.Dimension)
		for _, id := range s.PaperIDs {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal search",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)

		_, err := tea.NewProgram(tui.New(eng)).Run()
		return err
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchK, "k", 5, "number of results")
	searchCmd.Flags().StringSliceVar(&searchPapers, "papers", nil, "restrict to these paper ids")
	chatCmd.Flags().StringSliceVar(&searchPapers, "papers", nil, "restrict to these paper ids")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tuiCmd)
}
