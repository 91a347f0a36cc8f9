package main

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/atihsingh22/research-agent/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		eng := buildEngine(cfg)
		lib := mustOpenLibrary(cfg)
		defer lib.Close()

		var ans api.Answerer
		if syn := buildSynthesizer(cfg); syn != nil {
			ans = syn
		}
		uploadDir := filepath.Join(cfg.StoreDir, "uploads")
		handler := api.NewHandler(eng, lib, ans, uploadDir, cfg.Chat.MaxContextChars)

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      api.NewRouter(handler),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		}
		log.Printf("listening on %s", cfg.Server.Addr)
		return srv.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
