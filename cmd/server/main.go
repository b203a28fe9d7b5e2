package main

import (
	"log"
	"net/http"
	"os"

	"name-that-tune/internal/catalog"
	"name-that-tune/internal/config"
	"name-that-tune/internal/db"
	"name-that-tune/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Printf("running without persistence: %v", err)
		conn = nil
	} else if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	source := newTrackSource(cfg)
	srv := server.New(conn, source, cfg)
	if err := srv.RestoreFromDB(); err != nil {
		log.Printf("restore from database failed: %v", err)
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	log.Printf("name-that-tune server listening on %s provider=%s", addr, cfg.CatalogProvider)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

func newTrackSource(cfg config.Config) catalog.TrackSource {
	switch cfg.CatalogProvider {
	case "spotify":
		if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
			log.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required for the spotify provider")
		}
		return catalog.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	case "deezer":
		return catalog.NewDeezerClient()
	default:
		log.Fatalf("unknown catalog provider %q", cfg.CatalogProvider)
		return nil
	}
}
