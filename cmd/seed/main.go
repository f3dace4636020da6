// Command main generates a local fixture dataset for development.
package main

import (
	"flag"
	"log"

	"modboard/internal/config"
	"modboard/internal/middleware"
	"modboard/internal/seed"
)

func main() {
	count := flag.Int("posts", 30, "Number of posts per partition")
	seedVal := flag.Uint64("seed", 1, "Random seed for reproducible output")
	dir := flag.String("dir", "", "Target directory (defaults to DATA_DIR)")
	flag.Parse()

	target := *dir
	if target == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		target = cfg.DataDir
	}

	log.Printf("Seeding %d posts per partition into %s...", *count, target)

	g := seed.New(*seedVal, middleware.Logger)
	if err := g.Write(target, *count); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done.")
}
