package main

import (
	"context"
	"log"
	"net/http"

	"librarynet/internal/catalog"
	"librarynet/internal/config"
	"librarynet/internal/rpc"
)

func main() {
	config.Load()
	addr := config.GetEnv("CATALOG_ADDR", config.DefaultCatalogAddr)

	seed := catalog.DefaultSeed()
	if path := config.GetEnv("CATALOG_SEED", ""); path != "" {
		var err error
		if seed, err = catalog.LoadSeed(path); err != nil {
			log.Fatalf("loading catalog seed: %v", err)
		}
	}

	service := catalog.NewService(catalog.NewStore(seed))
	server := rpc.NewServer("catalog", service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Run(ctx)

	log.Printf("catalog service listening on %s (%d books seeded)", addr, len(seed))
	if err := rpc.ListenAndServe(addr, server); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
