package main

import (
	"context"
	"log"
	"net/http"

	"librarynet/internal/config"
	"librarynet/internal/ledger"
	"librarynet/internal/rpc"
)

func main() {
	config.Load()
	addr := config.GetEnv("LEDGER_ADDR", config.DefaultLedgerAddr)

	service := ledger.NewService(ledger.NewStore())
	server := rpc.NewServer("ledger", service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Run(ctx)

	log.Printf("ledger service listening on %s", addr)
	if err := rpc.ListenAndServe(addr, server); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
