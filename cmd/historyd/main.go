package main

import (
	"context"
	"log"
	"net/http"

	"librarynet/internal/config"
	"librarynet/internal/history"
	"librarynet/internal/ledger"
	"librarynet/internal/rpc"
)

func main() {
	config.Load()
	addr := config.GetEnv("HISTORY_ADDR", config.DefaultHistoryAddr)
	ledgerURL := config.GetEnv("LEDGER_URL", config.DefaultLedgerURL)
	timeout := config.GetDurationEnv("RPC_TIMEOUT", config.DefaultRPCTimeout)

	ledgerClient := ledger.NewClient(rpc.NewClient(ledgerURL, rpc.WithTimeout(timeout)))
	service := history.NewService(ledgerClient)
	server := rpc.NewServer("history", service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Run(ctx)

	log.Printf("history service listening on %s (ledger at %s)", addr, ledgerURL)
	if err := rpc.ListenAndServe(addr, server); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
