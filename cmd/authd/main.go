package main

import (
	"context"
	"log"
	"net/http"

	"librarynet/internal/auth"
	"librarynet/internal/config"
	"librarynet/internal/rpc"
)

func main() {
	config.Load()
	addr := config.GetEnv("AUTH_ADDR", config.DefaultAuthAddr)
	secret := config.MustGetEnv("JWT_SECRET")

	service := auth.NewService(auth.NewStore(), secret)
	server := rpc.NewServer("auth", service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Run(ctx)

	log.Printf("auth service listening on %s", addr)
	if err := rpc.ListenAndServe(addr, server); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
