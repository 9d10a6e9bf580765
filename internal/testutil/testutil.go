// Package testutil spins up real services in-process so tests can
// exercise the full request/reply path.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"librarynet/internal/rpc"
)

// StartService runs h behind a serialized rpc.Server on an ephemeral
// HTTP listener and returns the /rpc endpoint URL. Everything is torn
// down with the test.
func StartService(t *testing.T, name string, h rpc.Handler) string {
	t.Helper()

	server := rpc.NewServer(name, h)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go server.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts.URL + "/rpc"
}
