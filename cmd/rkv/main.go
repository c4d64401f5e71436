// Command rkv is a single-node, in-memory RESP key-value store. It listens
// on TCP/IPv4 port 16379, accepts no flags and recognizes no environment
// variables, and holds no state across restarts.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rkv-project/rkv/internal/command"
	"github.com/rkv-project/rkv/internal/logging"
	"github.com/rkv-project/rkv/internal/server"
	"github.com/rkv-project/rkv/internal/store"
)

const listenAddr = ":16379"

func main() {
	log := logging.New(logging.LevelWarning)
	logging.SetDefault(log)
	defer log.Sync()

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rkv: %v\n", err)
		os.Exit(1)
	}

	keyspace := store.NewKeyspace()
	registry := command.NewRegistry()
	srv := server.New(keyspace, registry, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warning("signal received, shutting down")
		srv.Shutdown()
	}()

	if err := srv.Serve(ln); err != nil {
		log.Error("server exited: %v", err)
		os.Exit(1)
	}
}
