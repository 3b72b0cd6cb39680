// Command paillier-server runs the Paillier TCP compute server.
//
// The server performs homomorphic operations on ciphertexts it cannot
// decrypt: it holds no key material at all.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rjmholt/simple-paillier/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr         = flag.String("addr", "localhost:1337", "TCP listen address")
		maxBytes     = flag.Int("max-bytes", server.DefaultMaxMessageBytes, "maximum request size in bytes")
		readTimeout  = flag.Duration("read-timeout", 30*time.Second, "per-request read timeout")
		writeTimeout = flag.Duration("write-timeout", 30*time.Second, "per-response write timeout")
	)
	flag.Parse()

	log.Printf("Paillier compute server starting...")
	log.Printf("  Address: %s", *addr)
	log.Printf("  Max message: %d bytes", *maxBytes)

	srv := server.New(server.Config{
		Address:         *addr,
		MaxMessageBytes: *maxBytes,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal: %s", sig.String())
		cancel()
	}()

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}

	log.Println("Shutdown complete")
	return nil
}
