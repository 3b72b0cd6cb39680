// Command paillier-gateway exposes an HTTP API for submitting Paillier
// computation requests to the job queue and fetching their results.
//
// Requests are validated at the door but computed asynchronously by
// paillier-worker processes; the gateway itself never touches key
// material or plaintexts.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	paillier "github.com/rjmholt/simple-paillier"
	"github.com/rjmholt/simple-paillier/internal/queue"
	"github.com/rjmholt/simple-paillier/internal/storage"
)

const maxRequestBytes = 1 << 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		redisAddr   = flag.String("redis", "localhost:6379", "Redis address")
		redisDB     = flag.Int("redis-db", 0, "Redis database number")
		queueName   = flag.String("queue", "default", "queue name")
		storagePath = flag.String("storage", "/tmp/paillier-storage", "result storage path")
		httpAddr    = flag.String("http", ":8080", "HTTP API address")
	)
	flag.Parse()

	log.Printf("Paillier gateway starting...")
	log.Printf("  Redis: %s", *redisAddr)
	log.Printf("  Storage: %s", *storagePath)
	log.Printf("  HTTP: %s", *httpAddr)

	q, err := queue.NewRedisQueue(queue.RedisConfig{
		Addr: *redisAddr,
		DB:   *redisDB,
	}, *queueName)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}
	defer q.Close()

	store, err := storage.NewFileStorage(*storagePath)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	gw := &gateway{queue: q, storage: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/compute", gw.handleCompute)
	mux.HandleFunc("/job/", gw.handleJob)
	mux.HandleFunc("/result/", gw.handleResult)

	srv := &http.Server{
		Addr:         *httpAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API listening on %s", *httpAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %s", sig.String())
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

type gateway struct {
	queue   queue.Queue
	storage storage.Storage
}

// handleCompute accepts an encoded request message, validates it and
// queues it for a worker. Validation failures come back as HTTP 400
// with the parse error; a queued job answers with its ID.
func (g *gateway) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := paillier.DecodeRequest(body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := &queue.Job{
		ID:      newJobID(),
		Request: json.RawMessage(body),
	}
	if err := g.queue.Push(r.Context(), job); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"id":%q}`, job.ID)
}

func (g *gateway) handleJob(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/job/"):]
	if id == "" {
		http.Error(w, "job ID required", http.StatusBadRequest)
		return
	}

	job, err := g.queue.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, queue.ErrJobNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// handleResult returns the stored encoded response for a completed
// job. The payload is the same one-message wire format the TCP server
// answers with, ERROR responses included.
func (g *gateway) handleResult(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/result/"):]
	if id == "" {
		http.Error(w, "job ID required", http.StatusBadRequest)
		return
	}

	job, err := g.queue.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, queue.ErrJobNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	if job.ResultHandle == "" {
		http.Error(w, "job not completed", http.StatusConflict)
		return
	}

	data, err := g.storage.Load(r.Context(), storage.Handle(job.ResultHandle))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func newJobID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
