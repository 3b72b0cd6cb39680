// Command paillier-worker drains queued Paillier computation requests.
//
// Workers pop encoded requests from a Redis queue, run them through the
// ciphertext-only dispatcher, store the encoded response in payload
// storage and mark the job with the result handle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	paillier "github.com/rjmholt/simple-paillier"
	"github.com/rjmholt/simple-paillier/internal/queue"
	"github.com/rjmholt/simple-paillier/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		numWorkers  = flag.Int("workers", 4, "number of worker goroutines")
		redisAddr   = flag.String("redis", "localhost:6379", "Redis address")
		redisDB     = flag.Int("redis-db", 0, "Redis database number")
		queueName   = flag.String("queue", "default", "queue name")
		storagePath = flag.String("storage", "/tmp/paillier-storage", "result storage path")
		metricsAddr = flag.String("metrics", ":9090", "metrics server address")
	)
	flag.Parse()

	log.Printf("Paillier worker starting...")
	log.Printf("  Workers: %d", *numWorkers)
	log.Printf("  Redis: %s", *redisAddr)
	log.Printf("  Storage: %s", *storagePath)
	log.Printf("  Metrics: %s", *metricsAddr)

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

	pool := &WorkerPool{
		numWorkers: *numWorkers,
		queue:      q,
		storage:    store,
		handle:     paillier.HandleMessage,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	// Metrics server.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "# HELP paillier_jobs_total Total processed computation jobs\n")
		fmt.Fprintf(w, "# TYPE paillier_jobs_total counter\n")
		fmt.Fprintf(w, "paillier_jobs_total{status=\"success\"} %d\n", pool.successCount.Load())
		fmt.Fprintf(w, "paillier_jobs_total{status=\"failure\"} %d\n", pool.failureCount.Load())
	})

	metricsSrv := &http.Server{
		Addr:    *metricsAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("Metrics server starting on %s", *metricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Printf("Received signal: %s", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server shutdown error: %v", err)
	}

	if err := pool.Stop(); err != nil {
		log.Printf("Worker pool shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

// WorkerPool manages a pool of computation workers.
type WorkerPool struct {
	numWorkers int
	queue      queue.Queue
	storage    storage.Storage
	handle     func([]byte) []byte

	wg           sync.WaitGroup
	cancel       context.CancelFunc
	running      atomic.Bool
	successCount atomic.Int64
	failureCount atomic.Int64
}

// Start starts the worker pool.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.running.Load() {
		return errors.New("pool already running")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running.Store(true)

	log.Printf("Starting %d workers", p.numWorkers)

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	return nil
}

// Stop gracefully stops the worker pool.
func (p *WorkerPool) Stop() error {
	if !p.running.Load() {
		return nil
	}

	log.Println("Stopping worker pool...")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Worker pool stopped")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout exceeded")
		return errors.New("shutdown timeout")
	}

	p.running.Store(false)
	return nil
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log.Printf("Worker %d started", id)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d stopping", id)
			return
		default:
		}

		job, err := p.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("Worker %d: failed to pop job: %v", id, err)
			time.Sleep(time.Second)
			continue
		}

		p.processJob(ctx, id, job)
	}
}

// processJob runs one encoded request through the dispatcher. The
// dispatcher converts every computation failure into an encoded ERROR
// response, so a job only fails outright when storage or the queue
// break.
func (p *WorkerPool) processJob(ctx context.Context, workerID int, job *queue.Job) {
	log.Printf("Worker %d: processing job %s", workerID, job.ID)

	job.Status = queue.StatusProcessing
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("Worker %d: failed to update job status: %v", workerID, err)
	}

	respBytes := p.computeResponse(job.Request)

	handle, err := p.storage.Store(ctx, respBytes)
	if err != nil {
		job.Status = queue.StatusFailed
		job.Error = fmt.Sprintf("store result: %v", err)
		p.queue.Update(ctx, job)
		p.failureCount.Add(1)
		return
	}

	job.ResultHandle = string(handle)

	// An ERROR response still completes the job; the requester learns
	// the failure when it decodes the stored result.
	if resp, err := paillier.DecodeResponse(respBytes); err == nil {
		if errResp, ok := resp.(*paillier.ErrorResponse); ok {
			job.Error = errResp.Message
			p.failureCount.Add(1)
		} else {
			p.successCount.Add(1)
		}
	}

	job.Status = queue.StatusCompleted
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("Worker %d: failed to complete job: %v", workerID, err)
	}
}

// computeResponse runs one encoded request through the dispatcher. A
// panic in the dispatcher becomes an encoded ERROR response, so one
// bad job cannot kill the worker process.
func (p *WorkerPool) computeResponse(request []byte) (resp []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic processing request: %v", r)
			out, _ := paillier.EncodeResponse(&paillier.ErrorResponse{
				Message: fmt.Sprintf("internal error: %v", r),
			})
			resp = out
		}
	}()
	return p.handle(request)
}
