package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/freight-audit/internal/logger"
	"github.com/rezonia/freight-audit/internal/server"
	"github.com/rezonia/freight-audit/internal/store"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for reconciling CT-e batches.

The API provides endpoints for:
  - GET  /api/v1/clients             - List configured clients
  - POST /api/v1/reconcile?client=ID - Upload and reconcile CT-e files
  - GET  /api/v1/batches/:id         - Fetch a stored batch
  - GET  /api/v1/batches/:id/export  - Download a batch as CSV
  - GET  /health                     - Health check

Batches are kept in memory unless a Redis address is configured.

Examples:
  # Start server on default port
  freight-audit serve

  # Start on custom port in debug mode
  freight-audit serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	level := cfg.App.LogLevel
	if level == "" {
		level = "info"
	}
	log, err := logger.NewZapLogger(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	var batches store.BatchStore
	if cfg.Redis.Addr != "" {
		batches = store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.TTL)
		fmt.Printf("Batch store: redis (%s)\n", cfg.Redis.Addr)
	} else {
		batches = store.NewMemoryStore()
		fmt.Println("Batch store: memory")
	}

	srv := server.NewServer(&server.Config{
		Address:      serverAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}, cfg, batches, log)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		log.Sync()
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	return srv.Run()
}
