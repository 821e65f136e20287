package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ysalloum/pulsedesk/internal/channels"
	"github.com/ysalloum/pulsedesk/internal/config"
	"github.com/ysalloum/pulsedesk/internal/db"
	"github.com/ysalloum/pulsedesk/internal/dispatch"
	"github.com/ysalloum/pulsedesk/internal/gateway"
	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/llm"
	"github.com/ysalloum/pulsedesk/internal/mcp"
	"github.com/ysalloum/pulsedesk/internal/memory"
	"github.com/ysalloum/pulsedesk/internal/records"
	"github.com/ysalloum/pulsedesk/internal/router"
	"github.com/ysalloum/pulsedesk/internal/server"
	"github.com/ysalloum/pulsedesk/internal/specialist"
	"github.com/ysalloum/pulsedesk/internal/synth"
)

var (
	servePort int
	mcpMode   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pulsedesk message router",
	Long:  `Starts the router with its REST API and operator console, or as an MCP server on stdio with --mcp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		dbPath := filepath.Join(cfg.DataDir, "pulsedesk.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		if provider != nil && cfg.LLMRequestsPerMin > 0 {
			provider = llm.NewRateLimitedProvider(provider, cfg.LLMRequestsPerMin)
		}

		rt, mem, dir, err := buildRouter(cfg, database, provider)
		if err != nil {
			return err
		}

		if mcpMode {
			// Stdout carries the MCP protocol; logs go to stderr.
			fmt.Fprintf(os.Stderr, "pulsedesk MCP server v%s on stdio\n", Version)
			return mcp.NewServer(rt, mem, dir).Serve()
		}

		srv := server.New(cfg.Server, rt)

		// Messaging-platform webhooks ride on the same HTTP server.
		proc := channels.NewProcessor(rt)
		wa := channels.NewWhatsAppHandler(channels.NewGateway(proc), cfg.Messaging.VerifyToken)
		channels.RegisterRoutes(srv.Router(), wa)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "pulsedesk v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Provider: %s\n", cfg.Provider)
		fmt.Fprintf(os.Stderr, "  Specialists: %d\n", len(cfg.Specialists))

		return srv.Start()
	},
}

// buildRouter assembles the pipeline from configuration.
func buildRouter(cfg *config.Config, database *db.DB, provider llm.Provider) (*router.Router, *memory.Store, *specialist.Directory, error) {
	mem, err := memory.NewStore(database, cfg.Memory.HistoryCap)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating memory store: %w", err)
	}
	dir, err := specialist.NewDirectory(cfg.Specialists, cfg.Routing)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building specialist directory: %w", err)
	}
	classifier := intent.NewClassifier()

	synthesizer, err := synth.New(provider, cfg.Model,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second, classifier.Vocabulary())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building synthesizer: %w", err)
	}

	var tel dispatch.Telephony
	if cfg.Telephony.BaseURL != "" {
		tel = gateway.NewTelephonyClient(cfg.Telephony)
	}
	var msg dispatch.Messenger
	if cfg.Messaging.BaseURL != "" {
		msg = gateway.NewMessagingClient(cfg.Messaging)
	}
	dispatcher := dispatch.New(tel, msg, records.NewStore(database), cfg.Dispatch)

	rt := router.New(classifier, dir, mem, synthesizer, dispatcher, cfg.Memory.ContextWindow)
	return rt, mem, dir, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Serve over MCP stdio instead of HTTP")
	rootCmd.AddCommand(serveCmd)
}
