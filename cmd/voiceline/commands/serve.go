package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voiceline/voiceline/cmd/voiceline/internal/config"
	"github.com/voiceline/voiceline/pkg/assemblyai"
	"github.com/voiceline/voiceline/pkg/biometric"
	"github.com/voiceline/voiceline/pkg/blob"
	"github.com/voiceline/voiceline/pkg/call"
	"github.com/voiceline/voiceline/pkg/enrich"
	"github.com/voiceline/voiceline/pkg/httpapi"
	"github.com/voiceline/voiceline/pkg/store"
	"github.com/voiceline/voiceline/pkg/summarize"
	"github.com/voiceline/voiceline/pkg/twilio"
)

var (
	flagConfig string
	flagListen string
	flagMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagMemory, "memory", false, "Use an ephemeral in-memory store")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	apiCfg := httpapi.Config{
		Store:        st,
		Machine:      call.NewMachine(st),
		BaseURL:      cfg.BaseURL,
		AgentName:    cfg.AgentName,
		FromNumber:   cfg.Twilio.FromNumber,
		WhatsAppFrom: cfg.Twilio.WhatsAppFrom,
		WorkflowSID:  cfg.WorkflowSID,
		Logger:       logger,
	}

	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		dialer, err := twilio.New(twilio.Config{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
		})
		if err != nil {
			return err
		}
		apiCfg.Dialer = dialer
	} else {
		logger.Warn("twilio credentials missing, outbound and messaging routes disabled")
	}

	if cfg.AssemblyAI.APIKey != "" && cfg.OpenAI.APIKey != "" {
		transcriber, err := assemblyai.New(assemblyai.Config{APIKey: cfg.AssemblyAI.APIKey})
		if err != nil {
			return err
		}
		llm, err := summarize.New(summarize.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
		})
		if err != nil {
			return err
		}
		apiCfg.Pipeline = enrich.NewPipeline(st, transcriber, llm, llm, 0)
	} else {
		logger.Warn("enrichment credentials missing, transcribe route disabled")
	}

	bioCfg := biometric.Config{Store: st, Threshold: cfg.Biometrics.Threshold}
	if cfg.Biometrics.SamplesDir != "" {
		samples, err := blob.NewLocal(cfg.Biometrics.SamplesDir)
		if err != nil {
			return err
		}
		bioCfg.Samples = samples
	}
	bio, err := biometric.NewService(bioCfg)
	if err != nil {
		return err
	}
	apiCfg.Biometrics = bio

	api, err := httpapi.NewServer(apiCfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if flagMemory {
		return store.NewMemory(), nil
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required (or pass --memory)")
	}
	return store.NewBadger(store.BadgerOptions{Dir: cfg.DataDir})
}
