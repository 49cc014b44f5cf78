// Package main provides the CLI entrypoint for wordwheel.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/verte-zerg/wordwheel/internal/bridge"
	"github.com/verte-zerg/wordwheel/internal/config"
	"github.com/verte-zerg/wordwheel/internal/model"
	"github.com/verte-zerg/wordwheel/internal/relay"
	"github.com/verte-zerg/wordwheel/internal/store"
	"github.com/verte-zerg/wordwheel/internal/tui"
	"github.com/verte-zerg/wordwheel/internal/variants"
)

const (
	defaultBridgeURL = "ws://localhost:8765/ws"
	defaultWindow    = 6
	defaultProvider  = "bank"
	defaultLang      = "en"
	defaultListen    = ":8765"
	defaultBaud      = 115200
	defaultRetrySec  = 10
	defaultSeed      = "we walk through the quiet city"
)

var (
	clientBridgeURL   string
	clientWindow      int
	clientProvider    string
	clientProviderURL string
	clientLang        string
	clientNoCache     bool

	bridgeListen   string
	bridgePort     string
	bridgeBaud     int
	bridgeRetrySec int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordwheel [seed sentence...]",
		Short:         "Dial-driven sentence sculptor",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ArbitraryArgs,
		RunE:          runClientCmd,
	}

	rootCmd.Flags().StringVar(&clientBridgeURL, "bridge-url", defaultBridgeURL, "websocket URL of the dial bridge")
	rootCmd.Flags().IntVar(&clientWindow, "window", defaultWindow, "sentence window width in words")
	rootCmd.Flags().StringVar(&clientProvider, "provider", defaultProvider, "variant provider: bank or http")
	rootCmd.Flags().StringVar(&clientProviderURL, "provider-url", "", "endpoint for the http provider")
	rootCmd.Flags().StringVar(&clientLang, "lang", defaultLang, "word bank language code")
	rootCmd.Flags().BoolVar(&clientNoCache, "no-cache", false, "skip the on-disk variant cache")

	rootCmd.AddCommand(newBridgeCmd())
	rootCmd.AddCommand(newPortsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runClientCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bridge-url", &clientBridgeURL, fileCfg.Client.BridgeURL)
	applyIntConfig(cmd, "window", &clientWindow, fileCfg.Client.Window)
	applyStringConfig(cmd, "provider", &clientProvider, fileCfg.Client.Provider)
	applyStringConfig(cmd, "provider-url", &clientProviderURL, fileCfg.Client.ProviderURL)
	applyStringConfig(cmd, "lang", &clientLang, fileCfg.Client.Lang)

	cfg := model.ClientConfig{
		BridgeURL:   clientBridgeURL,
		Window:      clientWindow,
		Provider:    clientProvider,
		ProviderURL: clientProviderURL,
		Lang:        clientLang,
	}
	if cfg.Window <= 0 {
		return fmt.Errorf("--window must be > 0")
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if !clientNoCache {
		st, err := store.Open(config.DefaultCachePath())
		if err != nil {
			logErrf("variant cache unavailable: %v\n", err)
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close cache: %v\n", cerr)
				}
			}()
			provider = variants.NewCache(provider, st)
		}
	}

	seed := defaultSeed
	if len(args) > 0 {
		seed = strings.Join(args, " ")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := relay.NewClient(cfg.BridgeURL)
	go func() {
		if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logErrf("relay client stopped: %v\n", err)
		}
	}()

	m := tui.NewModel(cfg, provider, client.Events(), seed)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	// The alt screen swallows the session; leave the sculpted sentence behind.
	if fm, ok := final.(*tui.Model); ok {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), fm.Sentence()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func buildProvider(cfg model.ClientConfig) (variants.Provider, error) {
	switch cfg.Provider {
	case "http":
		if cfg.ProviderURL == "" {
			return nil, fmt.Errorf("--provider-url is required with the http provider")
		}
		return variants.NewHTTP(cfg.ProviderURL), nil
	case "bank":
		words, err := variants.LoadBank(config.DefaultWordBankPath(cfg.Lang))
		if err != nil {
			if !os.IsNotExist(err) {
				logErrf("failed to load word bank: %v (using built-in bank)\n", err)
			}
			words = variants.DefaultBank
		}
		return variants.NewBank(words), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want bank or http)", cfg.Provider)
	}
}

func newBridgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Run the serial bridge and relay server",
		Args:  cobra.NoArgs,
		RunE:  runBridgeCmd,
	}
	cmd.Flags().StringVar(&bridgeListen, "listen", defaultListen, "relay listen address")
	cmd.Flags().StringVar(&bridgePort, "port", "", "serial port path (default: first detected)")
	cmd.Flags().IntVar(&bridgeBaud, "baud", defaultBaud, "serial baud rate")
	cmd.Flags().IntVar(&bridgeRetrySec, "retry-sec", defaultRetrySec, "seconds between reconnect attempts")
	return cmd
}

func runBridgeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "listen", &bridgeListen, fileCfg.Bridge.Listen)
	applyStringConfig(cmd, "port", &bridgePort, fileCfg.Bridge.SerialPort)
	applyIntConfig(cmd, "baud", &bridgeBaud, fileCfg.Bridge.BaudRate)
	applyIntConfig(cmd, "retry-sec", &bridgeRetrySec, fileCfg.Bridge.RetrySec)

	cfg := model.BridgeConfig{
		Listen:     bridgeListen,
		SerialPort: bridgePort,
		BaudRate:   bridgeBaud,
		RetrySec:   bridgeRetrySec,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub()
	b := bridge.New(cfg, hub)
	go func() {
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logErrf("bridge stopped: %v\n", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: relay.NewServer(hub, b.Status).Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logErrf("failed to shut down relay: %v\n", err)
		}
	}()

	logErrf("relay listening on %s\n", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay server: %w", err)
	}
	return nil
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List available serial ports",
		Args:  cobra.NoArgs,
		RunE:  runPortsCmd,
	}
}

func runPortsCmd(cmd *cobra.Command, _ []string) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("failed to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		return fmt.Errorf("no serial ports found")
	}
	for _, port := range ports {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), port); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordwheel configuration
# Uncomment a value to enable it. CLI flags override config values.

[client]
# bridge-url = %q    # Websocket URL of the dial bridge
# window = %d                        # Sentence window width in words
# provider = %q                  # Variant provider: bank or http
# provider-url = ""                 # Endpoint for the http provider
# lang = %q                       # Word bank language code

[bridge]
# listen = %q                  # Relay listen address
# serial-port = ""                  # Serial port path (default: first detected)
# baud = %d                     # Serial baud rate
# retry-sec = %d                    # Seconds between reconnect attempts
`,
		defaultBridgeURL,
		defaultWindow,
		defaultProvider,
		defaultLang,
		defaultListen,
		defaultBaud,
		defaultRetrySec,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
