package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inkblog/api"
	"inkblog/config"
	"inkblog/model"
	"inkblog/posts"
	"inkblog/site"
	"inkblog/storage"
	"inkblog/theme"
	"inkblog/watcher"
)

var (
	dataDir    string
	listen     string
	listenPort int
	contentDir string
	darkMode   bool
	logLevel   string
	cssKind    string
	cssDark    bool
	listKind   string
	appVersion = "0.3.0"
)

var rootCmd = &cobra.Command{
	Use:   "inkblog",
	Short: "inkblog – Markdown blog server with switchable themes",
	Long:  "inkblog serves Markdown posts with typography, page and syntax-highlighting themes compiled at runtime.",
	Run:   run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Manage inkblog configuration files.",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a default configuration file",
	Long:  "Generate a default inkblog.config file in the data directory.",
	Run:   runConfigGenerate,
}

var cssCmd = &cobra.Command{
	Use:   "css <theme>",
	Short: "Print the stylesheet of a theme",
	Long:  "Compile a Markdown or page theme and print the resulting CSS.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCSS,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Theme management",
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	RunE:  runThemesList,
}

var themesUseCmd = &cobra.Command{
	Use:   "use <markdown|page|highlight> <theme>",
	Short: "Select the active theme of a kind",
	Args:  cobra.ExactArgs(2),
	RunE:  runThemesUse,
}

var themesExportCmd = &cobra.Command{
	Use:   "export <markdown|page|highlight> <theme>",
	Short: "Print a theme as a theme file",
	Long:  "Print the definition of a theme in the theme-file format, ready to be edited and placed in the themes directory.",
	Args:  cobra.ExactArgs(2),
	RunE:  runThemesExport,
}

func init() {
	wd, _ := os.Getwd()
	rootCmd.Version = appVersion
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", wd, "Data directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level: none, debug or normal")
	rootCmd.Flags().StringVar(&listen, "listen", "all", "IP address to listen on (default: all)")
	rootCmd.Flags().IntVar(&listenPort, "listen-port", 8080, "Port to listen on (default: 8080)")
	rootCmd.Flags().StringVar(&contentDir, "content-dir", "", "Directory holding posts/ and pages/")
	rootCmd.Flags().BoolVar(&darkMode, "dark", false, "Start in dark mode unless a mode was saved")

	cssCmd.Flags().StringVar(&cssKind, "kind", string(theme.KindMarkdown), "Theme kind: markdown or page")
	cssCmd.Flags().BoolVar(&cssDark, "dark", false, "Compile the dark variant of a page theme")
	themesListCmd.Flags().StringVar(&listKind, "kind", "", "Only list themes of this kind")

	configCmd.AddCommand(configGenerateCmd)
	themesCmd.AddCommand(themesListCmd, themesUseCmd, themesExportCmd)
	rootCmd.AddCommand(configCmd, cssCmd, themesCmd)
}

// setup loads the configuration, applies explicitly provided flags and
// builds the logger.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}

	// Override config with CLI flags only if they were explicitly provided
	if cmd.Flags().Changed("data-dir") || cfg.DataDir == "" || cfg.DataDir == "." {
		cfg.DataDir = dataDir
	}
	if f := cmd.Flags().Lookup("listen"); f != nil && (f.Changed || cmd.Flags().Changed("listen-port")) {
		if listen != "" && listen != "all" {
			cfg.ListenAddr = net.JoinHostPort(listen, fmt.Sprint(listenPort))
		} else {
			// Listen on all interfaces
			cfg.ListenAddr = fmt.Sprintf(":%d", listenPort)
		}
	}
	if cmd.Flags().Changed("content-dir") {
		cfg.ContentDir = contentDir
	}
	if cmd.Flags().Changed("dark") && cmd == rootCmd {
		cfg.DarkMode = darkMode
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	dataDirAbs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDirAbs

	log, err := cfg.Logging.Prepare()
	if err != nil {
		return cfg, nil, err
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

// themes builds the theme service: built-ins, user theme files and external
// stylesheets, with selections restored from the settings store.
func themes(cfg config.Config, settings theme.Settings, log *zap.Logger) (*theme.Service, error) {
	catalog, err := theme.NewCatalog(log)
	if err != nil {
		return nil, err
	}
	if err := catalog.LoadDir(cfg.Resolve(cfg.ThemesDir)); err != nil {
		log.Warn("Some theme files were skipped", zap.Error(err))
	}
	if err := catalog.LoadStylesheets(cfg.Resolve(cfg.MarkdownThemesDir)); err != nil {
		log.Warn("Some stylesheets were skipped", zap.Error(err))
	}

	svc := theme.NewService(catalog, settings, theme.Options{
		BaseSelector:     cfg.MarkdownSelector,
		StylesheetPath:   "/markdown-themes",
		HighlightCDN:     cfg.HighlightCDN,
		DefaultMarkdown:  cfg.DefaultMarkdownTheme,
		DefaultPage:      cfg.DefaultPageTheme,
		DefaultHighlight: cfg.DefaultHighlightTheme,
		Dark:             cfg.DarkMode,
	}, log)
	if err := svc.Init(); err != nil {
		return nil, err
	}
	return svc, nil
}

func run(cmd *cobra.Command, args []string) {
	cfg, log, err := setup(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatal("Open settings", zap.Error(err))
	}

	svc, err := themes(cfg, store, log)
	if err != nil {
		log.Fatal("Initialize themes", zap.Error(err))
	}

	content := cfg.Resolve(cfg.ContentDir)
	library := posts.NewLibrary(os.DirFS(content), log)
	if n, err := library.Reload(); err != nil {
		log.Warn("Failed to load posts", zap.String("dir", content), zap.Error(err))
	} else {
		log.Info("Loaded posts", zap.String("dir", content), zap.Int("count", n))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	wsManager := api.NewWSConnectionManager(log)
	svc.SetBroadcaster(wsManager)

	w := watcher.New(content, library.Reload, func(count int) {
		wsManager.Broadcast(model.Message{Type: model.MessageReload, Data: model.Reload{Posts: count}})
	}, log)
	if err := w.Start(ctx); err != nil {
		log.Warn("Live reload disabled", zap.Error(err))
	}

	themeHandler := theme.NewHandler(svc, log)
	pages, err := site.New(library, svc, themeHandler, site.Options{
		Selector:          cfg.MarkdownSelector,
		MarkdownThemesDir: cfg.Resolve(cfg.MarkdownThemesDir),
	}, log)
	if err != nil {
		log.Fatal("Initialize site", zap.Error(err))
	}

	mux := http.NewServeMux()
	api.NewServer(library, wsManager, log).Register(mux)
	themeHandler.Register(mux)
	pages.Register(mux)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	// Print listening addresses
	printListeningAddresses(log, cfg.ListenAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown", zap.Error(err))
	}
}

func runConfigGenerate(cmd *cobra.Command, args []string) {
	dataDirAbs, err := filepath.Abs(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: resolve data dir: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.DataDir = dataDirAbs

	cfgPath := filepath.Join(dataDirAbs, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Fprintf(os.Stderr, "error: config file already exists: %s\n", cfgPath)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to save config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated default config file: %s\n", cfgPath)
}

func runCSS(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	catalog, err := theme.NewCatalog(log)
	if err != nil {
		return err
	}
	if err := catalog.LoadDir(cfg.Resolve(cfg.ThemesDir)); err != nil {
		log.Warn("Some theme files were skipped", zap.Error(err))
	}

	key := args[0]
	switch theme.Kind(cssKind) {
	case theme.KindMarkdown:
		t, ok := catalog.Markdown.Get(key)
		if !ok {
			return fmt.Errorf("%w: markdown theme %q", theme.ErrUnknownTheme, key)
		}
		if t.External() {
			href, err := t.Href("/markdown-themes")
			if err != nil {
				return err
			}
			return fmt.Errorf("markdown theme %q is an external stylesheet: %s", key, href)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.CSS(cfg.MarkdownSelector))
	case theme.KindPage:
		t, ok := catalog.Page.Get(key)
		if !ok {
			return fmt.Errorf("%w: page theme %q", theme.ErrUnknownTheme, key)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.CSS(cssDark))
	default:
		return fmt.Errorf("%w: %q cannot be compiled", theme.ErrUnknownKind, cssKind)
	}
	return nil
}

func runThemesList(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	svc, err := themes(cfg, store, log)
	if err != nil {
		return err
	}

	kinds := []theme.Kind{theme.KindMarkdown, theme.KindPage, theme.KindHighlight}
	if listKind != "" {
		kinds = []theme.Kind{theme.Kind(listKind)}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, kind := range kinds {
		list, err := svc.List(kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s themes:\n", kind)
		for _, t := range list {
			marker := " "
			if t.Active {
				marker = "*"
			}
			fmt.Fprintf(tw, " %s %s\t%s\t%s\n", marker, t.Key, t.DisplayName, t.Description)
		}
	}
	return tw.Flush()
}

func runThemesUse(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	svc, err := themes(cfg, store, log)
	if err != nil {
		return err
	}
	if err := svc.Select(theme.Kind(args[0]), args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s theme set to %s\n", args[0], args[1])
	return nil
}

func runThemesExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	catalog, err := theme.NewCatalog(log)
	if err != nil {
		return err
	}
	if err := catalog.LoadDir(cfg.Resolve(cfg.ThemesDir)); err != nil {
		log.Warn("Some theme files were skipped", zap.Error(err))
	}
	return catalog.Export(cmd.OutOrStdout(), theme.Kind(args[0]), args[1])
}

func printListeningAddresses(log *zap.Logger, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		log.Info("Listening", zap.String("url", "http://"+addr))
		return
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		// Listening on all interfaces
		urls := []string{}
		if addrs, err := net.InterfaceAddrs(); err == nil {
			for _, a := range addrs {
				if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
					urls = append(urls, "http://"+net.JoinHostPort(ipnet.IP.String(), port))
				}
			}
		}
		urls = append(urls, "http://localhost:"+port)
		log.Info("Listening", zap.Strings("urls", urls))
		return
	}
	log.Info("Listening", zap.String("url", "http://"+net.JoinHostPort(host, port)))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
