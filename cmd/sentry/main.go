package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"StockSentry/internal/config"
	"StockSentry/internal/engine"
	"StockSentry/internal/notifier"
	"StockSentry/internal/oracle"
	"StockSentry/internal/store"
	"StockSentry/internal/strategy"
	"StockSentry/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath = flag.String("config", "configs/config.yaml", "path to config file")
		setup   = flag.Bool("setup", false, "interactive email setup wizard")
		add     = flag.Bool("add", false, "interactively add a strategy")
		list    = flag.Bool("list", false, "list strategies and exit")
		once    = flag.Bool("once", false, "run one evaluation pass and exit")
		start   = flag.Bool("start", false, "start the scheduled monitor")
		webMode = flag.Bool("web", false, "start the web dashboard")
		port    = flag.Int("port", 0, "web dashboard port (overrides config)")
		demo    = flag.Bool("demo", false, "seed demo strategies and run one pass")
	)
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded environment from .env")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	if *setup {
		runSetup(cfg, *cfgPath)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if cfg.Database.Type == config.DatabaseSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			log.Fatalf("[FATAL] create data dir: %v", err)
		}
	}

	st, err := store.New(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}
	defer st.Close()

	// Schema failures are the only fatal startup error besides config.
	if err := st.Init(); err != nil {
		log.Fatalf("[FATAL] init schema: %v", err)
	}

	or := oracle.NewDemoFallback(oracle.NewHTTPOracle(cfg.Proxy))
	mgr := strategy.NewManager(st, or)

	switch {
	case *demo:
		seedDemo(mgr)
	case *add:
		runAddStrategy(mgr)
	case *list:
		runList(mgr)
	case *once:
		newEngine(cfg, mgr, st).RunOnce()
	case *start:
		runMonitor(cfg, mgr, st)
	case *webMode:
		webPort := cfg.Web.Port
		if *port > 0 {
			webPort = *port
		}
		addr := fmt.Sprintf("%s:%d", cfg.Web.Host, webPort)
		log.Printf("[INFO] web dashboard listening on http://%s", addr)
		if err := web.NewServer(mgr, st).Start(addr); err != nil {
			log.Fatalf("[FATAL] web server: %v", err)
		}
	default:
		printUsage()
	}
}

func newEngine(cfg *config.Config, mgr *strategy.Manager, st store.Store) *engine.Engine {
	var n engine.Notifier
	if cfg.Email.Enabled {
		n = notifier.NewEmailNotifier(cfg.Email)
	}
	return engine.New(mgr, st, n, cfg.Email.Recipient)
}

func runMonitor(cfg *config.Config, mgr *strategy.Manager, st store.Store) {
	log.Println("[INFO] StockSentry monitor starting...")

	eng := newEngine(cfg, mgr, st)

	var testInterval time.Duration
	if cfg.Monitor.TestMode {
		testInterval = time.Duration(cfg.Monitor.TestIntervalSecs) * time.Second
	}
	if err := eng.Register(cfg.Monitor.DailyTime, testInterval); err != nil {
		log.Fatalf("[FATAL] register schedule: %v", err)
	}
	eng.Start()
	defer eng.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pass now")
		go eng.RunOnce()
	}

	log.Println("[INFO] StockSentry is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}

func printUsage() {
	fmt.Println("StockSentry - price threshold monitor for US / HK stocks and Bitcoin")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sentry -setup              configure email notifications")
	fmt.Println("  sentry -add                add a monitoring strategy")
	fmt.Println("  sentry -list               list strategies")
	fmt.Println("  sentry -once               run one evaluation pass")
	fmt.Println("  sentry -start              start the scheduled monitor")
	fmt.Println("  sentry -web [-port 8080]   start the web dashboard")
	fmt.Println("  sentry -demo               seed demo strategies")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
