package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"tickervalue/internal/api"
	"tickervalue/internal/cache"
	"tickervalue/internal/config"
	"tickervalue/internal/controller"
	"tickervalue/internal/ratelimit"
	"tickervalue/internal/tiles"
	"tickervalue/internal/view"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// The cache is owned here and handed to the client; it lives for
	// exactly this session.
	store := cache.New[*api.ValuationResult]()
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, store)
	ctrl := controller.New(client, cfg.PeerLimit)
	limiter := ratelimit.New(cfg.TileRateLimit)
	tileCoord := tiles.New(client, limiter, cfg.TileSymbols)
	renderer := view.New(os.Stdout, true)

	// Landing view: fetch all tiles concurrently, render once settled
	prices, err := tileCoord.Fetch(ctx)
	if err != nil {
		log.Printf("Could not load market tiles: %v", err)
	}
	renderer.Landing(tileCoord.Symbols(), prices)

	runLoop(ctx, ctrl, renderer, store)
}

// runLoop drives the interactive session. Commands:
//
//	<TICKER>        search and show the valuation summary
//	open <TICKER>   open the detail view (instant if cached)
//	back            leave the detail view
//	retry           retry a failed sentiment fetch
//	about           show the about page
//	quit            exit
func runLoop(ctx context.Context, ctrl *controller.Controller, renderer *view.Renderer, store *cache.Store[*api.ValuationResult]) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("\n[%d cached] > ", store.Len())
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		if !handleLine(ctx, ctrl, renderer, strings.TrimSpace(scanner.Text())) {
			return
		}
	}
}

// handleLine executes one command line and returns false when the session
// should end.
func handleLine(ctx context.Context, ctrl *controller.Controller, renderer *view.Renderer, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return false
	case "about":
		renderer.About()
		return true
	case "back":
		ctrl.GoBack()
	case "retry":
		_ = ctrl.RetrySentiment(ctx)
	case "open", "select":
		if strings.TrimSpace(arg) == "" {
			renderer.Usage("open <TICKER>")
			return true
		}
		if err := ctrl.SelectStock(ctx, arg); err == nil {
			_ = ctrl.LoadSentiment(ctx, arg)
		}
	default:
		// Anything else is a search, including the empty line
		_ = ctrl.Submit(ctx, line)
	}

	renderer.State(ctrl.Snapshot())
	return true
}
