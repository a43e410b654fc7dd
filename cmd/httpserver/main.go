package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Brownie44l1/webserver/internal/server"
)

func main() {
	config := server.DefaultConfig()
	flag.StringVar(&config.Root, "root", config.Root, "directory to serve")
	flag.IntVar(&config.Port, "port", config.Port, "TCP port")
	flag.BoolVar(&config.ExactContentLength, "exact-length", config.ExactContentLength,
		"advertise real body lengths for directory and CGI responses")
	quiet := flag.Bool("quiet", false, "do not echo the stream log to stdout")
	flag.Parse()
	config.Console = !*quiet

	srv, err := server.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	started := time.Now()
	fmt.Printf("MyWebServer v1.0, listening to port: %d.\n\n", config.Port)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		// Only a bind failure gets here.
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	case <-sigChan:
	}

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	stats := srv.Stats()
	fmt.Printf("Up since %s\n", humanize.Time(started))
	fmt.Printf("Total requests: %s\n", humanize.Comma(stats.RequestsTotal))
	fmt.Printf("Served (2xx): %d, No content: %d\n", stats.Succeeded, stats.NoContent)
	fmt.Printf("Rejected (4xx): %d, Failed (5xx): %d\n", stats.Errors4xx, stats.Errors5xx)
	fmt.Printf("Average latency: %s\n", stats.AverageLatency)

	categories := make([]string, 0, len(stats.ByCategory))
	for c := range stats.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %-9s %d\n", c, stats.ByCategory[c])
	}
}
