package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"rental-hub-service/internal"
)

// Отдельный бинарник краулера: с флагом --once делает один обход
// всех источников и завершается, удобно для cron и ручных прогонов.
func main() {
	once := flag.Bool("once", false, "run a single crawl pass and exit")
	flag.Parse()

	application, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *once {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary, err := application.RunCrawlOnce(ctx)
		if err != nil {
			log.Fatalf("Crawl failed: %v", err)
		}
		log.Printf("Crawl finished: found=%d new=%d updated=%d errors=%d",
			summary.TotalFound, summary.NewProperties, summary.UpdatedProperties, len(summary.Errors))
		return
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
