package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MDAnandaB35/study-planner/internal/studyplanner"
)

func main() {
	// Run until interrupted; the server shuts down gracefully on cancel.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := studyplanner.Main(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal(err)
	}
}
