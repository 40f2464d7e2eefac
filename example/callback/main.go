package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/FaultWatch/pkg/faultwatch"
)

func main() {
	flow, err := faultwatch.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(_ context.Context, ds *faultwatch.AnnotatedDataset) error {
		for _, row := range ds.Rows {
			if row.Status.IsOK() {
				continue
			}
			fmt.Printf("%s row=%d status=%q temperature=%.2f voltage=%.2f current=%.2f vibration=%.2f\n",
				ds.GeneratedAt.Format(time.RFC3339),
				row.Index,
				row.Status,
				row.Reading.Temperature,
				row.Reading.Voltage,
				row.Reading.Current,
				row.Reading.Vibration,
			)
		}
		return nil
	}

	if err := flow.Run(ctx, faultwatch.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
