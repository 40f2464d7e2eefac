package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/FaultWatch"
)

func main() {
	flow, err := faultwatch.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, datasets, closeDatasets := faultwatch.NewChannelSink("summary", 4)
	defer closeDatasets()

	go summaryWorker(datasets)

	if err := flow.Run(ctx, faultwatch.StreamOutMirror(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func summaryWorker(datasets <-chan *faultwatch.AnnotatedDataset) {
	for ds := range datasets {
		fmt.Printf("[%s] cycle=%s rows=%d faulty=%d labels=%v\n",
			time.Now().Format(time.RFC3339), ds.CycleID, ds.Len(), ds.Faulty(), ds.LabelCounts())
	}
}
