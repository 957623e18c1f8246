package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/kgraph/internal/queue"
	"github.com/OFFIS-RIT/kgraph/internal/setup"
	"github.com/OFFIS-RIT/kgraph/internal/storage"
	"github.com/OFFIS-RIT/kgraph/internal/util"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"
	"github.com/OFFIS-RIT/kgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		Format: util.GetEnv("LOG_FORMAT"),
	})
	logger.Init(consoleLogger)

	services, err := setup.NewServices(setup.ConfigFromEnv())
	if err != nil {
		logger.Fatal("Failed to set up annotation pipeline", "err", err)
	}

	// Init s3 client
	client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}

	// Init rabbitmq
	conn, err := queue.Init()
	if err != nil {
		logger.Fatal("Failed to connect to queue", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.GraphQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// Prefetch 1 so graph runs never overlap
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.GraphQueue,
		queue.GraphQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.GraphQueue, "err", err)
	}

	processor := &queue.GraphProcessor{
		Graph:     services.Graph,
		Results:   storage.NewResultStore(client, storage.Bucket()),
		Publisher: ch,
		KeyFunc:   storage.ResultKey,
	}

	logger.Info("Listening for messages", "queue", queue.GraphQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.GraphQueue)
				return
			}

			startTime := time.Now()
			logger.Info("Received message", "queue", queue.GraphQueue)

			_ = queue.HandleDelivery(ctx, ch, msg, queue.GraphQueue, processor.ProcessGraphMessage)

			metrics := services.CoreNLP.Metrics()
			logger.Info(
				"Annotation metrics",
				"requests", metrics.Requests,
				"failures", metrics.Failures,
				"sentences", metrics.Sentences,
				"duration", time.Duration(metrics.DurationMs)*time.Millisecond,
			)
			logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Second))
			logger.Info("Waiting for next message")
			services.CoreNLP.ResetMetrics()
		}
	}
}
