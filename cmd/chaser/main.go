package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"

	"main/internal/chase"
	"main/internal/executor"
	"main/internal/gateway"
	"main/internal/ingest/hyperliquid"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/recorder"
	"main/internal/storage"
	"main/pkg/conn"
	"main/pkg/exception"
)

func main() {
	if err := run(); err != nil {
		log.Printf("chaser: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to JSON config")
	statsPath := flag.String("stats-csv", "", "Chase accuracy CSV path (empty=disable)")
	runName := flag.String("run-name", "chase_one_fill", "Run name recorded in the stats CSV")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		return err
	}

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "chaser",
			ServerAddress:   *pyroscopeAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	network := "MAINNET"
	if loaded.Testnet {
		network = "TESTNET"
	}
	log.Printf("limit chase: coin=%s side=%s size=%v tick=%v tol=%v max_age=%dms max_chase=%v network=%s",
		loaded.Coin, loaded.Chase.Side, loaded.Chase.OrderSize, loaded.Chase.TickSize,
		loaded.Chase.ToleranceTicks, loaded.Chase.MaxAgeMs, loaded.Chase.MaxChaseTicks, network)

	signer, err := executor.NewRemoteSigner(os.Getenv("SIGNER_URL"), nil)
	if err != nil {
		return errors.Join(err, exception.ErrMissingCredentials)
	}
	client, err := executor.NewClient(executor.Config{
		Testnet: loaded.Testnet,
		Address: loaded.Address,
		Coin:    loaded.Coin,
		Asset:   loaded.Asset,
		Signer:  signer,
	})
	if err != nil {
		return err
	}

	ok, err := client.ValidateAccount(ctx)
	if err != nil {
		return err
	}
	if !ok {
		printRemediation(network)
		return exception.ErrAccountNotInitialized
	}

	metrics := obs.NewMetrics()
	live, err := gateway.NewLive(client, loaded.Chase.PostOnly, metrics)
	if err != nil {
		return err
	}
	counting, err := gateway.NewCounting(live)
	if err != nil {
		return err
	}

	var sink chase.TradeSink
	if loaded.DatabaseURL != "" {
		pg, err := conn.New(conn.Option{ConnString: loaded.DatabaseURL})
		if err != nil {
			log.Printf("trade logger disabled: %v", err)
		} else {
			defer pg.Close()
			logger, err := storage.NewTradeLogger(pg, loaded.Coin)
			if err != nil {
				log.Printf("trade logger disabled: %v", err)
			} else {
				sink = logger
			}
		}
	}

	engine, err := chase.NewEngine(loaded.Chase, counting, sink)
	if err != nil {
		return err
	}
	stream, err := hyperliquid.New(ctx, hyperliquid.Config{
		URL:          hyperliquid.Endpoint(loaded.Testnet),
		Coin:         loaded.Coin,
		PingInterval: loaded.PingInterval,
		QueueSize:    loaded.QueueSize,
	})
	if err != nil {
		return err
	}
	dispatcher := chase.NewDispatcher(loaded.RefreshIntervalMs)

	start := time.Now()
	outcome, err := chase.Run(ctx, stream, dispatcher, engine, metrics)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, exception.ErrAccountNotInitialized) {
			printRemediation(network)
		}
		return err
	}

	stats := counting.Stats()
	snapshot := metrics.Snapshot()
	log.Printf("done: outcome=%s duration=%s places=%d cancels=%d quotes=%d throttled=%d dispatched=%d",
		outcome, duration, stats.Places, stats.Cancels,
		snapshot.QuotesReceived, snapshot.QuotesThrottled, snapshot.QuotesDispatched)
	log.Printf("gateway latency: place=%+v cancel=%+v poll=%+v",
		snapshot.PlaceLatency, snapshot.CancelLatency, snapshot.PollLatency)

	if *statsPath != "" {
		appender, err := recorder.NewAppender(*statsPath)
		if err != nil {
			return err
		}
		if err := appender.Append(recorder.Stats{
			Outcome:        outcome.String(),
			DurationMs:     duration.Milliseconds(),
			NumPlace:       stats.Places,
			NumCancel:      stats.Cancels,
			Side:           loaded.Chase.Side.String(),
			Coin:           loaded.Coin,
			OrderSize:      loaded.Chase.OrderSize,
			TickSize:       loaded.Chase.TickSize,
			ToleranceTicks: loaded.Chase.ToleranceTicks,
			MaxAgeMs:       loaded.Chase.MaxAgeMs,
			MaxChaseTicks:  loaded.Chase.MaxChaseTicks,
			RunName:        *runName,
		}); err != nil {
			return err
		}
		log.Printf("stats appended to %s", *statsPath)
	}

	return nil
}

func printRemediation(network string) {
	log.Printf("STOPPING: account not initialized for API trading on %s.", network)
	log.Printf("Do one trade in the venue UI on %s with this wallet, then retry.", network)
}
