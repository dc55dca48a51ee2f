package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joripage/lob-engine/config"
	"github.com/joripage/lob-engine/pkg/clock"
	"github.com/joripage/lob-engine/pkg/engine"
	redis_wrapper "github.com/joripage/lob-engine/pkg/infra/redis"
	kafkawrapper "github.com/joripage/lob-engine/pkg/kafka_wrapper"
	"github.com/joripage/lob-engine/pkg/logging"
	"github.com/joripage/lob-engine/pkg/marketdata"
	"github.com/joripage/lob-engine/pkg/report"
	"github.com/joripage/lob-engine/pkg/sequence"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	base := logging.NewLogger(logging.ParseLevel(cfg.LogLevel))
	defer base.Sync() // nolint
	undo := zap.ReplaceGlobals(base.Zap())
	defer undo()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logging.WithRequestID(ctx, logging.NewRequestID())
	logger, ctx := base.GetLogger(ctx)

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	clk := clock.NewMonotonic()
	eng := engine.NewMatchingEngine(cfg.Symbol,
		engine.WithMaxLevels(*cfg.Engine.MaxLevels),
		engine.WithIDGenerator(sequence.New(cfg.Engine.StartOrderID)),
		engine.WithClock(clk),
		engine.WithLogger(logger),
	)

	tally := &report.Tally{}
	callbacks := []report.Callback{tally.OnFill}
	if cfg.Sinks.Log {
		callbacks = append(callbacks, report.NewLogSink(logger, cfg.Symbol).OnFill)
	}

	sinkCfg := report.AsyncConfig{
		Symbol:     cfg.Symbol,
		BufferSize: cfg.Sinks.BufferSize,
		MaxRetries: cfg.Sinks.MaxRetries,
	}
	var closers []func() error

	if cfg.Sinks.Redis != nil {
		client, err := redis_wrapper.InitRedis(ctx, cfg.Sinks.Redis)
		if err != nil {
			logger.Fatal("init redis", zap.Error(err))
		}
		closers = append(closers, client.Close)

		sink := report.NewRedisSink(client, cfg.Sinks.RedisChannel, sinkCfg, clk, logger)
		go sink.Run(ctx)
		closers = append([]func() error{sink.Close}, closers...)
		callbacks = append(callbacks, sink.OnFill)
	}

	if cfg.Sinks.Kafka != nil {
		producer, err := kafkawrapper.NewProducer(*cfg.Sinks.Kafka)
		if err != nil {
			logger.Fatal("init kafka producer", zap.Error(err))
		}
		closers = append(closers, producer.Close)

		sink := report.NewKafkaSink(producer, cfg.Sinks.KafkaTopic, sinkCfg, clk, logger)
		go sink.Run(ctx)
		closers = append([]func() error{sink.Close}, closers...)
		callbacks = append(callbacks, sink.OnFill)
	}

	eng.SetFillCallback(report.Fanout(callbacks...))

	feed := marketdata.NewFeed(logger)
	feed.Subscribe(func(u marketdata.Update) {
		order := eng.NewOrder(u.Side, u.Price, u.Qty)
		order.Timestamp = u.Timestamp
		if _, err := eng.HandleOrder(order); err != nil {
			logger.Warn("tick rejected", zap.Uint64("order_id", order.ID), zap.Error(err))
		}
	})
	feed.Start(ctx)

	if cfg.Feed.Enabled {
		sim := marketdata.NewSimulator(marketdata.SimulatorConfig{
			MidPrice: cfg.Feed.MidPrice,
			TickSize: cfg.Feed.TickSize,
			MaxQty:   cfg.Feed.MaxQty,
			Interval: cfg.Feed.TickInterval,
			Seed:     cfg.Feed.Seed,
		}, clk)
		go func() {
			if err := sim.Run(ctx, feed); err != nil && ctx.Err() == nil {
				logger.Error("simulator stopped", zap.Error(err))
			}
		}()
	}

	go reportStats(ctx, logger, eng, tally)

	logger.Info("engine started", zap.String("service", cfg.ServiceName), zap.String("symbol", cfg.Symbol))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info("shutting down")

	feed.Stop()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}
	cancel()

	logger.Info("exited cleanly",
		zap.Int64("fills", tally.Count()),
		zap.Int64("filled_qty", tally.Qty()),
		zap.String("notional", tally.Notional().String()),
	)
}

func reportStats(ctx context.Context, logger *logging.Logger, eng *engine.MatchingEngine, tally *report.Tally) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			book := eng.Book()
			fields := []zap.Field{
				zap.Int("resting_orders", book.Len()),
				zap.Int64("fills", tally.Count()),
				zap.Int64("filled_qty", tally.Qty()),
			}
			if bid, err := book.BestBid(); err == nil {
				fields = append(fields, zap.Float64("best_bid", bid))
			}
			if ask, err := book.BestAsk(); err == nil {
				fields = append(fields, zap.Float64("best_ask", ask))
			}
			logger.Info("book stats", fields...)
		}
	}
}
