package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/aicup-bot/internal/api"
	"github.com/annel0/aicup-bot/internal/config"
	"github.com/annel0/aicup-bot/internal/debug"
	"github.com/annel0/aicup-bot/internal/eventbus"
	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/observability"
	"github.com/annel0/aicup-bot/internal/runner"
	"github.com/annel0/aicup-bot/internal/store"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (или BOT_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.Configure(cfg.Logging.Dir,
		logging.ParseLevel(cfg.Logging.ConsoleLevel),
		logging.ParseLevel(cfg.Logging.FileLevel))
	logging.GetLoggerManager().SetComponentLevels(cfg.Logging.Components)
	if err := logging.InitDefaultLogger("bot"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("🎮 Запуск AI Cup бота...")
	logging.Debug("Стратегия: health_threshold=%d adjacency_distance=%.1f",
		cfg.Strategy.HealthThreshold, cfg.Strategy.AdjacencyDistance)

	// === ТРАССИРОВКА ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(context.Background(), observability.TelemetryOptions{
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.Endpoint,
			Insecure:    cfg.Telemetry.Insecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logging.Error("❌ Ошибка инициализации трассировки: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logging.Warn("Остановка трассировки: %v", err)
				}
			}()
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// === ХРАНИЛИЩЕ РЕШЕНИЙ ===
	var (
		sinks   []runner.RecordSink
		records api.RecordReader
	)
	if cfg.Recorder.BadgerPath != "" {
		recordStore, err := store.NewRecordStore(cfg.Recorder.BadgerPath)
		if err != nil {
			log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
		}
		defer recordStore.Close()
		sinks = append(sinks, recordStore)
		records = recordStore
		logging.Info("💾 Решения сохраняются в %s", cfg.Recorder.BadgerPath)
	}

	// === ШИНА СОБЫТИЙ ===
	bus, err := newBus(cfg.EventBus)
	if err != nil {
		log.Fatalf("❌ Ошибка подключения к шине: %v", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn("Закрытие шины: %v", err)
		}
	}()

	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Логирование событий недоступно: %v", err)
	}
	busMetrics := eventbus.NewMetricsExporter(bus, registry)
	busMetrics.Start(5 * time.Second)
	defer busMetrics.Stop()

	// === РАННЕР И API ===
	botRunner := runner.New(runner.Options{
		Strategy: strategy.NewStrategy(cfg.Strategy),
		Metrics:  observability.NewDecisionMetrics(registry),
		Bus:      bus,
		Sinks:    sinks,
		Debug:    debug.NewLogSink(),
		Source:   cfg.Telemetry.ServiceName,
	})

	gin.SetMode(gin.ReleaseMode)
	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server := api.NewRestServer(api.Config{
		Port:     restPort,
		Runner:   botRunner,
		Records:  records,
		Registry: registry,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("❌ Ошибка запуска REST API: %v", err)
		}
	}()

	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := metricsServer.ListenAndServe(); err != nil {
			logging.Error("❌ Сервер метрик остановлен: %v", err)
		}
	}()

	logging.Info("✅ Бот готов принимать кадры")
	logging.Info("   🌐 REST API: http://localhost%s/api/decide", restPort)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", metricsAddr)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	logging.Info("👋 Бот остановлен")
}

// newBus выбирает JetStream при заданном URL, иначе шину в памяти
func newBus(cfg config.EventBusConfig) (eventbus.EventBus, error) {
	if cfg.URL == "" {
		logging.Info("🚌 Шина событий в памяти")
		return eventbus.NewMemoryBus(1024), nil
	}
	bus, err := eventbus.NewJetStreamBus(cfg.URL, cfg.Stream, cfg.SubjectPrefix, cfg.Retention)
	if err != nil {
		return nil, err
	}
	logging.Info("🚌 Шина событий NATS JetStream %s (stream=%s)", cfg.URL, cfg.Stream)
	return bus, nil
}
