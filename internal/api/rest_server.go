package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/middleware"
	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/record"
	"github.com/annel0/aicup-bot/internal/replay"
	"github.com/annel0/aicup-bot/internal/runner"
	"github.com/annel0/aicup-bot/internal/store"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RecordReader чтение сохранённых решений
type RecordReader interface {
	LoadMatch(matchID string) ([]record.Record, error)
	Matches() ([]string, error)
}

// RestServer представляет REST API бота
type RestServer struct {
	router  *gin.Engine
	server  *http.Server
	runner  *runner.Runner
	records RecordReader
	metrics *ServerMetrics
	logger  *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	// Port адрес для запуска сервера, например ":8088"
	Port   string
	Runner *runner.Runner

	// Records может быть nil, тогда /api/matches отвечает 503
	Records  RecordReader
	Registry *prometheus.Registry
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Runner == nil {
		config.Runner = runner.New(runner.Options{})
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if config.Registry != nil {
		registerer, gatherer = config.Registry, config.Registry
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	logger := logging.GetAPILogger()

	// === Observability middleware ===
	router.Use(otelgin.Middleware("aicup-bot"))
	router.Use(middleware.NewRequestLogger(logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("bot_api", registerer, "/metrics", "/health")
	router.Use(promMw.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	rs := &RestServer{
		router:  router,
		runner:  config.Runner,
		records: config.Records,
		metrics: NewServerMetrics(),
		logger:  logger,
		server: &http.Server{
			Addr:              config.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	rs.setupRoutes()
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	api := rs.router.Group("/api")
	{
		api.POST("/decide", rs.handleDecide)
		api.GET("/server", rs.handleServerInfo)
		api.GET("/matches", rs.handleMatches)
		api.GET("/matches/:id", rs.handleMatch)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// DecideRequest снимок мира и юнит, за которого нужно принять решение
type DecideRequest = replay.Frame

// DecideResponse принятое решение
type DecideResponse struct {
	Action model.UnitAction `json:"action"`
	Target strategy.Target  `json:"target"`
}

// handleDecide принимает решение для присланного снимка
func (rs *RestServer) handleDecide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса: " + err.Error(),
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, GenericResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	rec, err := rs.runner.Decide(c.Request.Context(), req)
	if err != nil {
		rs.logger.Error("decide tick=%d: %v", req.Tick, err)
		c.JSON(http.StatusInternalServerError, GenericResponse{
			Success: false,
			Message: "Не удалось сохранить решение",
		})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Решение принято",
		Data:    DecideResponse{Action: rec.Action, Target: rec.Target},
	})
}

// handleServerInfo возвращает сведения о процессе
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := rs.metrics.Snapshot()
	info["name"] = "aicup-bot"
	info["server_time"] = time.Now().Unix()

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

// handleMatches возвращает список сохранённых матчей
func (rs *RestServer) handleMatches(c *gin.Context) {
	if rs.records == nil {
		rs.noStore(c)
		return
	}

	matches, err := rs.records.Matches()
	if err != nil {
		rs.storeError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Список матчей получен",
		Data: map[string]interface{}{
			"matches": matches,
			"total":   len(matches),
		},
	})
}

// handleMatch возвращает решения матча и сводку по ним
func (rs *RestServer) handleMatch(c *gin.Context) {
	if rs.records == nil {
		rs.noStore(c)
		return
	}

	matchID := c.Param("id")
	records, err := rs.records.LoadMatch(matchID)
	if err != nil {
		rs.storeError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: "Матч не найден: " + matchID,
		})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Решения матча получены",
		Data: map[string]interface{}{
			"summary": record.Summarize(records),
			"records": records,
		},
	})
}

func (rs *RestServer) noStore(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, GenericResponse{
		Success: false,
		Message: "Хранилище решений не настроено",
	})
}

func (rs *RestServer) storeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, record.ErrInvalidMatchID):
		status = http.StatusBadRequest
	}
	rs.logger.Error("хранилище: %v", err)
	c.JSON(status, GenericResponse{
		Success: false,
		Message: err.Error(),
	})
}

// handleHealth возвращает статус сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": rs.metrics.GetUptime(),
		"time":   time.Now().Unix(),
	})
}

// Start запускает REST сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop завершает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
