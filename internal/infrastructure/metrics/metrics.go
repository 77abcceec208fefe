// Package metrics 定义 prometheus 指标，由 /metrics 暴露
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WSConnections 当前 WebSocket 连接数
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Number of active websocket connections",
	})

	// FanoutEvents 按事件名和投递路径（direct / relay）统计的广播次数
	FanoutEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fanout_events_total",
		Help: "Events broadcast to connected sockets",
	}, []string{"event", "path"})

	RelayFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_publish_failures_total",
		Help: "Queue relay publishes that failed or were rejected by the breaker",
	})

	RelayDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_dropped_total",
		Help: "Relay copies dropped because the publish queue was full",
	})
)

var registerOnce sync.Once

// Init 注册全部指标，可重复调用
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(WSConnections, FanoutEvents, RelayFailures, RelayDropped)
	})
}

// Handler 返回 prometheus 抓取入口
func Handler() http.Handler {
	return promhttp.Handler()
}
