package metric

import (
	"hallsite/src-server/utils"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func tokenCacheEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	tokenCacheEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallsite_token_cache_empty_read_microsec",
		Help: "The latency of an empty token-cache read in microseconds",
	})
	good := true
	if err := prometheus.Register(tokenCacheEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register hallsite_token_cache_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("hallsite_token_cache_empty_read_microsec metric registered")
		tokenCacheEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(tokenCacheEmptyRead) {
				case true:
					slog.Debug("hallsite_token_cache_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("hallsite_token_cache_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := tokenCache(as)
				if err != nil {
					slog.Error("can't get token cache latency", "error", err)
					continue
				}
				tokenCacheEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func upstreamRPC(as *utils.AppState, clearTickerInterval *time.Duration) {
	upstreamRPC := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallsite_upstream_rpc_microsec",
		Help: "The latency of the last upstream JSON-RPC call in microseconds",
	})
	good := true
	if err := prometheus.Register(upstreamRPC); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register hallsite_upstream_rpc_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("hallsite_upstream_rpc_microsec metric registered")
		upstreamRPC.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(upstreamRPC) {
				case true:
					slog.Debug("hallsite_upstream_rpc_microsec metric unregistered")
				case false:
					slog.Warn("hallsite_upstream_rpc_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.UpstreamRPC:
				upstreamRPC.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				upstreamRPC.Set(0)
			}
		}
	}()
}

func tokenCacheRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	tokenCacheRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallsite_token_cache_read_microsec",
		Help: "The latency of the last token-cache lookup in microseconds",
	})
	good := true
	if err := prometheus.Register(tokenCacheRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register hallsite_token_cache_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("hallsite_token_cache_read_microsec metric registered")
		tokenCacheRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(tokenCacheRead) {
				case true:
					slog.Debug("hallsite_token_cache_read_microsec metric unregistered")
				case false:
					slog.Warn("hallsite_token_cache_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.TokenCacheRead:
				tokenCacheRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				tokenCacheRead.Set(0)
			}
		}
	}()
}

func httpRequest(as *utils.AppState, clearTickerInterval *time.Duration) {
	httpRequest := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hallsite_http_request_microsec",
		Help: "The latency of the last handled HTTP request in microseconds",
	})
	good := true
	if err := prometheus.Register(httpRequest); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register hallsite_http_request_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("hallsite_http_request_microsec metric registered")
		httpRequest.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(httpRequest) {
				case true:
					slog.Debug("hallsite_http_request_microsec metric unregistered")
				case false:
					slog.Warn("hallsite_http_request_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.HttpRequest:
				httpRequest.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				httpRequest.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	tokenCacheEmptyRead(as, &tickerInterval)
	upstreamRPC(as, &clearTickerInterval)
	tokenCacheRead(as, &clearTickerInterval)
	httpRequest(as, &clearTickerInterval)
}
