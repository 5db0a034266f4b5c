package utils

type Metric struct {
	UpstreamRPC    chan float64
	TokenCacheRead chan float64
	HttpRequest    chan float64
}

func NewMetric() *Metric {
	return &Metric{
		UpstreamRPC:    make(chan float64),
		TokenCacheRead: make(chan float64),
		HttpRequest:    make(chan float64),
	}
}
