package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// Pinger is the slice of a connection pool the DB health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type DbHealthChecker struct {
	pinger Pinger
}

func NewDbHealthChecker(p Pinger) *DbHealthChecker {
	return &DbHealthChecker{pinger: p}
}

func (hc *DbHealthChecker) Healthy(ctx context.Context) bool {
	return hc.pinger.Ping(ctx) == nil
}
