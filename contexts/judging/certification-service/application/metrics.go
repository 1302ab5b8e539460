package application

import (
	"time"

	"verdict/contexts/judging/certification-service/ports"
)

// ResolveMetrics falls back to a recorder that drops every observation.
func ResolveMetrics(metrics ports.Metrics) ports.Metrics {
	if metrics == nil {
		return nopMetrics{}
	}
	return metrics
}

type nopMetrics struct{}

func (nopMetrics) ObserveCertification(string, string) {}
func (nopMetrics) ObserveSignature(string, string, string) {}
func (nopMetrics) ObserveExecution(string, int) {}
func (nopMetrics) ObserveStandings(string, time.Duration) {}
func (nopMetrics) ObserveSkipped(string) {}
