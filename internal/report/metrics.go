package report

import (
	"time"
)

// Metrics is the monthly security summary handed to the renderer. Rankings are
// slices rather than maps so that reported orderings survive serialization.
type Metrics struct {
	ReportPeriod   string         `json:"report_period"`
	GeneratedAt    time.Time      `json:"generated_at"`
	Summary        Overview       `json:"summary"`
	GeoAnalysis    []CountryCount `json:"geo_analysis"`
	ThreatIntel    []IPCount      `json:"threat_intel"`
	TrafficQuality TrafficQuality `json:"traffic_quality"`
}

type Overview struct {
	TotalRequests   int     `json:"total_requests"`
	BlockedRequests int     `json:"blocked_requests"`
	SecurityScore   float64 `json:"security_score"`
	AvgLatencyMS    int     `json:"avg_latency_ms"`
}

type CountryCount struct {
	Country string `json:"country"`
	Blocked int    `json:"blocked"`
}

type IPCount struct {
	IP      string `json:"ip"`
	Blocked int    `json:"blocked"`
}

type TrafficQuality struct {
	Legitimate int `json:"legitimate"`
	Bots       int `json:"bots"`
}
