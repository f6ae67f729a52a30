package report

import (
	"math"
	"sort"

	"github.com/tommcrojo/security-log-analytics/internal/models"
)

const (
	geoLimit           = 5
	threatLimit        = 8
	suspiciousMinBlock = 5
)

// Aggregate computes the metrics summary for a batch of records already scoped
// to the reporting window. It returns nil when the batch is empty so callers
// can skip rendering instead of reporting a false zero-threat month. The
// function is pure: it never touches the clock and leaves ReportPeriod and
// GeneratedAt for the caller to attach.
func Aggregate(records []models.AccessLog) *Metrics {
	if len(records) == 0 {
		return nil
	}

	var (
		blocked    int
		legitimate int
		bots       int

		latencySum   float64
		latencyCount int

		geoCounts = newCounter()
		ipCounts  = newCounter()
	)

	for _, rec := range records {
		switch {
		case rec.IsAttack():
			blocked++
			geoCounts.add(rec.Country)
			ipCounts.add(rec.IP)
		case rec.Action == models.ActionLegitimate:
			legitimate++
		case rec.Action == models.ActionBotAllowed:
			bots++
		}

		if rec.ResponseTimeMS != nil {
			latencySum += *rec.ResponseTimeMS
			latencyCount++
		}
	}

	total := len(records)

	score := 0.0
	if total > 0 {
		score = math.Round(float64(blocked)/float64(total)*100*100) / 100
	}

	avgLatency := 0
	if latencyCount > 0 {
		avgLatency = int(latencySum / float64(latencyCount))
	}

	geo := make([]CountryCount, 0, geoLimit)
	for _, e := range geoCounts.ranked(geoLimit, 0) {
		geo = append(geo, CountryCount{Country: e.key, Blocked: e.count})
	}

	threats := make([]IPCount, 0, threatLimit)
	for _, e := range ipCounts.ranked(threatLimit, suspiciousMinBlock) {
		threats = append(threats, IPCount{IP: e.key, Blocked: e.count})
	}

	return &Metrics{
		Summary: Overview{
			TotalRequests:   total,
			BlockedRequests: blocked,
			SecurityScore:   score,
			AvgLatencyMS:    avgLatency,
		},
		GeoAnalysis: geo,
		ThreatIntel: threats,
		TrafficQuality: TrafficQuality{
			Legitimate: legitimate,
			Bots:       bots,
		},
	}
}

type countEntry struct {
	key   string
	count int
}

// counter groups by key while remembering first-seen order, which is the
// tie-break for equal counts in the rankings.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// ranked returns the entries with count strictly greater than min, sorted
// descending by count, capped at limit. The stable sort over first-seen order
// keeps equal-count entries in input order.
func (c *counter) ranked(limit, min int) []countEntry {
	entries := make([]countEntry, 0, len(c.order))
	for _, key := range c.order {
		if c.counts[key] > min {
			entries = append(entries, countEntry{key: key, count: c.counts[key]})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
