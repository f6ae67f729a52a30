package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tommcrojo/security-log-analytics/internal/models"
)

func rec(action, country, ip string, latency *float64) models.AccessLog {
	return models.AccessLog{
		Timestamp:      time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
		Action:         action,
		Country:        country,
		IP:             ip,
		ResponseTimeMS: latency,
	}
}

func ms(v float64) *float64 {
	return &v
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
	assert.Nil(t, Aggregate([]models.AccessLog{}))
}

func TestAggregateBasicSummary(t *testing.T) {
	records := []models.AccessLog{
		rec(models.ActionGeoBlocked, "US", "1.1.1.1", nil),
		rec(models.ActionGeoBlocked, "US", "2.2.2.2", nil),
		rec(models.ActionLegitimate, "DE", "3.3.3.3", nil),
	}

	m := Aggregate(records)
	require.NotNil(t, m)

	assert.Equal(t, 3, m.Summary.TotalRequests)
	assert.Equal(t, 2, m.Summary.BlockedRequests)
	assert.InDelta(t, 66.67, m.Summary.SecurityScore, 0.001)
	assert.Equal(t, []CountryCount{{Country: "US", Blocked: 2}}, m.GeoAnalysis)
	assert.Equal(t, 1, m.TrafficQuality.Legitimate)
	assert.Equal(t, 0, m.TrafficQuality.Bots)
}

func TestAggregateTrafficBuckets(t *testing.T) {
	records := []models.AccessLog{
		rec(models.ActionLegitimate, "US", "1.1.1.1", nil),
		rec(models.ActionLegitimate, "US", "1.1.1.1", nil),
		rec(models.ActionBotAllowed, "US", "2.2.2.2", nil),
		rec("rate_limited", "US", "3.3.3.3", nil), // unrecognized: totals only
	}

	m := Aggregate(records)
	require.NotNil(t, m)

	assert.Equal(t, 4, m.Summary.TotalRequests)
	assert.Equal(t, 0, m.Summary.BlockedRequests)
	assert.Equal(t, 2, m.TrafficQuality.Legitimate)
	assert.Equal(t, 1, m.TrafficQuality.Bots)
	assert.InDelta(t, 0.0, m.Summary.SecurityScore, 0.001)
}

func TestAggregateSuspiciousIPThreshold(t *testing.T) {
	t.Run("six blocks makes the watchlist", func(t *testing.T) {
		var records []models.AccessLog
		for i := 0; i < 6; i++ {
			records = append(records, rec(models.ActionBotBlocked, "CN", "1.2.3.4", nil))
		}

		m := Aggregate(records)
		require.NotNil(t, m)
		assert.Equal(t, []IPCount{{IP: "1.2.3.4", Blocked: 6}}, m.ThreatIntel)
	})

	t.Run("exactly five blocks does not", func(t *testing.T) {
		var records []models.AccessLog
		for i := 0; i < 5; i++ {
			records = append(records, rec(models.ActionPathBlocked, "RU", "9.9.9.9", nil))
		}

		m := Aggregate(records)
		require.NotNil(t, m)
		assert.Empty(t, m.ThreatIntel)
		assert.Equal(t, 5, m.Summary.BlockedRequests)
	})
}

func TestAggregateGeoRanking(t *testing.T) {
	var records []models.AccessLog
	// Six countries so the top-5 cap kicks in; DE and FR tie on 2.
	counts := []struct {
		country string
		n       int
	}{
		{"US", 4}, {"DE", 2}, {"FR", 2}, {"CN", 5}, {"RU", 3}, {"BR", 1},
	}
	for _, c := range counts {
		for i := 0; i < c.n; i++ {
			records = append(records, rec(models.ActionGeoBlocked, c.country, "1.1.1.1", nil))
		}
	}

	m := Aggregate(records)
	require.NotNil(t, m)

	want := []CountryCount{
		{Country: "CN", Blocked: 5},
		{Country: "US", Blocked: 4},
		{Country: "RU", Blocked: 3},
		{Country: "DE", Blocked: 2}, // first seen before FR
		{Country: "FR", Blocked: 2},
	}
	assert.Equal(t, want, m.GeoAnalysis)
}

func TestAggregateThreatIntelCap(t *testing.T) {
	var records []models.AccessLog
	// Ten IPs all above the threshold; only the top eight survive.
	for i := 0; i < 10; i++ {
		ip := string(rune('a'+i)) + ".ip"
		for j := 0; j < 6+i; j++ {
			records = append(records, rec(models.ActionBotBlocked, "US", ip, nil))
		}
	}

	m := Aggregate(records)
	require.NotNil(t, m)
	require.Len(t, m.ThreatIntel, 8)

	assert.Equal(t, IPCount{IP: "j.ip", Blocked: 15}, m.ThreatIntel[0])
	assert.Equal(t, IPCount{IP: "c.ip", Blocked: 8}, m.ThreatIntel[7])
	for _, entry := range m.ThreatIntel {
		assert.Greater(t, entry.Blocked, 5)
	}
	for i := 1; i < len(m.ThreatIntel); i++ {
		assert.GreaterOrEqual(t, m.ThreatIntel[i-1].Blocked, m.ThreatIntel[i].Blocked)
	}
}

func TestAggregateLatency(t *testing.T) {
	t.Run("ignores missing values but not zeros", func(t *testing.T) {
		records := []models.AccessLog{
			rec(models.ActionLegitimate, "US", "1.1.1.1", ms(100)),
			rec(models.ActionLegitimate, "US", "1.1.1.1", ms(0)),
			rec(models.ActionLegitimate, "US", "1.1.1.1", nil),
		}

		m := Aggregate(records)
		require.NotNil(t, m)
		assert.Equal(t, 50, m.Summary.AvgLatencyMS)
	})

	t.Run("truncates instead of rounding", func(t *testing.T) {
		records := []models.AccessLog{
			rec(models.ActionLegitimate, "US", "1.1.1.1", ms(1)),
			rec(models.ActionLegitimate, "US", "1.1.1.1", ms(2)),
		}

		m := Aggregate(records)
		require.NotNil(t, m)
		assert.Equal(t, 1, m.Summary.AvgLatencyMS)
	})

	t.Run("all missing yields zero", func(t *testing.T) {
		records := []models.AccessLog{
			rec(models.ActionLegitimate, "US", "1.1.1.1", nil),
			rec(models.ActionBotAllowed, "US", "2.2.2.2", nil),
		}

		m := Aggregate(records)
		require.NotNil(t, m)
		assert.Equal(t, 0, m.Summary.AvgLatencyMS)
	})
}

func TestAggregateInvariants(t *testing.T) {
	batches := [][]models.AccessLog{
		{rec(models.ActionGeoBlocked, "US", "1.1.1.1", ms(12))},
		{
			rec(models.ActionLegitimate, "US", "1.1.1.1", nil),
			rec(models.ActionBotBlocked, "", "2.2.2.2", ms(3)),
			rec("weird_action", "FR", "3.3.3.3", ms(7)),
		},
		{
			rec(models.ActionPathBlocked, "CN", "4.4.4.4", nil),
			rec(models.ActionPathBlocked, "CN", "4.4.4.4", nil),
			rec(models.ActionLegitimate, "CN", "4.4.4.4", nil),
		},
	}

	for _, records := range batches {
		m := Aggregate(records)
		require.NotNil(t, m)
		assert.LessOrEqual(t, m.Summary.BlockedRequests, m.Summary.TotalRequests)
		assert.GreaterOrEqual(t, m.Summary.SecurityScore, 0.0)
		assert.LessOrEqual(t, m.Summary.SecurityScore, 100.0)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	records := []models.AccessLog{
		rec(models.ActionGeoBlocked, "US", "1.1.1.1", ms(10)),
		rec(models.ActionGeoBlocked, "DE", "2.2.2.2", ms(20)),
		rec(models.ActionLegitimate, "FR", "3.3.3.3", nil),
	}

	first := Aggregate(records)
	second := Aggregate(records)
	assert.Equal(t, first, second)
}
