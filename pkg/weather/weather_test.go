package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notsura/agro/config"
)

const sampleBody = `{
  "current_weather": {"temperature": 27.8, "windspeed": 9.4, "weathercode": 2},
  "daily": {
    "time": ["2024-01-01","2024-01-02","2024-01-03","2024-01-04","2024-01-05","2024-01-06"],
    "temperature_2m_max": [21.9, 22.4, 19.0, 18.5, 20.1, 23.0],
    "temperature_2m_min": [8.0, 9.1, 7.5, 6.2, 7.0, 9.9],
    "weathercode": [0, 61, 95, 3, 77, 1]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.WeatherConfig{
		BaseURL:   srv.URL,
		Location:  "Saharanpur",
		Latitude:  29.968,
		Longitude: 77.545,
		Timeout:   2 * time.Second,
		RetryMax:  0,
	}, zap.NewNop())
}

func TestForecast_Success(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	report, err := c.Forecast(context.Background())
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "current_weather=true")
	assert.Contains(t, gotQuery, "latitude=29.968")

	assert.Equal(t, "Saharanpur", report.Location)
	assert.Equal(t, "27°", report.Current.Temp)
	assert.Equal(t, "Partly Cloudy", report.Current.Condition)
	assert.Equal(t, "9 km/h", report.Current.Wind)
	assert.Equal(t, "Just now", report.Current.LastUpdated)

	require.Len(t, report.Forecast, 5)
	assert.Equal(t, DayForecast{Day: "Mon", Temp: "21°", Condition: "Clear Sky"}, report.Forecast[0])
	assert.Equal(t, "Slight Rain", report.Forecast[1].Condition)
	assert.Equal(t, "Thunderstorm", report.Forecast[2].Condition)
	assert.Equal(t, "Thu", report.Forecast[3].Day)
	// 未知代码 77 视为晴天
	assert.Equal(t, "Clear Sky", report.Forecast[4].Condition)
}

func TestForecast_MissingCurrentUsesDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-01-01","2024-01-02","2024-01-03","2024-01-04","2024-01-05"],
			"temperature_2m_max":[1,2,3,4,5],"weathercode":[0,0,0,0,0]}}`))
	})

	report, err := c.Forecast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "24°", report.Current.Temp)
	assert.Equal(t, "12 km/h", report.Current.Wind)
}

func TestForecast_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Forecast(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable), "期望 ErrUnavailable，实际: %v", err)
}

func TestForecast_ShortForecast(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_weather":{},"daily":{"time":["2024-01-01"],"temperature_2m_max":[1],"weathercode":[0]}}`))
	})

	_, err := c.Forecast(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestForecast_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Forecast(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCondition(t *testing.T) {
	assert.Equal(t, "Overcast", Condition(3))
	assert.Equal(t, "Heavy Rain", Condition(65))
	assert.Equal(t, "Clear Sky", Condition(-1))
}
