package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/notsura/agro/config"
)

// ErrUnavailable 上游天气服务不可用或返回内容无法解析
var ErrUnavailable = errors.New("weather data unavailable")

const forecastDays = 5

// Current 当前天气
type Current struct {
	Temp        string `json:"temp"`
	Condition   string `json:"condition"`
	Wind        string `json:"wind"`
	LastUpdated string `json:"last_updated"`
}

// DayForecast 单日预报
type DayForecast struct {
	Day       string `json:"day"`
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
}

// Report 对外返回的天气报告
type Report struct {
	Location string        `json:"location"`
	Current  Current       `json:"current"`
	Forecast []DayForecast `json:"forecast"`
}

// Client Open-Meteo 客户端
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	location  string
	latitude  float64
	longitude float64
}

// NewClient 创建带重试的 Open-Meteo 客户端
func NewClient(cfg *config.WeatherConfig, logger *zap.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = &leveledLogger{sugar: logger.Named("weather").Sugar()}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{
		http:      rc,
		baseURL:   cfg.BaseURL,
		location:  cfg.Location,
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
	}
}

// Forecast 拉取当前天气与未来 5 天预报
func (c *Client) Forecast(ctx context.Context) (*Report, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	q.Set("timezone", "auto")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("构造天气请求失败: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return c.parse(body)
}

func (c *Client) parse(body []byte) (*Report, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrUnavailable)
	}
	doc := gjson.ParseBytes(body)

	cw := doc.Get("current_weather")
	report := &Report{
		Location: c.location,
		Current: Current{
			Temp:        degrees(floatOr(cw.Get("temperature"), 24)),
			Condition:   Condition(int(floatOr(cw.Get("weathercode"), 0))),
			Wind:        fmt.Sprintf("%d km/h", int(floatOr(cw.Get("windspeed"), 12))),
			LastUpdated: "Just now",
		},
		Forecast: make([]DayForecast, 0, forecastDays),
	}

	days := doc.Get("daily.time").Array()
	maxTemps := doc.Get("daily.temperature_2m_max").Array()
	codes := doc.Get("daily.weathercode").Array()
	if len(days) < forecastDays || len(maxTemps) < forecastDays || len(codes) < forecastDays {
		return nil, fmt.Errorf("%w: forecast has fewer than %d days", ErrUnavailable, forecastDays)
	}

	for i := 0; i < forecastDays; i++ {
		date, err := time.Parse("2006-01-02", days[i].String())
		if err != nil {
			return nil, fmt.Errorf("%w: bad forecast date %q", ErrUnavailable, days[i].String())
		}
		report.Forecast = append(report.Forecast, DayForecast{
			Day:       date.Weekday().String()[:3],
			Temp:      degrees(maxTemps[i].Float()),
			Condition: Condition(int(codes[i].Int())),
		})
	}

	return report, nil
}

// ── WMO 天气代码 ──

var conditions = map[int]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Rime Fog",
	51: "Light Drizzle",
	61: "Slight Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	95: "Thunderstorm",
}

// Condition 将 WMO 天气代码映射为文字描述，未知代码视为晴天
func Condition(code int) string {
	if s, ok := conditions[code]; ok {
		return s
	}
	return "Clear Sky"
}

func degrees(v float64) string {
	return fmt.Sprintf("%d°", int(v))
}

func floatOr(r gjson.Result, def float64) float64 {
	if !r.Exists() {
		return def
	}
	return r.Float()
}

// leveledLogger 将 retryablehttp 日志转到 zap
type leveledLogger struct {
	sugar *zap.SugaredLogger
}

func (l *leveledLogger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }
func (l *leveledLogger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *leveledLogger) Info(msg string, kv ...interface{})  { l.sugar.Debugw(msg, kv...) }
func (l *leveledLogger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
