package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/notsura/agro/internal/service"
	"github.com/notsura/agro/pkg/response"
)

// WeatherHandler 天气代理
type WeatherHandler struct {
	weatherSvc service.WeatherService
}

// NewWeatherHandler 创建 WeatherHandler
func NewWeatherHandler(weatherSvc service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherSvc: weatherSvc}
}

// Current 当前天气与 5 日预报
// GET /api/v1/weather
func (h *WeatherHandler) Current(c *gin.Context) {
	report, err := h.weatherSvc.Current(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrWeatherUnavailable) {
			response.BadGateway(c, 17001, service.ErrWeatherUnavailable.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, report)
}
