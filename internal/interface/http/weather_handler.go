package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Forecast returns the weather snapshot for a coordinate.
func (h *Handler) Forecast(c *gin.Context) {
	lat, lon, err := coordinatesFromQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		name = h.weatherSvc.ReverseGeocode(c.Request.Context(), lat, lon)
	}

	snap, err := h.weatherSvc.Forecast(c.Request.Context(), lat, lon, name)
	if err != nil {
		abortWithError(c, domainError(err, "weather_failed"))
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CityWeather returns the compact report used by the assistant tool.
func (h *Handler) CityWeather(c *gin.Context) {
	report, err := h.weatherSvc.LookupCity(c.Request.Context(), c.Query("name"))
	if err != nil {
		abortWithError(c, domainError(err, "weather_failed"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// SearchLocations geocodes the search box query.
func (h *Handler) SearchLocations(c *gin.Context) {
	results, err := h.weatherSvc.SearchLocations(c.Request.Context(), c.Query("q"), c.DefaultQuery("lang", "en"))
	if err != nil {
		abortWithError(c, domainError(err, "search_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ReverseGeocode names a coordinate.
func (h *Handler) ReverseGeocode(c *gin.Context) {
	lat, lon, err := coordinatesFromQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": h.weatherSvc.ReverseGeocode(c.Request.Context(), lat, lon)})
}

func coordinatesFromQuery(c *gin.Context) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("lat must be a number")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lon")), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("lon must be a number")
	}
	if !(lat >= -90 && lat <= 90) {
		return 0, 0, fmt.Errorf("lat must be within [-90, 90]")
	}
	if !(lon >= -180 && lon <= 180) {
		return 0, 0, fmt.Errorf("lon must be within [-180, 180]")
	}
	return lat, lon, nil
}
