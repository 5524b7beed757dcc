package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maagdy/Yaqeen-sub001/internal/prayertimes"
)

// TimesProvider resolves prayer times for a coordinate and date.
type TimesProvider interface {
	ForDate(ctx context.Context, latitude, longitude float64, date string) (*prayertimes.Times, error)
}

type PrayerTimesController struct {
	provider TimesProvider
}

func NewPrayerTimesController(provider TimesProvider) *PrayerTimesController {
	return &PrayerTimesController{provider: provider}
}

// Today returns prayer times for the requested coordinate, cached per
// location and day.
// GET /api/prayer-times?lat=...&lng=...&date=YYYY-MM-DD
func (pc *PrayerTimesController) Today(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		respondBadRequest(c, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		respondBadRequest(c, "invalid lng")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondBadRequest(c, "invalid date, want YYYY-MM-DD")
		return
	}

	times, err := pc.provider.ForDate(c.Request.Context(), lat, lng, date)
	if err != nil {
		respondInternalError(c, err, "prayer times lookup")
		return
	}

	c.JSON(http.StatusOK, times)
}
