package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-safetyboard/charts"
	"go-safetyboard/dashboard"
	"go-safetyboard/filter"
	"go-safetyboard/types"
)

const reloadTimeout = 2 * time.Minute

// Branding is the title shown on the rendered dashboard.
type Branding struct {
	Title    string
	Subtitle string
}

func Health(c *gin.Context, branding Branding) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to " + branding.Title,
	})
}

func GetStatus(c *gin.Context, board *dashboard.Board) {
	c.JSON(http.StatusOK, board.Status())
}

// ReloadIncidents refetches the collection from the incident source.
func ReloadIncidents(c *gin.Context, board *dashboard.Board) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), reloadTimeout)
	defer cancel()

	n, err := board.Load(ctx, dashboard.TriggerManual)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to reload incidents", "loaded": n, "status": board.Status()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loaded": n, "status": board.Status()})
}

func GetIncident(c *gin.Context, board *dashboard.Board) {
	id := c.Param("id")
	inc, ok := board.Incident(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found: " + id})
		return
	}
	c.JSON(http.StatusOK, inc)
}

// GetFilterOptions lists the selectable values per filter key. Repeated
// constructionTypeMain query parameters narrow the sub-type options.
func GetFilterOptions(c *gin.Context, board *dashboard.Board) {
	state := stateFromQuery(c)
	c.JSON(http.StatusOK, gin.H{
		"options":  board.Options(state),
		"taxonomy": filter.Taxonomy(),
	})
}

// PostDashboard computes the dashboard for the filter state in the body. An
// empty body selects everything.
func PostDashboard(c *gin.Context, board *dashboard.Board) {
	state, ok := bindFilterState(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, board.View(state))
}

// GetDashboardPage renders the dashboard as an echarts HTML page. Filters are
// taken from repeated query parameters named after the filter keys.
func GetDashboardPage(c *gin.Context, board *dashboard.Board, branding Branding) {
	var buf bytes.Buffer
	if err := charts.Render(&buf, board.View(stateFromQuery(c)), branding.Title, branding.Subtitle); err != nil {
		log.Printf("Error rendering dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render dashboard"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func bindFilterState(c *gin.Context) (types.FilterState, bool) {
	var state types.FilterState
	if err := c.ShouldBindJSON(&state); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter state: " + err.Error()})
		return types.FilterState{}, false
	}
	return state.Normalized(), true
}

func stateFromQuery(c *gin.Context) types.FilterState {
	// FilterKeys lists the main type before the sub type, so a sub selection
	// survives the main type clearing it.
	state := types.NewFilterState()
	for _, key := range types.FilterKeys {
		if values := c.QueryArray(string(key)); len(values) > 0 {
			state = state.With(key, values)
		}
	}
	return state
}
