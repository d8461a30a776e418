package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-safetyboard/dashboard"
	"go-safetyboard/types"
)

func CreateSession(c *gin.Context, sessions *dashboard.Sessions) {
	id, state := sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"id": id, "filters": state})
}

func GetSession(c *gin.Context, sessions *dashboard.Sessions) {
	state, err := sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "filters": state})
}

// SetSessionFilter replaces the selection of one filter key. Setting the main
// construction type also clears the sub-type selection.
func SetSessionFilter(c *gin.Context, sessions *dashboard.Sessions) {
	key, err := types.ParseFilterKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var request struct {
		Values []string `json:"values"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := sessions.SetFilter(c.Param("id"), key, request.Values)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "filters": state})
}

func ResetSessionFilters(c *gin.Context, sessions *dashboard.Sessions) {
	state, err := sessions.Reset(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "filters": state})
}

func GetSessionDashboard(c *gin.Context, sessions *dashboard.Sessions, board *dashboard.Board) {
	state, err := sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, board.View(state))
}

// GetSessionIncidents lists the incidents matching the session's filters.
func GetSessionIncidents(c *gin.Context, sessions *dashboard.Sessions, board *dashboard.Board) {
	state, err := sessions.Get(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	incidents := board.Incidents(state)
	c.JSON(http.StatusOK, gin.H{"count": len(incidents), "incidents": incidents})
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
