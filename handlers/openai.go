package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-safetyboard/analysis"
	"go-safetyboard/dashboard"
	"go-safetyboard/types"
)

// analysisRequest selects the descriptions to analyze: either given verbatim or
// taken from the incidents matching a filter state.
type analysisRequest struct {
	Descriptions []string           `json:"descriptions"`
	Filters      *types.FilterState `json:"filters"`
}

func (r analysisRequest) descriptions(board *dashboard.Board) []string {
	if len(r.Descriptions) > 0 {
		return r.Descriptions
	}
	state := types.NewFilterState()
	if r.Filters != nil {
		state = r.Filters.Normalized()
	}
	return analysis.Descriptions(board.Incidents(state))
}

func bindAnalysisRequest(c *gin.Context) (analysisRequest, bool) {
	var request analysisRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return request, false
	}
	return request, true
}

func aiUnavailable(c *gin.Context, analyzer *analysis.Analyzer) bool {
	if analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI analysis is not configured"})
		return true
	}
	return false
}

// AnalyzeThemes always answers 200; failures are reported inside the analysis.
func AnalyzeThemes(c *gin.Context, analyzer *analysis.Analyzer, board *dashboard.Board) {
	if aiUnavailable(c, analyzer) {
		return
	}
	request, ok := bindAnalysisRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, analyzer.AnalyzeThemes(c.Request.Context(), request.descriptions(board)))
}

func SuggestMeasures(c *gin.Context, analyzer *analysis.Analyzer, board *dashboard.Board) {
	if aiUnavailable(c, analyzer) {
		return
	}
	request, ok := bindAnalysisRequest(c)
	if !ok {
		return
	}

	suggestion, err := analyzer.SuggestPreventativeMeasures(c.Request.Context(), request.descriptions(board))
	if err != nil {
		log.Printf("Error suggesting preventative measures: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to suggest preventative measures"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// AnalyzeVisual streams the model's answer as server-sent events: one "chunk"
// event per piece of text, then "done" or "error".
func AnalyzeVisual(c *gin.Context, analyzer *analysis.Analyzer) {
	if aiUnavailable(c, analyzer) {
		return
	}
	var input types.VisualAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(input.Prompt) == "" && input.PhotoDataURI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt or photoDataUri is required"})
		return
	}

	stream, err := analyzer.AnalyzeVisual(c.Request.Context(), input.Prompt, input.PhotoDataURI)
	if errors.Is(err, analysis.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("Error starting visual analysis: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start visual analysis"})
		return
	}
	defer stream.Close()

	c.Stream(func(w io.Writer) bool {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			c.SSEvent("done", "")
			return false
		}
		if err != nil {
			c.SSEvent("error", err.Error())
			return false
		}
		c.SSEvent("chunk", chunk)
		return true
	})
}

// IdentifyHazards answers {"hazards": [...]} or {"error": "..."}.
func IdentifyHazards(c *gin.Context, analyzer *analysis.Analyzer) {
	if aiUnavailable(c, analyzer) {
		return
	}
	var input types.VisualAnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if err := analysis.ValidateImageDataURI(input.PhotoDataURI); err != nil {
		status = http.StatusBadRequest
	}
	result := analyzer.IdentifyHazards(c.Request.Context(), input.PhotoDataURI)
	if status == http.StatusOK && result.Error != "" {
		status = http.StatusBadGateway
	}
	c.JSON(status, result)
}
