package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/litetable/litetable-readrows/internal/litetable"
	"github.com/litetable/litetable-readrows/internal/readrows"
	"github.com/litetable/litetable-readrows/internal/recorder"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// RowsResponse is the body of GET /recordings/:name/rows.
type RowsResponse struct {
	Recording string           `json:"recording"`
	Scan      string           `json:"scan"`
	Rows      []*litetable.Row `json:"rows"`
	Errors    []string         `json:"errors"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": "readrows",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/recordings", s.listRecordings)
	s.router.GET("/recordings/:name/rows", s.recordingRows)
}

func (s *Server) listRecordings(c *gin.Context) {
	names, err := s.recordings.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": names})
}

func (s *Server) recordingRows(c *gin.Context) {
	name := c.Param("name")

	strict := s.strict
	if q := c.Query("strict"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "strict must be a boolean"})
			return
		}
		strict = v
	}

	src, closer, err := s.recordings.Open(name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, recorder.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Str("recording", name).Msg("failed to close recording")
		}
	}()

	stream, err := readrows.New(&readrows.Config{Source: src, Strict: strict})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows, seqErrs, err := stream.Collect()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := RowsResponse{
		Recording: name,
		Scan:      stream.ID(),
		Rows:      rows,
		Errors:    make([]string, 0, len(seqErrs)),
	}
	if resp.Rows == nil {
		resp.Rows = []*litetable.Row{}
	}
	for _, e := range seqErrs {
		resp.Errors = append(resp.Errors, e.Error())
	}
	c.JSON(http.StatusOK, resp)
}
