package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"logview/internal/app/search"
)

// getLogs answers GET /api/v1/logs with a JSON array of hits
func (s *server) getLogs(c *gin.Context) {
	filter, err := search.ParseFilter(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.log.Debug().
		Str("request_id", c.GetString(requestIDKey)).
		Str("query", filter.Query).
		Int("size", filter.Size).
		Msg("Getting logs")

	hits, err := s.searcher.Search(c.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Search failed")
		s.reporter.Capture(err, c.GetString(requestIDKey))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

		return
	}

	if hits == nil {
		hits = []search.Hit{}
	}

	c.PureJSON(http.StatusOK, hits)
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"index":   s.searcher.Index(),
		"version": s.cfg.Version,
	})
}
