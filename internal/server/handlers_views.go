package server

import (
	"net/http"

	"github.com/qtrix/the-final-stake/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleReportView(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	data, ok := web.ReportFor(s.engine, uri.GameID)
	if !ok {
		c.String(http.StatusNotFound, "game not found")
		return
	}
	templ.Handler(web.SettlementReport(data)).ServeHTTP(c.Writer, c.Request)
}
