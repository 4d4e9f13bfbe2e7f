package api

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/report"
)

// GetReport handles GET /api/reports/:file where file is
// inventory.csv, inventory.pdf, bot-performance.csv or bot-performance.pdf.
func (h *Handler) GetReport(c *gin.Context) {
	file := c.Param("file")
	ext := path.Ext(file)
	kind, err := report.ParseKind(strings.TrimSuffix(file, ext))
	if err != nil {
		h.fail(c, err)
		return
	}

	table := report.Build(kind, h.app.Products(), h.app.Bots())
	now := h.app.Now()
	name := fmt.Sprintf("%s-report-%s%s", kind, now.Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))

	switch ext {
	case ".csv":
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(report.CSV(table)))
	case ".pdf":
		out, err := report.PDF(kind, table, now)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Data(http.StatusOK, "application/pdf", out)
	default:
		c.Writer.Header().Del("Content-Disposition")
		h.fail(c, fmt.Errorf("%w: format %q", report.ErrUnknownReport, ext))
	}
}
