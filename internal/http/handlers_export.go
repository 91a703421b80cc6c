package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"desglose/internal/books/xlsx"
	"desglose/internal/log"
)

// handleExport streams the year's workbook as an XLSX download. The file is
// rebuilt from the current book on every request.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 9999 {
			BadRequestError(fmt.Sprintf("invalid year %q", v)).Write(w)
			return
		}
		year = y
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	yb, err := s.store.LoadYearBook(ctx, year)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load year book for export", log.FieldYear, year, log.FieldError, err)
		InternalServerError("No se pudo cargar el libro del año").Write(w)
		return
	}

	filename := fmt.Sprintf("desglose_%d.xlsx", year)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")

	if err := xlsx.WriteWorkbook(yb, w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.ErrorContext(r.Context(), "Failed to stream workbook", log.FieldYear, year, log.FieldError, err)
	}
}
