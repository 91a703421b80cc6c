package http

import (
	"net/http"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"desglose/internal/log"
)

// handleQR renders a QR code PNG pointing at the dashboard. An explicit
// url parameter overrides the configured public URL.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		target = s.opts.PublicURL
	}
	if target == "" {
		UnprocessableEntityError("No hay URL configurada para el código QR").Write(w)
		return
	}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		UnprocessableEntityError("La URL del código QR debe ser http o https").Write(w)
		return
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode QR code", log.FieldError, err)
		InternalServerError("No se pudo generar el código QR").Write(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
