package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"desglose/internal/core"
	"desglose/internal/log"
)

// handleCreateEntry records a donation or expense. Writes require the admin
// code; a deployment without one configured is read-only.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	if s.opts.AdminCode == "" {
		ForbiddenError("Este panel es de solo lectura").Write(w)
		return
	}
	if !checkAdminCode(s.opts.AdminCode, r.PostFormValue("admin_code")) {
		s.logger.WarnContext(r.Context(), "Rejected entry with wrong admin code",
			log.FieldClientIP, extractClientIP(r))
		UnauthorizedError("Código de administrador incorrecto").Write(w)
		return
	}

	entry, kind, err := parseEntryForm(r)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	year := entry.Date.Year()
	month := entry.Date.Month()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	yb, err := s.store.LoadYearBook(ctx, year)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load year book", log.FieldYear, year, log.FieldError, err)
		InternalServerError("No se pudo cargar el libro del año").Write(w)
		return
	}

	// The first recorded entry freezes the configured opening balance into
	// the book; afterwards the stored value governs.
	if !yb.HasEntries() {
		yb.OpeningBalance = s.opts.OpeningBalance
	}

	if _, err := yb.AddEntry(month, kind, entry); err != nil {
		if core.IsValidationError(err) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to add entry", log.FieldError, err)
		InternalServerError("No se pudo registrar el movimiento").Write(w)
		return
	}

	if err := s.store.SaveYearBook(ctx, yb); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save year book", log.FieldYear, year, log.FieldError, err)
		InternalServerError("No se pudo guardar el libro del año").Write(w)
		return
	}

	s.logger.InfoContext(r.Context(), "Entry recorded",
		log.FieldYear, year,
		log.FieldMonth, month,
		log.FieldLedger, kind.String(),
		log.FieldAmountCents, entry.Amount.Cents)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerEntryCreated(year, month).
		TriggerFormReset().
		BodyHTML(`<div class="success">Movimiento registrado</div>`).
		Write(w)
}

// parseEntryForm validates the submitted fields and builds the entry.
func parseEntryForm(r *http.Request) (core.Entry, core.LedgerKind, error) {
	kind := core.LedgerKind(r.PostFormValue("kind"))
	if !kind.IsValid() {
		return core.Entry{}, "", fmt.Errorf("tipo de movimiento inválido: %q", r.PostFormValue("kind"))
	}

	rawDate := r.PostFormValue("date")
	t, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return core.Entry{}, "", fmt.Errorf("fecha inválida: %q", rawDate)
	}

	description := sanitizeInput(r.PostFormValue("description"))
	if description == "" {
		return core.Entry{}, "", core.ErrEmptyDescription
	}

	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		return core.Entry{}, "", fmt.Errorf("monto inválido: %w", err)
	}

	entry := core.Entry{
		Date:        core.NewDate(t.Year(), int(t.Month()), t.Day()),
		Description: description,
		Amount:      amount,
	}
	return entry, kind, nil
}
