package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/dilutionwise/internal/auth"
	"github.com/mmynk/dilutionwise/internal/calculator"
	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/internal/report"
)

// ReportPathPrefix is where ReportHandler is mounted; the token follows it.
const ReportPathPrefix = "/reports/"

// ReportHandler serves PDF reports for tokens issued by CreateReportLink.
type ReportHandler struct {
	tokens *auth.ReportTokens
	fmt    format.Formatter
	now    func() time.Time
}

// NewReportHandler creates a handler for GET /reports/{token}.
func NewReportHandler(tokens *auth.ReportTokens, f format.Formatter) *ReportHandler {
	return &ReportHandler{tokens: tokens, fmt: f, now: time.Now}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	in, err := h.tokens.Parse(token)
	if err != nil {
		slog.Debug("Report download rejected", "error", err)
		http.NotFound(w, r)
		return
	}

	result, err := calculator.Calculate(in)
	if err != nil {
		slog.Warn("Report token carried unusable inputs", "error", err)
		http.NotFound(w, r)
		return
	}

	rep := report.New(result, h.fmt, h.now())
	var buf bytes.Buffer
	if err := rep.PDF(&buf); err != nil {
		slog.Error("Failed to render report", "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Report download interrupted", "error", err)
	}
}
