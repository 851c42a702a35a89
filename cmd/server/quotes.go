package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/orca/internal/report"
	"github.com/Simplici0/orca/internal/store"
)

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	scope := u.ID
	if u.Admin {
		scope = 0
	}

	quotes, err := s.store.ListQuotes(r.Context(), scope, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		log.Printf("list quotes: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar orçamentos")
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// loadQuote fetches the quote named in the URL. Quotes of other users are reported as
// missing unless the caller is an admin.
func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (store.QuoteRecord, bool) {
	rec, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "orçamento não encontrado")
		return store.QuoteRecord{}, false
	}
	if err != nil {
		log.Printf("get quote: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar orçamento")
		return store.QuoteRecord{}, false
	}

	u, _ := userFromContext(r.Context())
	if !u.Admin && rec.UserID != u.ID {
		writeError(w, http.StatusNotFound, "orçamento não encontrado")
		return store.QuoteRecord{}, false
	}
	return rec, true
}

func bundleOf(rec store.QuoteRecord) report.Bundle {
	return report.Bundle{
		ID:        rec.PublicID,
		Client:    rec.Client,
		Room:      rec.Room,
		Analysis:  rec.Analysis,
		Quote:     rec.Quote,
		CreatedAt: rec.CreatedAt,
	}
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, quoteDetail{QuoteRecord: rec, Charts: report.Charts(rec.Quote)})
}

func (s *server) handleQuoteReport(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := w.Write([]byte(report.Text(bundleOf(rec)))); err != nil {
		log.Printf("write report: %v", err)
	}
}

func (s *server) handleQuoteCharts(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Charts(rec.Quote))
}

type exporter struct {
	ext         string
	contentType string
	render      func(report.Bundle) ([]byte, error)
}

var (
	jsonExport  = exporter{"json", "application/json", report.JSON}
	excelExport = exporter{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.Excel}
	pdfExport   = exporter{"pdf", "application/pdf", report.PDF}
)

func (s *server) handleQuoteExport(e exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := s.loadQuote(w, r)
		if !ok {
			return
		}
		body, err := e.render(bundleOf(rec))
		if err != nil {
			log.Printf("export quote %s as %s: %v", rec.PublicID, e.ext, err)
			writeError(w, http.StatusInternalServerError, "erro ao exportar orçamento")
			return
		}
		writeAttachment(w, e.contentType, report.FileName(rec.Client, rec.Room, e.ext), body)
	}
}
