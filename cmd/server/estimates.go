package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Simplici0/orca/internal/accounts"
	"github.com/Simplici0/orca/internal/analysis"
	"github.com/Simplici0/orca/internal/pricing"
	"github.com/Simplici0/orca/internal/report"
	"github.com/Simplici0/orca/internal/store"
)

const (
	multipartMemory = 32 << 20
	previewBodyMax  = 1 << 20
)

type materialOption struct {
	pricing.Material
	Default bool `json:"default"`
}

type tierOption struct {
	Name    string               `json:"name"`
	Label   string               `json:"label"`
	Prices  pricing.HardwareTier `json:"prices"`
	Default bool                 `json:"default"`
}

type complexityOption struct {
	Level   pricing.Complexity `json:"level"`
	Label   string             `json:"label"`
	Rate    float64            `json:"rate"`
	Default bool               `json:"default"`
}

type marginBounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Step    int `json:"step"`
	Default int `json:"default"`
}

type catalogResponse struct {
	Materials        []materialOption   `json:"materials"`
	HardwareTiers    []tierOption       `json:"hardware_tiers"`
	Complexities     []complexityOption `json:"complexities"`
	Margin           marginBounds       `json:"profit_margin_pct"`
	SupportedFormats []string           `json:"supported_formats"`
	MaxUploadMB      int64              `json:"max_upload_mb"`
	Currency         string             `json:"currency"`
	PriceSource      string             `json:"price_source"`
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.store.LoadCatalog(r.Context())
	if err != nil {
		log.Printf("load catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar tabela de preços")
		return
	}

	resp := catalogResponse{
		Materials:        make([]materialOption, 0, len(cat.Materials)),
		HardwareTiers:    make([]tierOption, 0, len(cat.HardwareTiers)),
		Complexities:     make([]complexityOption, 0, len(cat.LaborRates)),
		Margin:           marginBounds{Min: minMarginPct, Max: maxMarginPct, Step: marginStepPct, Default: defaultMarginPct},
		SupportedFormats: analysis.SupportedFormats,
		MaxUploadMB:      s.cfg.MaxUploadMB,
		Currency:         s.cfg.Currency,
		PriceSource:      cat.Source,
	}
	for _, name := range cat.MaterialNames() {
		resp.Materials = append(resp.Materials, materialOption{Material: cat.Materials[name], Default: name == cat.DefaultMaterial})
	}
	for _, name := range cat.TierNames() {
		resp.HardwareTiers = append(resp.HardwareTiers, tierOption{
			Name:    name,
			Label:   report.TierLabel(name),
			Prices:  cat.HardwareTiers[name],
			Default: name == cat.DefaultTier,
		})
	}
	for _, level := range pricing.Complexities() {
		rate, ok := cat.LaborRates[level]
		if !ok {
			continue
		}
		resp.Complexities = append(resp.Complexities, complexityOption{
			Level:   level,
			Label:   report.ComplexityLabel(level),
			Rate:    rate,
			Default: level == cat.DefaultComplexity,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type quoteDetail struct {
	store.QuoteRecord
	Charts report.ChartSet `json:"charts"`
}

type estimateResponse struct {
	quoteDetail
	RemainingProjects int `json:"remaining_projects"`
}

// handleEstimate runs the full upload flow: gate, analyze, price, record usage, save.
func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())

	allowed, err := s.accounts.MayEstimate(r.Context(), u.ID)
	if err != nil {
		log.Printf("usage gate for user %d: %v", u.ID, err)
		writeError(w, http.StatusInternalServerError, "erro ao verificar plano")
		return
	}
	if !allowed {
		writeError(w, http.StatusForbidden, "limite de projetos do plano atingido neste mês")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "arquivo excede o tamanho máximo")
			return
		}
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file é obrigatório")
		return
	}
	file.Close()

	cat, err := s.store.LoadCatalog(r.Context())
	if err != nil {
		log.Printf("load catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar tabela de preços")
		return
	}

	form, err := parseEstimateForm(r, cat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := analysis.Analyze(header.Filename, header.Size, s.cfg.MaxUploadBytes())
	if err != nil {
		writeEstimateError(w, err)
		return
	}

	q, err := pricing.BuildQuote(a.Components, form.Config, cat)
	if err != nil {
		writeEstimateError(w, err)
		return
	}
	for _, sub := range q.Substitutions {
		log.Printf("estimate for user %d: %s", u.ID, sub)
	}

	err = s.accounts.RecordUsage(r.Context(), u.ID)
	if errors.Is(err, accounts.ErrLimitReached) {
		writeError(w, http.StatusForbidden, "limite de projetos do plano atingido neste mês")
		return
	}
	if err != nil {
		log.Printf("record usage for user %d: %v", u.ID, err)
		writeError(w, http.StatusInternalServerError, "erro ao registrar uso")
		return
	}

	rec, err := s.store.SaveQuote(r.Context(), store.QuoteRecord{
		UserID:   u.ID,
		Client:   form.Client,
		Room:     form.Room,
		Analysis: a,
		Quote:    q,
	})
	if err != nil {
		log.Printf("save quote: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao salvar orçamento")
		return
	}
	log.Printf("quote %s saved: %d components, total %.2f", rec.PublicID, q.ComponentCount, q.GrandTotal)

	remaining := accounts.Unlimited
	if updated, err := s.accounts.Get(r.Context(), u.ID); err == nil {
		remaining = updated.Remaining()
	}

	writeJSON(w, http.StatusCreated, estimateResponse{
		quoteDetail:       quoteDetail{QuoteRecord: rec, Charts: report.Charts(q)},
		RemainingProjects: remaining,
	})
}

type previewRequest struct {
	Components []pricing.Component `json:"components"`
	Config     pricing.Config      `json:"config"`
}

type previewResponse struct {
	Quote  pricing.Quote   `json:"quote"`
	Charts report.ChartSet `json:"charts"`
}

// handlePreview prices a component list without storing it or counting usage.
func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, previewBodyMax))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	cat, err := s.store.LoadCatalog(r.Context())
	if err != nil {
		log.Printf("load catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar tabela de preços")
		return
	}

	q, err := pricing.BuildQuote(req.Components, req.Config, cat)
	if err != nil {
		writeEstimateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{Quote: q, Charts: report.Charts(q)})
}

func writeEstimateError(w http.ResponseWriter, err error) {
	var vErr *pricing.ValidationError
	switch {
	case errors.As(err, &vErr):
		resp := errorResponse{Error: err.Error(), Field: vErr.Field}
		if vErr.Index >= 0 {
			resp.Index = &vErr.Index
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, analysis.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "formato não suportado; use OBJ, DAE, STL ou PLY")
	case errors.Is(err, analysis.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "arquivo excede o tamanho máximo")
	case errors.Is(err, pricing.ErrComputation):
		log.Printf("estimate computation: %v", err)
		writeError(w, http.StatusUnprocessableEntity, "não foi possível calcular o orçamento")
	default:
		log.Printf("estimate: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao calcular orçamento")
	}
}
