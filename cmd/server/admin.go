package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Simplici0/orca/internal/pricing"
	"github.com/Simplici0/orca/internal/store"
)

func (s *server) handleAdminMaterialsList(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context())
	if err != nil {
		log.Printf("list materials: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao carregar materiais")
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (s *server) handleAdminMaterialsUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	price, err := parseNonNegativeFloat(r.FormValue("price_per_m2"), "price_per_m2")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	waste, err := parsePercent(r.FormValue("waste_percent"), "waste_percent")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := pricing.Material{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Description:   strings.TrimSpace(r.FormValue("description")),
		PricePerM2:    price,
		WasteFraction: waste / 100,
	}
	active := r.FormValue("active") != "0"

	if err := s.store.UpsertMaterial(r.Context(), m, active); err != nil {
		writeAdminError(w, err)
		return
	}
	log.Printf("material %q saved: %.2f/m², waste %.0f%%", m.Name, m.PricePerM2, waste)
	writeMessage(w, "Material salvo com sucesso.")
}

func (s *server) handleAdminHardwareUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	price, err := parseNonNegativeFloat(r.FormValue("unit_price"), "unit_price")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpsertHardwarePrice(r.Context(), r.FormValue("tier"), r.FormValue("kind"), price); err != nil {
		writeAdminError(w, err)
		return
	}
	writeMessage(w, "Preço de acessório salvo com sucesso.")
}

func (s *server) handleAdminLaborUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	pct, err := parsePercent(r.FormValue("rate_percent"), "rate_percent")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	level := pricing.Complexity(strings.TrimSpace(r.FormValue("complexity")))
	if err := s.store.UpdateLaborRate(r.Context(), level, pct/100); err != nil {
		writeAdminError(w, err)
		return
	}
	writeMessage(w, "Taxa de mão de obra salva com sucesso.")
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("admin update: %v", err)
		writeError(w, http.StatusInternalServerError, "erro ao salvar")
	}
}
