// Package api - request handlers
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fence-bom/core/labor"
	"fence-bom/core/types"
	"fence-bom/internal/errors"
)

// CalculateRequest is the calculation endpoint's payload
type CalculateRequest struct {
	// SKUID identifies the product configuration to calculate
	SKUID string `json:"sku_id"`

	// Input contains the caller-supplied dimensions
	Input types.CalculationInput `json:"input"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SKUID == "" {
		s.writeError(w, errors.Input("sku_id is required"))
		return
	}

	result, err := s.engine.CalculateSKU(r.Context(), req.SKUID, req.Input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListProductTypes(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListProductTypes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProductType(w http.ResponseWriter, r *http.Request) {
	var pt types.ProductType
	if !s.decode(w, r, &pt) {
		return
	}
	if pt.Code == "" {
		s.writeError(w, errors.Input("code is required"))
		return
	}
	if err := s.store.CreateProductType(r.Context(), &pt); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, pt)
}

func (s *Server) handleListStyles(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListStyles(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateStyle(w http.ResponseWriter, r *http.Request) {
	var style types.ProductStyle
	if !s.decode(w, r, &style) {
		return
	}
	style.ProductTypeID = chi.URLParam(r, "typeID")
	if err := s.store.CreateStyle(r.Context(), &style); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, style)
}

func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListComponents(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateComponent(w http.ResponseWriter, r *http.Request) {
	var component types.Component
	if !s.decode(w, r, &component) {
		return
	}
	component.ProductTypeID = chi.URLParam(r, "typeID")
	if err := s.store.CreateComponent(r.Context(), &component); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, component)
}

func (s *Server) handleListParameters(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.GetParameters(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateParameter(w http.ResponseWriter, r *http.Request) {
	var p types.FormulaParameter
	if !s.decode(w, r, &p) {
		return
	}
	if p.ParameterKey == "" {
		s.writeError(w, errors.Input("parameter_key is required"))
		return
	}
	if err := s.store.CreateParameter(r.Context(), &p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

// CreateSKURequest carries a SKU and its component bindings
type CreateSKURequest struct {
	SKU      types.ProductSKU        `json:"sku"`
	Bindings []types.MaterialBinding `json:"bindings"`
}

func (s *Server) handleListSKUs(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListSKUs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSKU(w http.ResponseWriter, r *http.Request) {
	var req CreateSKURequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.SKU.SKU == "" || req.SKU.ProductTypeID == "" {
		s.writeError(w, errors.Input("sku and product_type_id are required"))
		return
	}
	if err := s.store.CreateSKU(r.Context(), &req.SKU, req.Bindings); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, req.SKU)
}

func (s *Server) handleGetSKU(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.GetSKU(r.Context(), chi.URLParam(r, "skuID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListLaborCodes(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListLaborCodes(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLaborCode(w http.ResponseWriter, r *http.Request) {
	var code types.LaborCode
	if !s.decode(w, r, &code) {
		return
	}
	if code.SKU == "" {
		s.writeError(w, errors.Input("sku is required"))
		return
	}
	if err := s.store.CreateLaborCode(r.Context(), &code); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, code)
}

func (s *Server) handleListLaborRules(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.GetLaborRules(r.Context(), chi.URLParam(r, "typeID"), nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLaborRule(w http.ResponseWriter, r *http.Request) {
	var rule types.LaborRule
	if !s.decode(w, r, &rule) {
		return
	}
	if rule.ProductTypeID == "" || rule.LaborCodeID == "" {
		s.writeError(w, errors.Input("product_type_id and labor_code_id are required"))
		return
	}
	if err := s.store.CreateLaborRule(r.Context(), &rule); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rule)
}

// SetRateRequest carries one labor rate
type SetRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

func (s *Server) handleSetLaborRate(w http.ResponseWriter, r *http.Request) {
	var req SetRateRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.store.SetLaborRate(r.Context(),
		chi.URLParam(r, "businessUnitID"), chi.URLParam(r, "laborCodeID"), req.Rate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListLaborGroups(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListLaborGroups(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateLaborGroup(w http.ResponseWriter, r *http.Request) {
	var group types.LaborGroup
	if !s.decode(w, r, &group) {
		return
	}
	if err := labor.ValidateGroupPolicy(group); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.CreateLaborGroup(r.Context(), &group); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleListEligibility(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListEligibility(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateEligibility(w http.ResponseWriter, r *http.Request) {
	var entry types.LaborGroupEligibility
	if !s.decode(w, r, &entry) {
		return
	}
	entry.GroupID = chi.URLParam(r, "groupID")
	if err := s.store.CreateEligibility(r.Context(), &entry); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleSetDefaultEligibility(w http.ResponseWriter, r *http.Request) {
	err := s.store.SetDefaultEligibility(r.Context(),
		chi.URLParam(r, "groupID"), chi.URLParam(r, "entryID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
