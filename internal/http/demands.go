package http

import (
	"errors"
	"net/http"

	httpmiddleware "github.com/gestaozabele/cidadao/internal/http/middleware"
	"github.com/gestaozabele/cidadao/internal/repo"
	"github.com/gestaozabele/cidadao/internal/service"
)

// CreateDemand registra demanda do usuário logado.
func (h *Handler) CreateDemand(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	p, err := decodePayload(w, r)
	if err != nil {
		if authErr := h.demands.AuthorizeCreate(sess); authErr != nil {
			h.writeServiceError(w, authErr)
			return
		}
		WriteError(w, http.StatusBadRequest, badBodyMessage(err), nil)
		return
	}

	_, err = h.demands.Create(r.Context(), sess, service.CreateDemandInput{
		Category:      p.str("category"),
		Description:   p.str("description"),
		Latitude:      p.opt("latitude"),
		Longitude:     p.opt("longitude"),
		Status:        p.str("status"),
		SecretariatID: p.opt("secretariat_id"),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteMessage(w, http.StatusCreated, "Demanda criada com sucesso!")
}

// GetDemands lista todas as demandas.
func (h *Handler) GetDemands(w http.ResponseWriter, r *http.Request) {
	demands, err := h.demands.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if demands == nil {
		demands = []repo.Demand{}
	}
	WriteJSON(w, http.StatusOK, demands)
}

// UpdateDemand aplica atualização parcial de status e secretaria.
func (h *Handler) UpdateDemand(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	p, err := decodePayload(w, r)
	if err != nil {
		if authErr := h.demands.AuthorizeUpdate(sess); authErr != nil {
			h.writeServiceError(w, authErr)
			return
		}
		WriteError(w, http.StatusBadRequest, badBodyMessage(err), nil)
		return
	}

	err = h.demands.Update(r.Context(), sess, service.UpdateDemandInput{
		DemandID:      p.str("demand_id"),
		Status:        p.str("status"),
		SecretariatID: p.opt("secretariat_id"),
	})
	if err != nil {
		var details any
		if errors.Is(err, service.ErrStorage) {
			details = map[string]string{"sqlstate": repo.SQLState(err)}
		}
		h.writeServiceErrorWithDetails(w, err, details)
		return
	}

	WriteMessage(w, http.StatusOK, "Demanda atualizada com sucesso!")
}
