package category

import (
	"net/http"

	"github.com/billed-app/bill-service/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() []Category
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.Service.GetAllCategories(),
	})
}
