package chi

import (
	"time"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// Error codes returned to clients.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeForbidden        = "forbidden"
	codeNotFound         = "service_not_found"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// boundsDTO is one range filter. A bound of -1 means "absent", same as
// leaving it out.
type boundsDTO struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// sortDTO is an explicit ordering request. Reverse is decoded loosely so a
// non-boolean value can be rejected with a dedicated error instead of a
// generic decode failure.
type sortDTO struct {
	By      string `json:"by"`
	Reverse any    `json:"reverse,omitempty"`
}

type listRequest struct {
	SearchText string               `json:"search_text,omitempty"`
	Filters    map[string]boundsDTO `json:"filters,omitempty"`
	Sort       *sortDTO             `json:"sort,omitempty"`
}

type upsertServiceRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type reviewRequest struct {
	Stars int `json:"stars"`
}

type serviceResponse struct {
	ID          int64     `json:"id"`
	MasterID    int64     `json:"master_id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
}

type serviceListResponse struct {
	Items []serviceResponse `json:"items"`
	Total int               `json:"total"`
}

type hashtagListResponse struct {
	Hashtags []string `json:"hashtags"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func serviceToDTO(svc *domcat.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID(),
		MasterID:    svc.MasterID(),
		Owner:       svc.Owner(),
		Title:       svc.Title(),
		Description: svc.Description(),
		Price:       svc.Price(),
		State:       svc.State().String(),
		CreatedAt:   svc.CreatedAt().UTC(),
	}
}
