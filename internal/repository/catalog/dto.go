package catalog

import (
	"strconv"
	"time"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// Hash field names of a service row.
const (
	fieldID          = "id"
	fieldMasterID    = "master_id"
	fieldOwner       = "owner"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldState       = "state"
	fieldCreatedAt   = "created_at" // unix milliseconds
)

func serviceToFields(svc *domcat.Service) map[string]string {
	return map[string]string{
		fieldID:          strconv.FormatInt(svc.ID(), 10),
		fieldMasterID:    strconv.FormatInt(svc.MasterID(), 10),
		fieldOwner:       svc.Owner(),
		fieldTitle:       svc.Title(),
		fieldDescription: svc.Description(),
		fieldPrice:       strconv.FormatFloat(svc.Price(), 'f', -1, 64),
		fieldState:       strconv.Itoa(int(svc.State())),
		fieldCreatedAt:   strconv.FormatInt(svc.CreatedAt().UnixMilli(), 10),
	}
}

func serviceFromFields(fields map[string]string) domcat.Service {
	id, _ := strconv.ParseInt(fields[fieldID], 10, 64)
	masterID, _ := strconv.ParseInt(fields[fieldMasterID], 10, 64)
	price, _ := strconv.ParseFloat(fields[fieldPrice], 64)
	state, _ := strconv.Atoi(fields[fieldState])
	createdMilli, _ := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)

	return domcat.Reconstruct(
		id, masterID, fields[fieldOwner], fields[fieldTitle], fields[fieldDescription],
		price, domcat.State(state), time.UnixMilli(createdMilli).UTC(),
	)
}
