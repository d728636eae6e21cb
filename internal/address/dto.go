package address

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgcheckout "github.com/angelmondragon/farmfresh-backend/pkg/checkout"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
)

// AddressInput carries the address fields of an add request.
type AddressInput struct {
	FullName string
	Street   string
	City     string
	State    string
	Zip      string
	Phone    string
}

// Fields maps the input onto the shared completeness check.
func (in AddressInput) Fields() pkgcheckout.AddressFields {
	return pkgcheckout.AddressFields{
		FullName: in.FullName,
		Street:   in.Street,
		City:     in.City,
		State:    in.State,
		Zip:      in.Zip,
		Phone:    in.Phone,
	}
}

// UpdateAddressInput is a partial edit. It never touches the default flag.
type UpdateAddressInput struct {
	FullName *string
	Street   *string
	City     *string
	State    *string
	Zip      *string
	Phone    *string
}

// AddressDTO is the transport shape of a saved address.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Phone     string    `json:"phone"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields maps the address onto the shared completeness check.
func (a AddressDTO) Fields() pkgcheckout.AddressFields {
	return pkgcheckout.AddressFields{
		FullName: a.FullName,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		Zip:      a.Zip,
		Phone:    a.Phone,
	}
}

func FromModel(m models.Address) AddressDTO {
	return AddressDTO{
		ID:        m.ID,
		FullName:  m.FullName,
		Street:    m.Street,
		City:      m.City,
		State:     m.State,
		Zip:       m.Zip,
		Phone:     m.Phone,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
	}
}

// FormatDeliveryAddress renders "<street>, <city>, <state> <zip>".
func FormatDeliveryAddress(f pkgcheckout.AddressFields) string {
	return fmt.Sprintf("%s, %s, %s %s", f.Street, f.City, f.State, f.Zip)
}
