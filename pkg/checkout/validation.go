package checkout

import (
	"strings"

	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
)

// AddressFields is the delivery address as submitted at checkout.
type AddressFields struct {
	FullName string
	Street   string
	City     string
	State    string
	Zip      string
	Phone    string
}

// MissingFields lists the required fields that are blank, in form order.
func (a AddressFields) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("full_name", a.FullName)
	check("street", a.Street)
	check("city", a.City)
	check("state", a.State)
	check("zip", a.Zip)
	check("phone", a.Phone)
	return missing
}

// Complete reports whether every required field is present.
func (a AddressFields) Complete() bool {
	return len(a.MissingFields()) == 0
}

// ValidateAddressFields rejects an address with blank required fields and
// reports which ones are missing.
func ValidateAddressFields(addr AddressFields) error {
	missing := addr.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeIncompleteAddress, "please fill all address fields").WithDetails(map[string]any{
		"missing_fields": missing,
	})
}
