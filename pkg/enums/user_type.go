package enums

import (
	"fmt"
	"strings"
)

// UserType distinguishes the two marketplace roles. It never changes after registration.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeFarmer   UserType = "farmer"
)

var validUserTypes = []UserType{
	UserTypeCustomer,
	UserTypeFarmer,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts raw input into a UserType.
func ParseUserType(value string) (UserType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUserTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
