package booking

import "fmt"

// Apartment identifies one of the two rental units. The values are stable
// identifiers, not display names.
type Apartment string

const (
	ApartmentOne Apartment = "1"
	ApartmentTwo Apartment = "2"
)

// displayNames maps the stable identifiers to what guests see in emails.
var displayNames = map[Apartment]string{
	ApartmentOne: "Left",
	ApartmentTwo: "Right",
}

// IsValid returns true if the apartment is one of the two known units.
func (a Apartment) IsValid() bool {
	_, exists := displayNames[a]
	return exists
}

// DisplayName returns the human-readable unit name.
func (a Apartment) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

// String returns the stable identifier.
func (a Apartment) String() string {
	return string(a)
}

// ParseApartment converts a string to an Apartment, returning an error if
// it is not one of the two units.
func ParseApartment(s string) (Apartment, error) {
	a := Apartment(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid apartment: %q", s)
	}
	return a, nil
}
