package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ContactAddress is a value object representing a shipment contact point:
// the person being contacted plus the postal address. It is immutable and
// snapshotted onto shipments at creation time so later edits to customer
// or warehouse records never change an in-flight shipment.
type ContactAddress struct {
	name        string
	phone       string
	email       string
	addressLine string
	landmark    string
	city        string
	state       string
	pincode     string
	country     string
}

// NewContactAddress creates a new ContactAddress with required fields validated
func NewContactAddress(name, phone, addressLine, city, state, pincode string) (ContactAddress, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	addressLine = strings.TrimSpace(addressLine)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	pincode = strings.TrimSpace(pincode)

	if name == "" {
		return ContactAddress{}, errors.New("contact name cannot be empty")
	}
	if phone == "" {
		return ContactAddress{}, errors.New("contact phone cannot be empty")
	}
	if addressLine == "" {
		return ContactAddress{}, errors.New("address line cannot be empty")
	}
	if city == "" {
		return ContactAddress{}, errors.New("city cannot be empty")
	}
	if state == "" {
		return ContactAddress{}, errors.New("state cannot be empty")
	}
	if !pincodeRegex.MatchString(pincode) {
		return ContactAddress{}, fmt.Errorf("invalid pincode: %s", pincode)
	}

	return ContactAddress{
		name:        name,
		phone:       phone,
		addressLine: addressLine,
		city:        city,
		state:       state,
		pincode:     pincode,
		country:     "India",
	}, nil
}

// Name returns the contact person's name
func (a ContactAddress) Name() string { return a.name }

// Phone returns the contact phone number
func (a ContactAddress) Phone() string { return a.phone }

// Email returns the contact email, may be empty
func (a ContactAddress) Email() string { return a.email }

// AddressLine returns the street address line
func (a ContactAddress) AddressLine() string { return a.addressLine }

// Landmark returns the optional landmark
func (a ContactAddress) Landmark() string { return a.landmark }

// City returns the city
func (a ContactAddress) City() string { return a.city }

// State returns the state
func (a ContactAddress) State() string { return a.state }

// Pincode returns the 6-digit postal code
func (a ContactAddress) Pincode() string { return a.pincode }

// Country returns the country
func (a ContactAddress) Country() string { return a.country }

// IsEmpty returns true if the address has no meaningful content
func (a ContactAddress) IsEmpty() bool {
	return a.name == "" && a.phone == "" && a.addressLine == "" && a.pincode == ""
}

// WithEmail returns a copy of the address with the email set
func (a ContactAddress) WithEmail(email string) ContactAddress {
	a.email = strings.TrimSpace(email)
	return a
}

// WithLandmark returns a copy of the address with the landmark set
func (a ContactAddress) WithLandmark(landmark string) ContactAddress {
	a.landmark = strings.TrimSpace(landmark)
	return a
}

// WithCountry returns a copy of the address with the country set
func (a ContactAddress) WithCountry(country string) ContactAddress {
	a.country = strings.TrimSpace(country)
	return a
}

// FullAddress returns the complete address as a single line
func (a ContactAddress) FullAddress() string {
	parts := []string{a.addressLine}
	if a.landmark != "" {
		parts = append(parts, a.landmark)
	}
	parts = append(parts, a.city, a.state, a.pincode)
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses have the same field values
func (a ContactAddress) Equals(other ContactAddress) bool {
	return a == other
}

// SamePincode returns true if both addresses share the same pincode
func (a ContactAddress) SamePincode(other ContactAddress) bool {
	return a.pincode == other.pincode
}

// contactAddressJSON is the serialization shape for ContactAddress
type contactAddressJSON struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AddressLine string `json:"address_line"`
	Landmark    string `json:"landmark,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a ContactAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(contactAddressJSON{
		Name:        a.name,
		Phone:       a.phone,
		Email:       a.email,
		AddressLine: a.addressLine,
		Landmark:    a.landmark,
		City:        a.city,
		State:       a.state,
		Pincode:     a.pincode,
		Country:     a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *ContactAddress) UnmarshalJSON(data []byte) error {
	var v contactAddressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.name = v.Name
	a.phone = v.Phone
	a.email = v.Email
	a.addressLine = v.AddressLine
	a.landmark = v.Landmark
	a.city = v.City
	a.state = v.State
	a.pincode = v.Pincode
	a.country = v.Country
	return nil
}

// Value implements driver.Valuer, storing the address as a JSON document
func (a ContactAddress) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *ContactAddress) Scan(value any) error {
	if value == nil {
		*a = ContactAddress{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ContactAddress", value)
	}
	if len(data) == 0 {
		*a = ContactAddress{}
		return nil
	}
	return json.Unmarshal(data, a)
}
