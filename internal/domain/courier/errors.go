package courier

import "errors"

// Carrier integration errors. Adapters wrap these so the application layer
// can classify failures without knowing carrier specifics.
var (
	ErrCarrierUnavailable     = errors.New("courier: carrier API unreachable")
	ErrCarrierRequestFailed   = errors.New("courier: carrier API request failed")
	ErrCarrierInvalidResponse = errors.New("courier: carrier API returned an invalid response")
	ErrInvalidCredentials     = errors.New("courier: carrier rejected the credentials")
	ErrProviderNotRegistered  = errors.New("courier: no provider registered for courier type")
)
