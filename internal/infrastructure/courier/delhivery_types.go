package courier

// Request/response shapes for the Delhivery external API.

type delhiveryShipment struct {
	Name           string `json:"name"`
	Address        string `json:"add"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pin            string `json:"pin"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
	OrderID        string `json:"order"`
	PaymentMode    string `json:"payment_mode"`
	CODAmount      string `json:"cod_amount,omitempty"`
	TotalAmount    string `json:"total_amount"`
	Weight         string `json:"weight"`
	ShipmentWidth  string `json:"shipment_width"`
	ShipmentHeight string `json:"shipment_height"`
	ShipmentLength string `json:"shipment_length"`
}

type delhiveryPickupLocation struct {
	Name    string `json:"name"`
	Address string `json:"add"`
	City    string `json:"city"`
	Pin     string `json:"pin_code"`
	Phone   string `json:"phone"`
}

type delhiveryCreateRequest struct {
	Shipments      []delhiveryShipment     `json:"shipments"`
	PickupLocation delhiveryPickupLocation `json:"pickup_location"`
}

type delhiveryPackage struct {
	Waybill string   `json:"waybill"`
	RefNum  string   `json:"refnum"`
	Status  string   `json:"status"`
	Remarks []string `json:"remarks"`
}

type delhiveryCreateResponse struct {
	Success  bool               `json:"success"`
	Packages []delhiveryPackage `json:"packages"`
	RMK      string             `json:"rmk"`
}

type delhiveryPostalCode struct {
	Pin     string `json:"pin"`
	COD     string `json:"cod"`
	Prepaid string `json:"pre_paid"`
	City    string `json:"city"`
}

type delhiveryPincodeEntry struct {
	PostalCode delhiveryPostalCode `json:"postal_code"`
}

type delhiveryPincodeResponse struct {
	DeliveryCodes []delhiveryPincodeEntry `json:"delivery_codes"`
}
