package courier

// Request/response shapes for the Shiprocket external API v1.

type shiprocketLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type shiprocketLoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type shiprocketOrderItem struct {
	Name         string `json:"name"`
	Sku          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice string `json:"selling_price"`
}

type shiprocketCreateOrderRequest struct {
	OrderID         string                `json:"order_id"`
	OrderDate       string                `json:"order_date"`
	PickupLocation  string                `json:"pickup_location,omitempty"`
	BillingCustomer string                `json:"billing_customer_name"`
	BillingAddress  string                `json:"billing_address"`
	BillingCity     string                `json:"billing_city"`
	BillingPincode  string                `json:"billing_pincode"`
	BillingState    string                `json:"billing_state"`
	BillingCountry  string                `json:"billing_country"`
	BillingEmail    string                `json:"billing_email,omitempty"`
	BillingPhone    string                `json:"billing_phone"`
	ShippingIsBilling bool                `json:"shipping_is_billing"`
	OrderItems      []shiprocketOrderItem `json:"order_items"`
	PaymentMethod   string                `json:"payment_method"`
	SubTotal        string                `json:"sub_total"`
	Length          float64               `json:"length"`
	Breadth         float64               `json:"breadth"`
	Height          float64               `json:"height"`
	Weight          float64               `json:"weight"`
}

type shiprocketCreateOrderResponse struct {
	OrderID    int64  `json:"order_id"`
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	AWBCode    string `json:"awb_code"`
	CourierID  string `json:"courier_company_id"`
	Message    string `json:"message"`
}

type shiprocketCourierCompany struct {
	CourierCompanyID int     `json:"courier_company_id"`
	CourierName      string  `json:"courier_name"`
	FreightCharge    float64 `json:"freight_charge"`
	CODCharges       float64 `json:"cod_charges"`
	EstimatedDays    string  `json:"etd"`
	Rating           float64 `json:"rating"`
	IsSurface        bool    `json:"is_surface"`
}

type shiprocketServiceabilityResponse struct {
	Status int `json:"status"`
	Data   struct {
		RecommendedCourierCompanyID int                        `json:"recommended_courier_company_id"`
		AvailableCourierCompanies   []shiprocketCourierCompany `json:"available_courier_companies"`
	} `json:"data"`
	Message string `json:"message"`
}

type shiprocketAssignAWBRequest struct {
	ShipmentID string `json:"shipment_id"`
	CourierID  string `json:"courier_id,omitempty"`
}

type shiprocketAssignAWBResponse struct {
	AWBAssignStatus int    `json:"awb_assign_status"`
	Message         string `json:"message"`
	Response        struct {
		Data struct {
			AWBCode          string `json:"awb_code"`
			CourierCompanyID int    `json:"courier_company_id"`
			CourierName      string `json:"courier_name"`
			LabelURL         string `json:"label_url"`
		} `json:"data"`
	} `json:"response"`
}
