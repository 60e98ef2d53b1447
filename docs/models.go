package docs

// Response shapes referenced by the handler annotations.

type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"Address not found"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" example:"40.758"`
	Longitude float64 `json:"longitude" example:"-73.9855"`
}

type ProximityDetails struct {
	AtLocation bool `json:"at_location" example:"true"`
	Nearby     bool `json:"nearby" example:"false"`
	FarAway    bool `json:"far_away" example:"false"`
}

type VerifyLocationResponse struct {
	Status              string           `json:"status" example:"success"`
	UserID              string           `json:"user_id" example:"7f1a1a36-5c8b-4a53-9bd2-2f0b1c6f9b10"`
	ProductivityStatus  string           `json:"productivity_status" enums:"GREEN,YELLOW,RED" example:"GREEN"`
	DistanceMeters      float64          `json:"distance_meters" example:"42.17"`
	VerifiedAddress     string           `json:"verified_address" example:"Times Square, Manhattan, New York, USA"`
	VerifiedCoordinates Coordinates      `json:"verified_coordinates"`
	ProximityDetails    ProximityDetails `json:"proximity_details"`
}

type HistoryUser struct {
	ID                      string       `json:"id" example:"7f1a1a36-5c8b-4a53-9bd2-2f0b1c6f9b10"`
	Username                string       `json:"username" example:"alice"`
	LastVerifiedLocation    *string      `json:"last_verified_location"`
	LastVerifiedCoordinates *Coordinates `json:"last_verified_coordinates"`
	LastVerificationTime    *string      `json:"last_verification_time" example:"2025-01-02T03:04:05Z"`
}

type LocationHistoryResponse struct {
	Status string      `json:"status" example:"success"`
	User   HistoryUser `json:"user"`
}
