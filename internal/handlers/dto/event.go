package dto

type CreateEventRequest struct {
	Title        string  `json:"title" binding:"required,max=200"`
	Description  string  `json:"description"`
	StartTime    string  `json:"start_time" binding:"required"`
	EndTime      string  `json:"end_time" binding:"required"`
	VenueAddress string  `json:"venue_address"`
	VenueLat     float64 `json:"venue_lat"`
	VenueLng     float64 `json:"venue_lng"`
}

type UpdateEventRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	VenueAddress string  `json:"venue_address"`
	VenueLat     float64 `json:"venue_lat"`
	VenueLng     float64 `json:"venue_lng"`
}

type EnableChatRequest struct {
	MaxParticipants int `json:"max_participants" binding:"required,min=2,max=1000"`
}
