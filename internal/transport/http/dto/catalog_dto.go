package dto

type CourseResponse struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category"`
	DeliveryModes []string `json:"deliveryModes"`
	Level         string   `json:"level,omitempty"`
	DurationHours int      `json:"durationHours,omitempty"`
	PriceUsd      float64  `json:"priceUsd"`
	Currency      string   `json:"currency"`
	Featured      bool     `json:"featured"`
}

type CourseListResponse struct {
	OK      bool             `json:"ok"`
	Courses []CourseResponse `json:"courses"`
}

type CourseItemResponse struct {
	OK     bool           `json:"ok"`
	Course CourseResponse `json:"course"`
}
