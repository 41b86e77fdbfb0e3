package models

import "time"

type AirTravel struct {
	ID                 uint         `gorm:"primaryKey" json:"air_travel_id"`
	PackageID          uint         `gorm:"not null;uniqueIndex" json:"package_id"`
	DepartureCountry   string       `gorm:"size:100;not null" json:"departure_country"`
	DepartureCity      string       `gorm:"size:100;not null" json:"departure_city"`
	DepartureAirport   string       `gorm:"size:100;not null" json:"departure_airport"`
	DestinationCountry string       `gorm:"size:100;not null;index" json:"destination_country"`
	DestinationCity    string       `gorm:"size:100;not null" json:"destination_city"`
	DestinationAirport string       `gorm:"size:100;not null" json:"destination_airport"`
	PreferredAirline   *string      `gorm:"size:100;index" json:"preferred_airline"`
	NumberOfAdults     int          `gorm:"not null" json:"number_of_adults"`
	NumberOfChildren   int          `gorm:"not null;default:0" json:"number_of_children"`
	NumberOfInfants    int          `gorm:"not null;default:0" json:"number_of_infants"`
	DepartureDate      Date         `gorm:"not null" json:"departure_date"`
	TripDurationDays   int          `gorm:"not null" json:"trip_duration_days"`
	TripDurationNights int          `gorm:"not null" json:"trip_duration_nights"`
	TransitTimeHours   *float64     `gorm:"type:decimal(5,2)" json:"transit_time_hours"`
	TimeOfTravel       TimeOfTravel `gorm:"type:varchar(2);not null;default:'AM'" json:"time_of_travel"`
	LoungesAccess      bool         `gorm:"not null;default:false" json:"lounges_access"`
	EstimatedCost      float64      `gorm:"type:decimal(12,2);not null;default:0" json:"estimated_cost"`
	Notes              *string      `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (AirTravel) TableName() string {
	return "air_travel"
}

type Accommodation struct {
	ID                uint      `gorm:"primaryKey" json:"accommodation_id"`
	PackageID         uint      `gorm:"not null;index" json:"package_id"`
	AccommodationType string    `gorm:"size:100;not null" json:"accommodation_type"`
	Country           string    `gorm:"size:100;not null" json:"country"`
	City              string    `gorm:"size:100;not null" json:"city"`
	NumberOfBedrooms  int       `gorm:"not null" json:"number_of_bedrooms"`
	StarRating        *int      `json:"star_rating"`
	BedType           *string   `gorm:"size:50" json:"bed_type"`
	Cost              float64   `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	CheckInDate       Date      `gorm:"not null" json:"check_in_date"`
	CheckOutDate      Date      `gorm:"not null" json:"check_out_date"`
	Notes             *string   `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Tour struct {
	ID                uint      `gorm:"primaryKey" json:"tour_id"`
	PackageID         uint      `gorm:"not null;index" json:"package_id"`
	TourType          string    `gorm:"size:100;not null" json:"tour_type"`
	TourNumber        *string   `gorm:"size:50" json:"tour_number"`
	NumberOfTransfers int       `gorm:"not null;default:0" json:"number_of_transfers"`
	Country           string    `gorm:"size:100;not null" json:"country"`
	City              string    `gorm:"size:100;not null" json:"city"`
	TourDescription   *string   `gorm:"type:text" json:"tour_description"`
	Cost              float64   `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	TourDate          *Date     `json:"tour_date"`
	Notes             *string   `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Visa struct {
	ID           uint      `gorm:"primaryKey" json:"visa_id"`
	PackageID    uint      `gorm:"not null;index" json:"package_id"`
	VisaType     string    `gorm:"size:100;not null" json:"visa_type"`
	VisaStatus   string    `gorm:"size:50;not null;default:'Pending'" json:"visa_status"`
	Country      string    `gorm:"size:100;not null" json:"country"`
	Cost         float64   `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	SpecialNotes *string   `gorm:"type:text" json:"special_notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
