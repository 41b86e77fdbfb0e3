package dto

import (
	"github.com/tourismoam/backoffice/internal/models"
)

// --- Guests ---

type GuestInput struct {
	FullName           string  `json:"full_name" validate:"required"`
	PhoneNumber        string  `json:"phone_number" validate:"required"`
	CountryOfResidence string  `json:"country_of_residence" validate:"required"`
	PassportImagePath  *string `json:"passport_image_path"`
}

func (in *GuestInput) ToModel() *models.Guest {
	return &models.Guest{
		FullName:           in.FullName,
		PhoneNumber:        in.PhoneNumber,
		CountryOfResidence: in.CountryOfResidence,
		PassportImagePath:  in.PassportImagePath,
		Status:             models.GuestStatusGuest,
	}
}

type GuestUpdate struct {
	FullName           *string `json:"full_name" validate:"omitempty,min=1"`
	PhoneNumber        *string `json:"phone_number" validate:"omitempty,min=1"`
	CountryOfResidence *string `json:"country_of_residence" validate:"omitempty,min=1"`
	PassportImagePath  *string `json:"passport_image_path"`
}

// ApplyTo copies the provided fields onto g and returns how many were set.
func (u *GuestUpdate) ApplyTo(g *models.Guest) int {
	n := 0
	n += set(&g.FullName, u.FullName)
	n += set(&g.PhoneNumber, u.PhoneNumber)
	n += set(&g.CountryOfResidence, u.CountryOfResidence)
	n += setPtr(&g.PassportImagePath, u.PassportImagePath)
	return n
}

type GuestStatusRequest struct {
	Status models.GuestStatus `json:"status" validate:"required,oneof=guest client"`
}

type GuestFilter struct {
	PageQuery
	Status string `query:"status" validate:"omitempty,oneof=guest client"`
	Search string `query:"search"`
}

// --- Packages ---

type PackageCreateRequest struct {
	GuestID     *uint   `json:"guest_id" validate:"required"`
	PackageName *string `json:"package_name"`
}

type PackageUpdate struct {
	PackageName *string               `json:"package_name"`
	Status      *models.PackageStatus `json:"status" validate:"omitempty,oneof=draft quotation_sent contract_sent confirmed completed cancelled"`
}

func (u *PackageUpdate) ApplyTo(p *models.Package) int {
	n := 0
	n += setPtr(&p.PackageName, u.PackageName)
	n += set(&p.Status, u.Status)
	return n
}

type PackageStatusRequest struct {
	Status models.PackageStatus `json:"status" validate:"required,oneof=draft quotation_sent contract_sent confirmed completed cancelled"`
}

type PackageFilter struct {
	PageQuery
	GuestID uint   `query:"guest_id"`
	Status  string `query:"status" validate:"omitempty,oneof=draft quotation_sent contract_sent confirmed completed cancelled"`
	SortBy  string `query:"sort_by" validate:"omitempty,oneof=created_at total_estimated_cost"`
	Order   string `query:"order" validate:"omitempty,oneof=ASC DESC asc desc"`
}

// WizardCreateRequest creates a guest, a package and every component in one go.
type WizardCreateRequest struct {
	Guest          *GuestInput          `json:"guest" validate:"required"`
	PackageName    *string              `json:"package_name"`
	AirTravel      *AirTravelInput      `json:"air_travel"`
	Accommodations []AccommodationInput `json:"accommodations"`
	Tours          []TourInput          `json:"tours"`
	Visas          []VisaInput          `json:"visas"`
}

// WizardUpdateRequest replaces every component whose key is present in the payload.
type WizardUpdateRequest struct {
	PackageName    Field[*string]              `json:"package_name"`
	AirTravel      Field[*AirTravelInput]      `json:"air_travel"`
	Accommodations Field[[]AccommodationInput] `json:"accommodations"`
	Tours          Field[[]TourInput]          `json:"tours"`
	Visas          Field[[]VisaInput]          `json:"visas"`
}

// --- Air travel ---

type AirTravelInput struct {
	DepartureCountry   string               `json:"departure_country" validate:"required"`
	DepartureCity      string               `json:"departure_city" validate:"required"`
	DepartureAirport   string               `json:"departure_airport" validate:"required"`
	DestinationCountry string               `json:"destination_country" validate:"required"`
	DestinationCity    string               `json:"destination_city" validate:"required"`
	DestinationAirport string               `json:"destination_airport" validate:"required"`
	PreferredAirline   *string              `json:"preferred_airline"`
	NumberOfAdults     *int                 `json:"number_of_adults" validate:"omitempty,gte=0"`
	NumberOfChildren   int                  `json:"number_of_children" validate:"gte=0"`
	NumberOfInfants    int                  `json:"number_of_infants" validate:"gte=0"`
	DepartureDate      *models.Date         `json:"departure_date" validate:"required"`
	TripDurationDays   *int                 `json:"trip_duration_days" validate:"required,gte=0"`
	TripDurationNights *int                 `json:"trip_duration_nights" validate:"required,gte=0"`
	TransitTimeHours   *float64             `json:"transit_time_hours" validate:"omitempty,gte=0"`
	TimeOfTravel       *models.TimeOfTravel `json:"time_of_travel" validate:"omitempty,oneof=AM PM"`
	LoungesAccess      bool                 `json:"lounges_access"`
	EstimatedCost      *float64             `json:"estimated_cost" validate:"required,gte=0"`
	Notes              *string              `json:"notes"`
}

func (in *AirTravelInput) ToModel(packageID uint) *models.AirTravel {
	return &models.AirTravel{
		PackageID:          packageID,
		DepartureCountry:   in.DepartureCountry,
		DepartureCity:      in.DepartureCity,
		DepartureAirport:   in.DepartureAirport,
		DestinationCountry: in.DestinationCountry,
		DestinationCity:    in.DestinationCity,
		DestinationAirport: in.DestinationAirport,
		PreferredAirline:   in.PreferredAirline,
		NumberOfAdults:     valueOr(in.NumberOfAdults, 1),
		NumberOfChildren:   in.NumberOfChildren,
		NumberOfInfants:    in.NumberOfInfants,
		DepartureDate:      valueOr(in.DepartureDate, models.Date{}),
		TripDurationDays:   valueOr(in.TripDurationDays, 0),
		TripDurationNights: valueOr(in.TripDurationNights, 0),
		TransitTimeHours:   in.TransitTimeHours,
		TimeOfTravel:       valueOr(in.TimeOfTravel, models.TimeOfTravelAM),
		LoungesAccess:      in.LoungesAccess,
		EstimatedCost:      valueOr(in.EstimatedCost, 0),
		Notes:              in.Notes,
	}
}

type AirTravelUpdate struct {
	DepartureCountry   *string              `json:"departure_country" validate:"omitempty,min=1"`
	DepartureCity      *string              `json:"departure_city" validate:"omitempty,min=1"`
	DepartureAirport   *string              `json:"departure_airport" validate:"omitempty,min=1"`
	DestinationCountry *string              `json:"destination_country" validate:"omitempty,min=1"`
	DestinationCity    *string              `json:"destination_city" validate:"omitempty,min=1"`
	DestinationAirport *string              `json:"destination_airport" validate:"omitempty,min=1"`
	PreferredAirline   *string              `json:"preferred_airline"`
	NumberOfAdults     *int                 `json:"number_of_adults" validate:"omitempty,gte=0"`
	NumberOfChildren   *int                 `json:"number_of_children" validate:"omitempty,gte=0"`
	NumberOfInfants    *int                 `json:"number_of_infants" validate:"omitempty,gte=0"`
	DepartureDate      *models.Date         `json:"departure_date"`
	TripDurationDays   *int                 `json:"trip_duration_days" validate:"omitempty,gte=0"`
	TripDurationNights *int                 `json:"trip_duration_nights" validate:"omitempty,gte=0"`
	TransitTimeHours   *float64             `json:"transit_time_hours" validate:"omitempty,gte=0"`
	TimeOfTravel       *models.TimeOfTravel `json:"time_of_travel" validate:"omitempty,oneof=AM PM"`
	LoungesAccess      *bool                `json:"lounges_access"`
	EstimatedCost      *float64             `json:"estimated_cost" validate:"omitempty,gte=0"`
	Notes              *string              `json:"notes"`
}

func (u *AirTravelUpdate) ApplyTo(a *models.AirTravel) int {
	n := 0
	n += set(&a.DepartureCountry, u.DepartureCountry)
	n += set(&a.DepartureCity, u.DepartureCity)
	n += set(&a.DepartureAirport, u.DepartureAirport)
	n += set(&a.DestinationCountry, u.DestinationCountry)
	n += set(&a.DestinationCity, u.DestinationCity)
	n += set(&a.DestinationAirport, u.DestinationAirport)
	n += setPtr(&a.PreferredAirline, u.PreferredAirline)
	n += set(&a.NumberOfAdults, u.NumberOfAdults)
	n += set(&a.NumberOfChildren, u.NumberOfChildren)
	n += set(&a.NumberOfInfants, u.NumberOfInfants)
	n += set(&a.DepartureDate, u.DepartureDate)
	n += set(&a.TripDurationDays, u.TripDurationDays)
	n += set(&a.TripDurationNights, u.TripDurationNights)
	n += setPtr(&a.TransitTimeHours, u.TransitTimeHours)
	n += set(&a.TimeOfTravel, u.TimeOfTravel)
	n += set(&a.LoungesAccess, u.LoungesAccess)
	n += set(&a.EstimatedCost, u.EstimatedCost)
	n += setPtr(&a.Notes, u.Notes)
	return n
}

// --- Accommodations ---

type AccommodationInput struct {
	AccommodationType string       `json:"accommodation_type" validate:"required"`
	Country           string       `json:"country" validate:"required"`
	City              string       `json:"city" validate:"required"`
	NumberOfBedrooms  *int         `json:"number_of_bedrooms" validate:"required,gte=0"`
	StarRating        *int         `json:"star_rating" validate:"omitempty,min=1,max=5"`
	BedType           *string      `json:"bed_type"`
	Cost              *float64     `json:"cost" validate:"required,gte=0"`
	CheckInDate       *models.Date `json:"check_in_date" validate:"required"`
	CheckOutDate      *models.Date `json:"check_out_date" validate:"required"`
	Notes             *string      `json:"notes"`
}

func (in *AccommodationInput) ToModel(packageID uint) *models.Accommodation {
	return &models.Accommodation{
		PackageID:         packageID,
		AccommodationType: in.AccommodationType,
		Country:           in.Country,
		City:              in.City,
		NumberOfBedrooms:  valueOr(in.NumberOfBedrooms, 0),
		StarRating:        in.StarRating,
		BedType:           in.BedType,
		Cost:              valueOr(in.Cost, 0),
		CheckInDate:       valueOr(in.CheckInDate, models.Date{}),
		CheckOutDate:      valueOr(in.CheckOutDate, models.Date{}),
		Notes:             in.Notes,
	}
}

type AccommodationUpdate struct {
	AccommodationType *string      `json:"accommodation_type" validate:"omitempty,min=1"`
	Country           *string      `json:"country" validate:"omitempty,min=1"`
	City              *string      `json:"city" validate:"omitempty,min=1"`
	NumberOfBedrooms  *int         `json:"number_of_bedrooms" validate:"omitempty,gte=0"`
	StarRating        *int         `json:"star_rating" validate:"omitempty,min=1,max=5"`
	BedType           *string      `json:"bed_type"`
	Cost              *float64     `json:"cost" validate:"omitempty,gte=0"`
	CheckInDate       *models.Date `json:"check_in_date"`
	CheckOutDate      *models.Date `json:"check_out_date"`
	Notes             *string      `json:"notes"`
}

func (u *AccommodationUpdate) ApplyTo(a *models.Accommodation) int {
	n := 0
	n += set(&a.AccommodationType, u.AccommodationType)
	n += set(&a.Country, u.Country)
	n += set(&a.City, u.City)
	n += set(&a.NumberOfBedrooms, u.NumberOfBedrooms)
	n += setPtr(&a.StarRating, u.StarRating)
	n += setPtr(&a.BedType, u.BedType)
	n += set(&a.Cost, u.Cost)
	n += set(&a.CheckInDate, u.CheckInDate)
	n += set(&a.CheckOutDate, u.CheckOutDate)
	n += setPtr(&a.Notes, u.Notes)
	return n
}

// --- Tours ---

type TourInput struct {
	TourType          string       `json:"tour_type" validate:"required"`
	TourNumber        *string      `json:"tour_number"`
	NumberOfTransfers int          `json:"number_of_transfers" validate:"gte=0"`
	Country           string       `json:"country" validate:"required"`
	City              string       `json:"city" validate:"required"`
	TourDescription   *string      `json:"tour_description"`
	Cost              float64      `json:"cost" validate:"gte=0"`
	TourDate          *models.Date `json:"tour_date"`
	Notes             *string      `json:"notes"`
}

func (in *TourInput) ToModel(packageID uint) *models.Tour {
	return &models.Tour{
		PackageID:         packageID,
		TourType:          in.TourType,
		TourNumber:        in.TourNumber,
		NumberOfTransfers: in.NumberOfTransfers,
		Country:           in.Country,
		City:              in.City,
		TourDescription:   in.TourDescription,
		Cost:              in.Cost,
		TourDate:          in.TourDate,
		Notes:             in.Notes,
	}
}

type TourUpdate struct {
	TourType          *string      `json:"tour_type" validate:"omitempty,min=1"`
	TourNumber        *string      `json:"tour_number"`
	NumberOfTransfers *int         `json:"number_of_transfers" validate:"omitempty,gte=0"`
	Country           *string      `json:"country" validate:"omitempty,min=1"`
	City              *string      `json:"city" validate:"omitempty,min=1"`
	TourDescription   *string      `json:"tour_description"`
	Cost              *float64     `json:"cost" validate:"omitempty,gte=0"`
	TourDate          *models.Date `json:"tour_date"`
	Notes             *string      `json:"notes"`
}

func (u *TourUpdate) ApplyTo(t *models.Tour) int {
	n := 0
	n += set(&t.TourType, u.TourType)
	n += setPtr(&t.TourNumber, u.TourNumber)
	n += set(&t.NumberOfTransfers, u.NumberOfTransfers)
	n += set(&t.Country, u.Country)
	n += set(&t.City, u.City)
	n += setPtr(&t.TourDescription, u.TourDescription)
	n += set(&t.Cost, u.Cost)
	n += setPtr(&t.TourDate, u.TourDate)
	n += setPtr(&t.Notes, u.Notes)
	return n
}

// --- Visas ---

type VisaInput struct {
	VisaType     string  `json:"visa_type" validate:"required"`
	VisaStatus   string  `json:"visa_status"`
	Country      string  `json:"country" validate:"required"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	SpecialNotes *string `json:"special_notes"`
}

func (in *VisaInput) ToModel(packageID uint) *models.Visa {
	status := in.VisaStatus
	if status == "" {
		status = "Pending"
	}
	return &models.Visa{
		PackageID:    packageID,
		VisaType:     in.VisaType,
		VisaStatus:   status,
		Country:      in.Country,
		Cost:         in.Cost,
		SpecialNotes: in.SpecialNotes,
	}
}

type VisaUpdate struct {
	VisaType     *string  `json:"visa_type" validate:"omitempty,min=1"`
	VisaStatus   *string  `json:"visa_status" validate:"omitempty,min=1"`
	Country      *string  `json:"country" validate:"omitempty,min=1"`
	Cost         *float64 `json:"cost" validate:"omitempty,gte=0"`
	SpecialNotes *string  `json:"special_notes"`
}

func (u *VisaUpdate) ApplyTo(v *models.Visa) int {
	n := 0
	n += set(&v.VisaType, u.VisaType)
	n += set(&v.VisaStatus, u.VisaStatus)
	n += set(&v.Country, u.Country)
	n += set(&v.Cost, u.Cost)
	n += setPtr(&v.SpecialNotes, u.SpecialNotes)
	return n
}

// --- Timeline ---

type TimelineStepInput struct {
	StepName string             `json:"step_name" validate:"required"`
	Status   *models.StepStatus `json:"status" validate:"omitempty,oneof=pending completed"`
}

type TimelineInitRequest struct {
	Steps []TimelineStepInput `json:"steps" validate:"dive"`
}

type TimelineStepUpdateRequest struct {
	Status models.StepStatus `json:"status" validate:"required,oneof=pending completed"`
	Notes  *string           `json:"notes"`
}

// --- Quotations ---

type QuotationCreateRequest struct {
	ExpiryDate *models.Date `json:"expiry_date"`
	Notes      *string      `json:"notes"`
}

type QuotationStatusRequest struct {
	Status models.QuotationStatus `json:"status" validate:"required,oneof=draft sent accepted rejected expired"`
}

// --- Contracts ---

type ContractCreateRequest struct {
	ContractTemplatePath *string `json:"contract_template_path"`
	Notes                *string `json:"notes"`
}

type ContractConfirmRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

type ContractStatusRequest struct {
	Status models.ContractStatus `json:"status" validate:"required,oneof=draft sent confirmed"`
}

// --- Payments ---

type PaymentInput struct {
	PaymentAmount        *float64     `json:"payment_amount" validate:"required,gt=0"`
	PaymentDate          *models.Date `json:"payment_date" validate:"required"`
	PaymentMethod        *string      `json:"payment_method"`
	TransactionReference *string      `json:"transaction_reference"`
	Notes                *string      `json:"notes"`
}

func (in *PaymentInput) ToModel(packageID uint) *models.Payment {
	return &models.Payment{
		PackageID:            packageID,
		PaymentAmount:        valueOr(in.PaymentAmount, 0),
		PaymentDate:          valueOr(in.PaymentDate, models.Date{}),
		PaymentMethod:        in.PaymentMethod,
		TransactionReference: in.TransactionReference,
		Notes:                in.Notes,
	}
}

type PaymentUpdate struct {
	PaymentAmount        *float64     `json:"payment_amount" validate:"omitempty,gt=0"`
	PaymentDate          *models.Date `json:"payment_date"`
	PaymentMethod        *string      `json:"payment_method"`
	TransactionReference *string      `json:"transaction_reference"`
	Notes                *string      `json:"notes"`
}

func (u *PaymentUpdate) ApplyTo(p *models.Payment) int {
	n := 0
	n += set(&p.PaymentAmount, u.PaymentAmount)
	n += set(&p.PaymentDate, u.PaymentDate)
	n += setPtr(&p.PaymentMethod, u.PaymentMethod)
	n += setPtr(&p.TransactionReference, u.TransactionReference)
	n += setPtr(&p.Notes, u.Notes)
	return n
}

// --- Auth ---

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string          `json:"username" validate:"required,username"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"full_name" validate:"required"`
	Role     models.UserRole `json:"role" validate:"omitempty,oneof=admin manager staff"`
}

// --- Analytics ---

type SalesFilter struct {
	Period      string       `query:"period" validate:"omitempty,oneof=month 3months year all"`
	StartDate   *models.Date `query:"startDate"`
	EndDate     *models.Date `query:"endDate"`
	Status      string       `query:"status" validate:"omitempty,oneof=draft quotation_sent contract_sent confirmed completed cancelled"`
	FilterBy    string       `query:"filterBy" validate:"omitempty,oneof=airline destination"`
	FilterValue string       `query:"filterValue"`
}

func set[T any](dst *T, src *T) int {
	if src == nil {
		return 0
	}
	*dst = *src
	return 1
}

func setPtr[T any](dst **T, src *T) int {
	if src == nil {
		return 0
	}
	v := *src
	*dst = &v
	return 1
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// PeriodQuery selects the calendar window of the monthly and yearly reports.
type PeriodQuery struct {
	Year        int    `query:"year" validate:"omitempty,gte=1970,lte=9999"`
	Month       int    `query:"month" validate:"omitempty,gte=1,lte=12"`
	FilterBy    string `query:"filterBy"`
	FilterValue string `query:"filterValue"`
}

type GroupQuery struct {
	Period    string       `query:"period"`
	StartDate *models.Date `query:"startDate"`
	EndDate   *models.Date `query:"endDate"`
	GroupBy   string       `query:"groupBy" validate:"omitempty,oneof=country city"`
}

type ActivityQuery struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}
