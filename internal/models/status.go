package models

type GuestStatus string

const (
	GuestStatusGuest  GuestStatus = "guest"
	GuestStatusClient GuestStatus = "client"
)

type PackageStatus string

const (
	PackageStatusDraft         PackageStatus = "draft"
	PackageStatusQuotationSent PackageStatus = "quotation_sent"
	PackageStatusContractSent  PackageStatus = "contract_sent"
	PackageStatusConfirmed     PackageStatus = "confirmed"
	PackageStatusCompleted     PackageStatus = "completed"
	PackageStatusCancelled     PackageStatus = "cancelled"
)

// SoldPackageStatuses are the statuses that count towards realised sales.
var SoldPackageStatuses = []PackageStatus{PackageStatusConfirmed, PackageStatusCompleted}

type TimeOfTravel string

const (
	TimeOfTravelAM TimeOfTravel = "AM"
	TimeOfTravelPM TimeOfTravel = "PM"
)

type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusCompleted StepStatus = "completed"
)

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSent      ContractStatus = "sent"
	ContractStatusConfirmed ContractStatus = "confirmed"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)
