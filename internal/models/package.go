package models

import "time"

type Package struct {
	ID                 uint          `gorm:"primaryKey" json:"package_id"`
	GuestID            uint          `gorm:"not null;index" json:"guest_id"`
	PackageName        *string       `gorm:"size:200" json:"package_name"`
	Status             PackageStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	TotalEstimatedCost float64       `gorm:"type:decimal(12,2);not null;default:0" json:"total_estimated_cost"`
	CreatedAt          time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Guest          *Guest          `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	AirTravel      *AirTravel      `gorm:"foreignKey:PackageID" json:"air_travel"`
	Accommodations []Accommodation `gorm:"foreignKey:PackageID" json:"accommodations"`
	Tours          []Tour          `gorm:"foreignKey:PackageID" json:"tours"`
	Visas          []Visa          `gorm:"foreignKey:PackageID" json:"visas"`
	Timeline       []TimelineStep  `gorm:"foreignKey:PackageID" json:"timeline"`
	Quotations     []Quotation     `gorm:"foreignKey:PackageID" json:"quotations,omitempty"`
	Contract       *Contract       `gorm:"foreignKey:PackageID" json:"contract,omitempty"`
	Payments       []Payment       `gorm:"foreignKey:PackageID" json:"payments,omitempty"`
}

func (Package) TableName() string {
	return "travel_packages"
}

// Name returns the package name or an empty string when unnamed.
func (p *Package) Name() string {
	if p.PackageName == nil {
		return ""
	}
	return *p.PackageName
}
