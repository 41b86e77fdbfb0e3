package models

import "time"

type Guest struct {
	ID                 uint        `gorm:"primaryKey" json:"guest_id"`
	FullName           string      `gorm:"size:200;not null" json:"full_name"`
	PhoneNumber        string      `gorm:"size:50;not null;index" json:"phone_number"`
	CountryOfResidence string      `gorm:"size:100;not null" json:"country_of_residence"`
	PassportImagePath  *string     `gorm:"size:500" json:"passport_image_path"`
	Status             GuestStatus `gorm:"type:varchar(20);not null;default:'guest'" json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	Packages []Package `gorm:"foreignKey:GuestID" json:"packages,omitempty"`
}
