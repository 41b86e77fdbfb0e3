package models

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"user_id"`
	Username     string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:100;not null" json:"full_name"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Activity is one entry of the audit feed built from published domain events.
type Activity struct {
	ID         uint      `gorm:"primaryKey" json:"activity_id"`
	RoutingKey string    `gorm:"size:50;not null;index" json:"routing_key"`
	PackageID  *uint     `gorm:"index" json:"package_id"`
	GuestID    *uint     `json:"guest_id"`
	Summary    string    `gorm:"size:500;not null" json:"summary"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// DomainEvent is the message body published for every notable mutation.
type DomainEvent struct {
	RoutingKey string    `json:"routing_key"`
	PackageID  *uint     `json:"package_id,omitempty"`
	GuestID    *uint     `json:"guest_id,omitempty"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Guest{},
		&Package{},
		&AirTravel{},
		&Accommodation{},
		&Tour{},
		&Visa{},
		&TimelineStep{},
		&Quotation{},
		&Contract{},
		&Payment{},
		&Activity{},
	}
}
