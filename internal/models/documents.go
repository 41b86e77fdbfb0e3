package models

import "time"

type TimelineStep struct {
	ID            uint       `gorm:"primaryKey" json:"step_id"`
	PackageID     uint       `gorm:"not null;uniqueIndex:idx_timeline_package_step" json:"package_id"`
	StepName      string     `gorm:"size:100;not null;uniqueIndex:idx_timeline_package_step" json:"step_name"`
	Status        StepStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CompletedDate *time.Time `json:"completed_date"`
	Notes         *string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Quotation struct {
	ID                uint            `gorm:"primaryKey" json:"quotation_id"`
	PackageID         uint            `gorm:"not null;index" json:"package_id"`
	QuotationNumber   string          `gorm:"size:50;not null;uniqueIndex" json:"quotation_number"`
	QuotationPDFPath  *string         `gorm:"column:quotation_pdf_path;size:500" json:"quotation_pdf_path"`
	TotalAmount       float64         `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	GeneratedDate     time.Time       `gorm:"not null" json:"generated_date"`
	ExpiryDate        *Date           `json:"expiry_date"`
	SentDate          *time.Time      `json:"sent_date"`
	Status            QuotationStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Notes             *string         `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type Contract struct {
	ID                   uint           `gorm:"primaryKey" json:"contract_id"`
	PackageID            uint           `gorm:"not null;uniqueIndex" json:"package_id"`
	ContractTemplatePath *string        `gorm:"size:500" json:"contract_template_path"`
	ContractPDFPath      *string        `gorm:"column:contract_pdf_path;size:500" json:"contract_pdf_path"`
	Status               ContractStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	SentDate             *time.Time     `json:"sent_date"`
	ConfirmedDate        *time.Time     `json:"confirmed_date"`
	Notes                *string        `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type Payment struct {
	ID                   uint      `gorm:"primaryKey" json:"payment_id"`
	PackageID            uint      `gorm:"not null;index" json:"package_id"`
	PaymentAmount        float64   `gorm:"type:decimal(12,2);not null" json:"payment_amount"`
	PaymentDate          Date      `gorm:"not null" json:"payment_date"`
	PaymentMethod        *string   `gorm:"size:50" json:"payment_method"`
	TransactionReference *string   `gorm:"size:100" json:"transaction_reference"`
	ReceiptImagePath     *string   `gorm:"size:500" json:"receipt_image_path"`
	Notes                *string   `gorm:"type:text" json:"notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
