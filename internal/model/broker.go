package model

import "time"

// Broker — профиль брокера, один на пользователя с ролью broker.
// verificationStatus управляется админом: pending/verified/rejected.
type Broker struct {
	ID                 string     `db:"id" json:"id"`
	UserID             string     `db:"user_id" json:"userId"`
	CompanyName        string     `db:"company_name" json:"company"`
	LicenseNumber      string     `db:"license_number" json:"licenseNumber"`
	YearsOfExperience  int        `db:"years_of_experience" json:"yearsOfExperience"`
	City               string     `db:"city" json:"city"`
	About              string     `db:"about" json:"about"`
	VerificationStatus string     `db:"verification_status" json:"verificationStatus"`
	RejectionReason    string     `db:"rejection_reason" json:"rejectionReason,omitempty"`
	VerifiedAt         *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
	VerifiedBy         string     `db:"verified_by" json:"verifiedBy,omitempty"`
	IsFeatured         bool       `db:"is_featured" json:"isFeatured"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// BrokerWithUser — брокер вместе с данными владельца (join на users).
type BrokerWithUser struct {
	Broker
	UserName  string `db:"user_name" json:"userName"`
	UserEmail string `db:"user_email" json:"userEmail"`
	UserPhone string `db:"user_phone" json:"userPhone"`
}
