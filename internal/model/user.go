package model

import "time"

const (
	RoleCustomer = "customer"
	RoleBroker   = "broker"
	RoleAdmin    = "admin"
)

type User struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	Phone     string     `db:"phone" json:"phone"`
	Password  string     `db:"password" json:"-"`
	Role      string     `db:"role" json:"role"` // customer/broker/admin
	IsActive  bool       `db:"is_active" json:"isActive"`
	LastLogin *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}
