package models

import "strings"

type Driver struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	LastName    string `json:"last_name"`
	Name        string `json:"name" gorm:"not null"`
	PhoneNumber string `json:"phone_number" gorm:"index"`
	CarNumber   string `json:"car_number" gorm:"index"`
	IsActive    bool   `json:"is_active" gorm:"not null;default:true;index"`

	// Relationships
	Responses []Response `json:"-" gorm:"foreignKey:DriverID"`
}

// DisplayName is the driver name shown in admin reports:
// "LastName Name" when a last name is present, otherwise just the name.
func (d *Driver) DisplayName() string {
	if d.LastName != "" {
		return strings.TrimSpace(d.LastName + " " + d.Name)
	}
	return d.Name
}
