package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a directory entry created the first time a new customer is assessed.
type Customer struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CustomerID   string         `gorm:"uniqueIndex;size:100;not null" json:"customer_id"`
	NIC          string         `gorm:"size:50;index" json:"nic"`
	CustomerName string         `gorm:"size:200;not null" json:"customer_name"`
	CustomerType CustomerType   `gorm:"size:20;default:existing" json:"customer_type"`
	CreatedBy    string         `gorm:"size:100" json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }
