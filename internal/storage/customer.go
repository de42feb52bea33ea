package storage

import (
	"context"
	"errors"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerDirectory keeps customers already known to the institution.
type CustomerDirectory struct {
	db *gorm.DB
}

var _ services.CustomerDirectory = (*CustomerDirectory)(nil)

func NewCustomerDirectory(db *gorm.DB) *CustomerDirectory {
	return &CustomerDirectory{db: db}
}

// FindByIDOrNIC matches on customer id first, then NIC.
func (d *CustomerDirectory) FindByIDOrNIC(ctx context.Context, customerID, nic string) (services.CustomerLookup, error) {
	if customerID == "" && nic == "" {
		return services.CustomerLookup{}, nil
	}

	customer, err := d.findBy(ctx, "customer_id", customerID)
	if err == nil && customer == nil {
		customer, err = d.findBy(ctx, "nic", nic)
	}
	if err != nil {
		return services.CustomerLookup{}, err
	}
	if customer == nil {
		return services.CustomerLookup{Found: false}, nil
	}

	customerType := customer.CustomerType
	if customerType == "" {
		customerType = models.CustomerTypeExisting
	}
	return services.CustomerLookup{Found: true, CustomerType: customerType, Customer: customer}, nil
}

// Create registers a customer. A customer id that is already on file counts
// as registered and leaves the existing row untouched.
func (d *CustomerDirectory) Create(ctx context.Context, customer *models.Customer) error {
	if customer.CustomerType == "" {
		customer.CustomerType = models.CustomerTypeExisting
	}
	return conn(ctx, d.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
		Create(customer).Error
}

func (d *CustomerDirectory) findBy(ctx context.Context, column, value string) (*models.Customer, error) {
	if value == "" {
		return nil, nil
	}
	var customer models.Customer
	if err := conn(ctx, d.db).Where(column+" = ?", value).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}
