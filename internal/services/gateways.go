package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
)

var (
	// ErrStaleWrite is returned by a store when a conditional update matched no row.
	ErrStaleWrite = errors.New("conditional update matched no rows")
	// ErrRecordNotFound is returned by a store for a missing or soft-deleted row.
	ErrRecordNotFound = errors.New("record not found")
)

// Actor identifies the caller of a lifecycle operation.
type Actor struct {
	UserID   uint
	Username string
	Role     string
}

func (a Actor) validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return newValidationError("actor is required", "actor")
	}
	return nil
}

// Expect is the precondition of a conditional update.
type Expect struct {
	Statuses []models.ApprovalStatus
	Version  int
}

type TemplateFilter struct {
	Page           int
	PageSize       int
	Name           string
	ApprovalStatus models.ApprovalStatus
	Status         string
}

type AssessmentFilter struct {
	Page           int
	PageSize       int
	CustomerID     string
	NIC            string
	ApprovalStatus models.ApprovalStatus
	TemplateID     string
	Rating         string
}

// TemplateStore persists assessment templates. Update applies patch only when
// the row still matches expect and bumps the version; otherwise ErrStaleWrite.
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (*models.AssessmentTemplate, error)
	List(ctx context.Context, filter TemplateFilter) ([]models.AssessmentTemplate, int64, error)
	Create(ctx context.Context, template *models.AssessmentTemplate) error
	Update(ctx context.Context, id string, expect Expect, patch map[string]interface{}) error
	SoftDelete(ctx context.Context, id string, deletedBy string) error
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
}

type AssessmentStore interface {
	GetByID(ctx context.Context, id string) (*models.CustomerAssessment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerAssessment, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]models.CustomerAssessment, error)
	List(ctx context.Context, filter AssessmentFilter) ([]models.CustomerAssessment, int64, error)
	Create(ctx context.Context, assessment *models.CustomerAssessment) error
	Update(ctx context.Context, id string, expect Expect, patch map[string]interface{}) error
	CountByTemplate(ctx context.Context, templateID string) (int64, error)
}

// CustomerLookup is the result of a directory search.
type CustomerLookup struct {
	Found        bool
	CustomerType models.CustomerType
	Customer     *models.Customer
}

type CustomerDirectory interface {
	FindByIDOrNIC(ctx context.Context, customerID, nic string) (CustomerLookup, error)
	Create(ctx context.Context, customer *models.Customer) error
}

// Transactor runs fn so that every store call made with the passed context
// shares one transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TemplateCache holds approved templates keyed by id.
type TemplateCache interface {
	Get(ctx context.Context, id string) (*models.AssessmentTemplate, bool)
	Set(ctx context.Context, template *models.AssessmentTemplate)
	Invalidate(ctx context.Context, id string)
}

// ActivityRecorder is fire-and-forget; implementations must not block or fail the caller.
type ActivityRecorder interface {
	Record(username, action, description string)
}

// Gateways bundles the collaborators used by the lifecycle services.
type Gateways struct {
	Templates   TemplateStore
	Assessments AssessmentStore
	Customers   CustomerDirectory
	Tx          Transactor
	Cache       TemplateCache
	Activity    ActivityRecorder
}

func (g Gateways) withDefaults() Gateways {
	if g.Tx == nil {
		g.Tx = noopTransactor{}
	}
	if g.Cache == nil {
		g.Cache = noopCache{}
	}
	if g.Activity == nil {
		g.Activity = noopActivity{}
	}
	return g
}

type noopTransactor struct{}

func (noopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*models.AssessmentTemplate, bool) { return nil, false }
func (noopCache) Set(context.Context, *models.AssessmentTemplate)                {}
func (noopCache) Invalidate(context.Context, string)                             {}

type noopActivity struct{}

func (noopActivity) Record(string, string, string) {}
