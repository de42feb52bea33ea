package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"gorm.io/datatypes"
)

const assessmentResource = "customer assessment"

// Exporter renders an assessment for download.
type Exporter interface {
	ExportAssessment(w io.Writer, assessment *models.CustomerAssessment, template *models.AssessmentTemplate) error
}

// AssessmentService drives the customer assessment approval lifecycle.
type AssessmentService struct {
	gw       Gateways
	exporter Exporter
}

func NewAssessmentService(gw Gateways, exporter Exporter) *AssessmentService {
	return &AssessmentService{gw: gw.withDefaults(), exporter: exporter}
}

type SubmitAssessmentRequest struct {
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	NIC          string              `json:"nic"`
	CustomerType models.CustomerType `json:"customer_type"`
	TemplateID   string              `json:"assessment_template_id"`
	Selections   Selections          `json:"selections"`
}

type PreviewRequest struct {
	TemplateID   string              `json:"assessment_template_id" binding:"required"`
	CustomerType models.CustomerType `json:"customer_type" binding:"required"`
	Selections   Selections          `json:"selections"`
}

type AssessmentListRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	CustomerID     string `form:"customer_id"`
	NIC            string `form:"nic"`
	ApprovalStatus string `form:"approval_status" binding:"omitempty,oneof=pending approved rejected"`
	TemplateID     string `form:"assessment_template_id"`
	Rating         string `form:"rating"`
}

type AssessmentListResponse struct {
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
	Items    []models.CustomerAssessment `json:"items"`
}

func (r *SubmitAssessmentRequest) normalize() error {
	r.CustomerID = strings.TrimSpace(r.CustomerID)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.NIC = strings.TrimSpace(r.NIC)
	r.TemplateID = strings.TrimSpace(r.TemplateID)

	var fields []string
	if r.CustomerID == "" {
		fields = append(fields, "customer_id")
	}
	if r.CustomerName == "" {
		fields = append(fields, "customer_name")
	}
	if r.TemplateID == "" {
		fields = append(fields, "assessment_template_id")
	}
	if len(fields) > 0 {
		return newValidationError("missing required fields", fields...)
	}
	if !r.CustomerType.Valid() {
		return newValidationError("invalid customer type", "customer_type")
	}
	return nil
}

// Submit scores a new assessment against an approved, active template and
// stores it as pending. A customer unknown to the directory is registered
// in the same transaction.
func (s *AssessmentService) Submit(ctx context.Context, actor Actor, req SubmitAssessmentRequest) (*models.CustomerAssessment, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	// selectability is read from the store; a cached copy may predate a
	// deactivation or delete
	tpl, err := loadTemplate(ctx, s.gw, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsSelectable() {
		return nil, newValidationError("template is not approved and active", "assessment_template_id")
	}

	result, err := ComputeScores(tpl.Categories, req.CustomerType, req.Selections)
	if err != nil {
		return nil, err
	}

	lookup, err := s.gw.Customers.FindByIDOrNIC(ctx, req.CustomerID, req.NIC)
	if err != nil {
		return nil, dependencyError("customer directory", err)
	}

	assessment := &models.CustomerAssessment{
		CustomerID:             req.CustomerID,
		CustomerName:           req.CustomerName,
		NIC:                    req.NIC,
		CustomerType:           req.CustomerType,
		AssessmentTemplateID:   tpl.ID,
		AssessmentTemplateName: tpl.Name,
		ApprovalStatus:         models.ApprovalPending,
		AssessedBy:             actor.Username,
		Version:                1,
		CreatedBy:              actor.Username,
		UpdatedBy:              actor.Username,
	}
	applyScores(assessment, result)

	err = s.gw.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.gw.Assessments.Create(ctx, assessment); err != nil {
			return dependencyError("assessment store", err)
		}
		if lookup.Found {
			return nil
		}
		customer := &models.Customer{
			CustomerID:   req.CustomerID,
			NIC:          req.NIC,
			CustomerName: req.CustomerName,
			CustomerType: models.CustomerTypeExisting,
			CreatedBy:    actor.Username,
		}
		if err := s.gw.Customers.Create(ctx, customer); err != nil {
			return dependencyError("customer directory", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !lookup.Found {
		s.gw.Activity.Record(actor.Username, "Register Customer",
			fmt.Sprintf("Registered customer %s (%s)", req.CustomerName, req.CustomerID))
	}
	s.gw.Activity.Record(actor.Username, "Submit Customer Assessment",
		fmt.Sprintf("Submitted assessment %s for customer %s: %s (%s)",
			assessment.ID, req.CustomerID, assessment.TotalScore.StringFixed(2), assessment.Rating))
	return assessment, nil
}

// Approve moves a pending assessment to approved.
func (s *AssessmentService) Approve(ctx context.Context, actor Actor, id string) (*models.CustomerAssessment, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	assessment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(assessment, ActionApprove)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"approval_status": decision.To,
		"approved_by":     actor.Username,
		"approved_at":     &now,
		"updated_by":      actor.Username,
	}
	if err := s.apply(ctx, assessment, decision.Expect(assessment.Version), patch, ActionApprove); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Approve Customer Assessment",
		fmt.Sprintf("Approved assessment %s for customer %s", id, assessment.CustomerID))
	return s.Get(ctx, id)
}

// Reject moves a pending assessment to rejected. Remarks are required.
func (s *AssessmentService) Reject(ctx context.Context, actor Actor, id, remarks string) (*models.CustomerAssessment, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, newValidationError("rejection remarks are required", "remarks")
	}
	assessment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(assessment, ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"approval_status":   decision.To,
		"rejection_remarks": remarks,
		"rejected_by":       actor.Username,
		"rejected_at":       &now,
		"updated_by":        actor.Username,
	}
	if err := s.apply(ctx, assessment, decision.Expect(assessment.Version), patch, ActionReject); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Reject Customer Assessment",
		fmt.Sprintf("Rejected assessment %s for customer %s: %s", id, assessment.CustomerID, remarks))
	return s.Get(ctx, id)
}

// EditAndResubmit rescores a rejected assessment from new selections only
// and returns it to pending. The customer directory is not touched.
func (s *AssessmentService) EditAndResubmit(ctx context.Context, actor Actor, id string, selections Selections) (*models.CustomerAssessment, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	assessment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(assessment, ActionResubmit)
	if err != nil {
		return nil, err
	}

	tpl, err := fetchTemplate(ctx, s.gw, assessment.AssessmentTemplateID)
	if err != nil {
		return nil, err
	}
	result, err := ComputeScores(tpl.Categories, assessment.CustomerType, selections)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{
		"answers":           datatypes.JSONSlice[models.AnswerSnapshot](result.Answers),
		"category_scores":   datatypes.JSONSlice[models.CategoryScore](result.CategoryScores),
		"total_score":       result.TotalScore,
		"rating":            string(result.Rating),
		"approval_status":   decision.To,
		"rejection_remarks": "",
		"rejected_by":       "",
		"rejected_at":       nil,
		"assessed_by":       actor.Username,
		"updated_by":        actor.Username,
	}
	if err := s.apply(ctx, assessment, decision.Expect(assessment.Version), patch, ActionResubmit); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Resubmit Customer Assessment",
		fmt.Sprintf("Resubmitted assessment %s for customer %s: %s (%s)",
			id, assessment.CustomerID, result.TotalScore.StringFixed(2), result.Rating))
	return s.Get(ctx, id)
}

// Preview scores selections against any non-deleted template without storing anything.
func (s *AssessmentService) Preview(ctx context.Context, req PreviewRequest) (*ScoreResult, error) {
	tpl, err := fetchTemplate(ctx, s.gw, req.TemplateID)
	if err != nil {
		return nil, err
	}
	return ComputeScores(tpl.Categories, req.CustomerType, req.Selections)
}

func (s *AssessmentService) Get(ctx context.Context, id string) (*models.CustomerAssessment, error) {
	assessment, err := s.gw.Assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: assessmentResource, ID: id}
		}
		return nil, dependencyError("assessment store", err)
	}
	return assessment, nil
}

func (s *AssessmentService) ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerAssessment, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, newValidationError("customer id is required", "customer_id")
	}
	items, err := s.gw.Assessments.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, dependencyError("assessment store", err)
	}
	return items, nil
}

func (s *AssessmentService) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]models.CustomerAssessment, error) {
	if !status.Valid() {
		return nil, newValidationError("invalid approval status", "approval_status")
	}
	items, err := s.gw.Assessments.ListByStatus(ctx, status)
	if err != nil {
		return nil, dependencyError("assessment store", err)
	}
	return items, nil
}

// List returns paginated assessments
func (s *AssessmentService) List(ctx context.Context, req *AssessmentListRequest) (*AssessmentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	items, total, err := s.gw.Assessments.List(ctx, AssessmentFilter{
		Page:           req.Page,
		PageSize:       req.PageSize,
		CustomerID:     req.CustomerID,
		NIC:            req.NIC,
		ApprovalStatus: models.ApprovalStatus(req.ApprovalStatus),
		TemplateID:     req.TemplateID,
		Rating:         req.Rating,
	})
	if err != nil {
		return nil, dependencyError("assessment store", err)
	}

	return &AssessmentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// CountPending returns the number of assessments waiting for a decision.
func (s *AssessmentService) CountPending(ctx context.Context) (int64, error) {
	_, total, err := s.gw.Assessments.List(ctx, AssessmentFilter{
		Page:           1,
		PageSize:       1,
		ApprovalStatus: models.ApprovalPending,
	})
	if err != nil {
		return 0, dependencyError("assessment store", err)
	}
	return total, nil
}

// LookupCustomer queries the customer directory.
func (s *AssessmentService) LookupCustomer(ctx context.Context, customerID, nic string) (CustomerLookup, error) {
	customerID, nic = strings.TrimSpace(customerID), strings.TrimSpace(nic)
	if customerID == "" && nic == "" {
		return CustomerLookup{}, newValidationError("customer id or nic is required", "customer_id", "nic")
	}
	lookup, err := s.gw.Customers.FindByIDOrNIC(ctx, customerID, nic)
	if err != nil {
		return CustomerLookup{}, dependencyError("customer directory", err)
	}
	if !lookup.Found {
		lookup.CustomerType = models.CustomerTypeNew
	}
	return lookup, nil
}

// Export writes the assessment through the configured exporter.
func (s *AssessmentService) Export(ctx context.Context, id string, w io.Writer) error {
	if s.exporter == nil {
		return &DependencyError{Dependency: "exporter", Err: errors.New("not configured")}
	}
	assessment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	tpl, err := fetchTemplate(ctx, s.gw, assessment.AssessmentTemplateID)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return s.exporter.ExportAssessment(w, assessment, tpl)
}

func (s *AssessmentService) apply(ctx context.Context, assessment *models.CustomerAssessment, expect Expect, patch map[string]interface{}, action ApprovalAction) error {
	err := s.gw.Assessments.Update(ctx, assessment.ID, expect, patch)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrStaleWrite) && !errors.Is(err, ErrRecordNotFound) {
		return dependencyError("assessment store", err)
	}

	current, lerr := s.Get(ctx, assessment.ID)
	if lerr != nil {
		return lerr
	}
	return &StateConflictError{
		Resource: assessmentResource,
		ID:       assessment.ID,
		Current:  string(current.ApprovalStatus),
		Action:   string(action),
		Reason:   fmt.Sprintf("decided concurrently (now %s)", current.ApprovalStatus),
	}
}

func applyScores(assessment *models.CustomerAssessment, result *ScoreResult) {
	assessment.Answers = datatypes.JSONSlice[models.AnswerSnapshot](result.Answers)
	assessment.CategoryScores = datatypes.JSONSlice[models.CategoryScore](result.CategoryScores)
	assessment.TotalScore = result.TotalScore
	assessment.Rating = string(result.Rating)
}
