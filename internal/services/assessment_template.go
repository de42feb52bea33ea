package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"gorm.io/datatypes"
)

const templateResource = "assessment template"

// TemplateService drives the template approval lifecycle.
type TemplateService struct {
	gw    Gateways
	rules TemplateRules
}

func NewTemplateService(gw Gateways, rules TemplateRules) *TemplateService {
	return &TemplateService{gw: gw.withDefaults(), rules: rules}
}

type TemplateListRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Name           string `form:"name"`
	ApprovalStatus string `form:"approval_status" binding:"omitempty,oneof=pending approved rejected"`
	Status         string `form:"status" binding:"omitempty,oneof=active inactive"`
}

type TemplateListResponse struct {
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
	Items    []models.AssessmentTemplate `json:"items"`
}

// List returns paginated templates
func (s *TemplateService) List(ctx context.Context, req *TemplateListRequest) (*TemplateListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	items, total, err := s.gw.Templates.List(ctx, TemplateFilter{
		Page:           req.Page,
		PageSize:       req.PageSize,
		Name:           req.Name,
		ApprovalStatus: models.ApprovalStatus(req.ApprovalStatus),
		Status:         req.Status,
	})
	if err != nil {
		return nil, dependencyError("template store", err)
	}

	return &TemplateListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// ListSelectable returns the templates new customer assessments may use.
func (s *TemplateService) ListSelectable(ctx context.Context) ([]models.AssessmentTemplate, error) {
	items, _, err := s.gw.Templates.List(ctx, TemplateFilter{
		ApprovalStatus: models.ApprovalApproved,
		Status:         models.TemplateStatusActive,
	})
	if err != nil {
		return nil, dependencyError("template store", err)
	}
	return items, nil
}

// CountPending returns the number of templates waiting for a decision.
func (s *TemplateService) CountPending(ctx context.Context) (int64, error) {
	_, total, err := s.gw.Templates.List(ctx, TemplateFilter{
		Page:           1,
		PageSize:       1,
		ApprovalStatus: models.ApprovalPending,
	})
	if err != nil {
		return 0, dependencyError("template store", err)
	}
	return total, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (*models.AssessmentTemplate, error) {
	return fetchTemplate(ctx, s.gw, id)
}

// fetchTemplate reads through the approved-template cache.
func fetchTemplate(ctx context.Context, gw Gateways, id string) (*models.AssessmentTemplate, error) {
	if tpl, ok := gw.Cache.Get(ctx, id); ok {
		return tpl, nil
	}
	tpl, err := loadTemplate(ctx, gw, id)
	if err != nil {
		return nil, err
	}
	if tpl.ApprovalStatus == models.ApprovalApproved {
		gw.Cache.Set(ctx, tpl)
	}
	return tpl, nil
}

func loadTemplate(ctx context.Context, gw Gateways, id string) (*models.AssessmentTemplate, error) {
	tpl, err := gw.Templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: templateResource, ID: id}
		}
		return nil, dependencyError("template store", err)
	}
	return tpl, nil
}

func (s *TemplateService) Create(ctx context.Context, actor Actor, content TemplateContent) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := s.checkContent(ctx, &content, ""); err != nil {
		return nil, err
	}

	tpl := &models.AssessmentTemplate{
		Name:           content.Name,
		Description:    content.Description,
		Status:         models.TemplateStatusActive,
		ApprovalStatus: models.ApprovalPending,
		Categories:     datatypes.JSONSlice[models.Category](content.Categories),
		Version:        1,
		CreatedBy:      actor.Username,
		UpdatedBy:      actor.Username,
	}
	if err := s.gw.Templates.Create(ctx, tpl); err != nil {
		return nil, dependencyError("template store", err)
	}

	s.gw.Activity.Record(actor.Username, "Create Assessment Template",
		fmt.Sprintf("Created template %q (%s)", tpl.Name, tpl.ID))
	return tpl, nil
}

// Update replaces the content of a pending or rejected template. The approval
// state is left as is; a rejected template goes back to review via Resubmit.
func (s *TemplateService) Update(ctx context.Context, actor Actor, id string, content TemplateContent) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	tpl, err := loadTemplate(ctx, s.gw, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(tpl, ActionEdit)
	if err != nil {
		return nil, immutableTemplateError(tpl, err)
	}
	if err := s.checkContent(ctx, &content, id); err != nil {
		return nil, err
	}

	patch := contentPatch(content)
	patch["updated_by"] = actor.Username
	if err := s.apply(ctx, tpl, decision.Expect(tpl.Version), patch, ActionEdit); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Update Assessment Template",
		fmt.Sprintf("Updated template %q (%s)", content.Name, id))
	return loadTemplate(ctx, s.gw, id)
}

// Approve moves a pending template to approved. Comments are optional.
func (s *TemplateService) Approve(ctx context.Context, actor Actor, id, comments string) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	tpl, err := loadTemplate(ctx, s.gw, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(tpl, ActionApprove)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"approval_status":   decision.To,
		"approval_comments": strings.TrimSpace(comments),
		"approved_by":       actor.Username,
		"approved_at":       &now,
		"updated_by":        actor.Username,
	}
	if err := s.apply(ctx, tpl, decision.Expect(tpl.Version), patch, ActionApprove); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Approve Assessment Template",
		fmt.Sprintf("Approved template %q (%s)", tpl.Name, id))
	return fetchTemplate(ctx, s.gw, id)
}

// Reject moves a pending template to rejected. Comments are required.
func (s *TemplateService) Reject(ctx context.Context, actor Actor, id, comments string) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return nil, newValidationError("rejection comments are required", "comments")
	}
	tpl, err := loadTemplate(ctx, s.gw, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(tpl, ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	patch := map[string]interface{}{
		"approval_status":   decision.To,
		"approval_comments": comments,
		"rejected_by":       actor.Username,
		"rejected_at":       &now,
		"updated_by":        actor.Username,
	}
	if err := s.apply(ctx, tpl, decision.Expect(tpl.Version), patch, ActionReject); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Reject Assessment Template",
		fmt.Sprintf("Rejected template %q (%s): %s", tpl.Name, id, comments))
	return loadTemplate(ctx, s.gw, id)
}

// Resubmit sends a rejected template back to review, optionally with new content.
func (s *TemplateService) Resubmit(ctx context.Context, actor Actor, id string, content *TemplateContent) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	tpl, err := loadTemplate(ctx, s.gw, id)
	if err != nil {
		return nil, err
	}
	decision, err := Decide(tpl, ActionResubmit)
	if err != nil {
		return nil, err
	}

	patch := map[string]interface{}{}
	if content != nil {
		if err := s.checkContent(ctx, content, id); err != nil {
			return nil, err
		}
		patch = contentPatch(*content)
	}
	patch["approval_status"] = decision.To
	patch["approval_comments"] = ""
	patch["rejected_by"] = ""
	patch["rejected_at"] = nil
	patch["updated_by"] = actor.Username

	if err := s.apply(ctx, tpl, decision.Expect(tpl.Version), patch, ActionResubmit); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Resubmit Assessment Template",
		fmt.Sprintf("Resubmitted template %q (%s)", tpl.Name, id))
	return loadTemplate(ctx, s.gw, id)
}

// Delete soft-deletes a template that no customer assessment references.
func (s *TemplateService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.validate(); err != nil {
		return err
	}

	var name string
	err := s.gw.Tx.WithinTx(ctx, func(ctx context.Context) error {
		tpl, err := loadTemplate(ctx, s.gw, id)
		if err != nil {
			return err
		}
		name = tpl.Name

		refs, err := s.gw.Assessments.CountByTemplate(ctx, id)
		if err != nil {
			return dependencyError("assessment store", err)
		}
		if refs > 0 {
			return &StateConflictError{
				Resource: templateResource,
				ID:       id,
				Current:  string(tpl.ApprovalStatus),
				Action:   "delete",
				Reason:   fmt.Sprintf("referenced by %d customer assessment(s)", refs),
			}
		}

		if err := s.gw.Templates.SoftDelete(ctx, id, actor.Username); err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return &NotFoundError{Resource: templateResource, ID: id}
			}
			return dependencyError("template store", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.gw.Cache.Invalidate(ctx, id)
	s.gw.Activity.Record(actor.Username, "Delete Assessment Template",
		fmt.Sprintf("Deleted template %q (%s)", name, id))
	return nil
}

// SetStatus toggles the active flag without touching approval state or content.
func (s *TemplateService) SetStatus(ctx context.Context, actor Actor, id, status string) (*models.AssessmentTemplate, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if status != models.TemplateStatusActive && status != models.TemplateStatusInactive {
		return nil, newValidationError("status must be active or inactive", "status")
	}
	tpl, err := loadTemplate(ctx, s.gw, id)
	if err != nil {
		return nil, err
	}
	if tpl.Status == status {
		return tpl, nil
	}

	expect := Expect{Statuses: []models.ApprovalStatus{tpl.ApprovalStatus}, Version: tpl.Version}
	patch := map[string]interface{}{"status": status, "updated_by": actor.Username}
	if err := s.apply(ctx, tpl, expect, patch, "set status of"); err != nil {
		return nil, err
	}

	s.gw.Activity.Record(actor.Username, "Update Assessment Template Status",
		fmt.Sprintf("Set template %q (%s) %s", tpl.Name, id, status))
	return loadTemplate(ctx, s.gw, id)
}

func (s *TemplateService) checkContent(ctx context.Context, content *TemplateContent, excludeID string) error {
	if err := ValidateTemplate(content, s.rules); err != nil {
		return err
	}
	exists, err := s.gw.Templates.ExistsByName(ctx, content.Name, excludeID)
	if err != nil {
		return dependencyError("template store", err)
	}
	if exists {
		return newValidationError("template name already exists", "name")
	}
	return nil
}

// apply runs a conditional update and resolves a lost race into a typed error.
func (s *TemplateService) apply(ctx context.Context, tpl *models.AssessmentTemplate, expect Expect, patch map[string]interface{}, action ApprovalAction) error {
	err := s.gw.Templates.Update(ctx, tpl.ID, expect, patch)
	s.gw.Cache.Invalidate(ctx, tpl.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrStaleWrite) && !errors.Is(err, ErrRecordNotFound) {
		return dependencyError("template store", err)
	}

	current, lerr := loadTemplate(ctx, s.gw, tpl.ID)
	if lerr != nil {
		return lerr
	}
	return &StateConflictError{
		Resource: templateResource,
		ID:       tpl.ID,
		Current:  string(current.ApprovalStatus),
		Action:   string(action),
		Reason:   fmt.Sprintf("modified concurrently (now %s, version %d)", current.ApprovalStatus, current.Version),
	}
}

func contentPatch(content TemplateContent) map[string]interface{} {
	return map[string]interface{}{
		"name":        content.Name,
		"description": content.Description,
		"categories":  datatypes.JSONSlice[models.Category](content.Categories),
	}
}

// immutableTemplateError marks an edit of an approved template as both a
// state conflict and an input error.
func immutableTemplateError(tpl *models.AssessmentTemplate, err error) error {
	var conflict *StateConflictError
	if !errors.As(err, &conflict) || tpl.ApprovalStatus != models.ApprovalApproved {
		return err
	}
	conflict.Reason = "approved template content is immutable"
	conflict.Err = newValidationError("approved template cannot be edited", "id")
	return conflict
}
