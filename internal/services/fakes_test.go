package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/google/uuid"
)

// applyPatch writes column-named values onto a copy of entity through its
// JSON form; every patched column shares its name with the json tag.
func applyPatch[T any](entity *T, patch map[string]interface{}) (*T, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range patch {
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func clone[T any](entity *T) *T {
	out, err := applyPatch(entity, nil)
	if err != nil {
		panic(err)
	}
	return out
}

func statusAllowed(expect Expect, current models.ApprovalStatus) bool {
	for _, s := range expect.Statuses {
		if s == current {
			return true
		}
	}
	return false
}

type memTemplateStore struct {
	mu      sync.Mutex
	rows    map[string]*models.AssessmentTemplate
	deleted map[string]bool
	failAll error
	// afterGet runs once, after GetByID has read its row
	afterGet func(id string)
}

func newMemTemplateStore() *memTemplateStore {
	return &memTemplateStore{rows: map[string]*models.AssessmentTemplate{}, deleted: map[string]bool{}}
}

func (s *memTemplateStore) GetByID(ctx context.Context, id string) (*models.AssessmentTemplate, error) {
	tpl, err := s.getByID(id)
	s.mu.Lock()
	hook := s.afterGet
	s.afterGet = nil
	s.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	return tpl, err
}

func (s *memTemplateStore) getByID(id string) (*models.AssessmentTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	row, ok := s.rows[id]
	if !ok || s.deleted[id] {
		return nil, ErrRecordNotFound
	}
	return clone(row), nil
}

func (s *memTemplateStore) List(ctx context.Context, filter TemplateFilter) ([]models.AssessmentTemplate, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, 0, s.failAll
	}
	var out []models.AssessmentTemplate
	for id, row := range s.rows {
		if s.deleted[id] {
			continue
		}
		if filter.ApprovalStatus != "" && row.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *clone(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (s *memTemplateStore) Create(ctx context.Context, tpl *models.AssessmentTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	s.rows[tpl.ID] = clone(tpl)
	return nil
}

func (s *memTemplateStore) Update(ctx context.Context, id string, expect Expect, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || s.deleted[id] {
		return ErrRecordNotFound
	}
	if !statusAllowed(expect, row.ApprovalStatus) || row.Version != expect.Version {
		return ErrStaleWrite
	}
	next, err := applyPatch(row, patch)
	if err != nil {
		return err
	}
	next.Version = row.Version + 1
	s.rows[id] = next
	return nil
}

func (s *memTemplateStore) SoftDelete(ctx context.Context, id string, deletedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok || s.deleted[id] {
		return ErrRecordNotFound
	}
	s.deleted[id] = true
	return nil
}

func (s *memTemplateStore) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, row := range s.rows {
		if s.deleted[id] || id == excludeID {
			continue
		}
		if strings.EqualFold(row.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// setStatus forces a row into a state, bypassing the lifecycle.
func (s *memTemplateStore) setStatus(id string, status models.ApprovalStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id].ApprovalStatus = status
	s.rows[id].Version++
}

type memAssessmentStore struct {
	mu   sync.Mutex
	rows map[string]*models.CustomerAssessment
}

func newMemAssessmentStore() *memAssessmentStore {
	return &memAssessmentStore{rows: map[string]*models.CustomerAssessment{}}
}

func (s *memAssessmentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memAssessmentStore) GetByID(ctx context.Context, id string) (*models.CustomerAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return clone(row), nil
}

func (s *memAssessmentStore) filter(keep func(*models.CustomerAssessment) bool) []models.CustomerAssessment {
	var out []models.CustomerAssessment
	for _, row := range s.rows {
		if keep(row) {
			out = append(out, *clone(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memAssessmentStore) ListByCustomer(ctx context.Context, customerID string) ([]models.CustomerAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(a *models.CustomerAssessment) bool { return a.CustomerID == customerID }), nil
}

func (s *memAssessmentStore) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]models.CustomerAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(a *models.CustomerAssessment) bool { return a.ApprovalStatus == status }), nil
}

func (s *memAssessmentStore) List(ctx context.Context, f AssessmentFilter) ([]models.CustomerAssessment, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filter(func(a *models.CustomerAssessment) bool {
		return (f.CustomerID == "" || a.CustomerID == f.CustomerID) &&
			(f.ApprovalStatus == "" || a.ApprovalStatus == f.ApprovalStatus) &&
			(f.TemplateID == "" || a.AssessmentTemplateID == f.TemplateID) &&
			(f.Rating == "" || a.Rating == f.Rating)
	})
	return out, int64(len(out)), nil
}

func (s *memAssessmentStore) Create(ctx context.Context, a *models.CustomerAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.rows[a.ID] = clone(a)
	return nil
}

func (s *memAssessmentStore) Update(ctx context.Context, id string, expect Expect, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return ErrRecordNotFound
	}
	if !statusAllowed(expect, row.ApprovalStatus) || row.Version != expect.Version {
		return ErrStaleWrite
	}
	next, err := applyPatch(row, patch)
	if err != nil {
		return err
	}
	next.Version = row.Version + 1
	s.rows[id] = next
	return nil
}

func (s *memAssessmentStore) CountByTemplate(ctx context.Context, templateID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.rows {
		if row.AssessmentTemplateID == templateID {
			n++
		}
	}
	return n, nil
}

type memDirectory struct {
	mu        sync.Mutex
	customers []models.Customer
	findErr   error
	// blind makes every lookup miss, as a lookup racing another
	// first submission would
	blind bool
}

func (d *memDirectory) FindByIDOrNIC(ctx context.Context, customerID, nic string) (CustomerLookup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.findErr != nil {
		return CustomerLookup{}, d.findErr
	}
	if d.blind {
		return CustomerLookup{}, nil
	}
	for i := range d.customers {
		c := d.customers[i]
		if (customerID != "" && c.CustomerID == customerID) || (nic != "" && c.NIC == nic) {
			return CustomerLookup{Found: true, CustomerType: c.CustomerType, Customer: &c}, nil
		}
	}
	return CustomerLookup{}, nil
}

func (d *memDirectory) Create(ctx context.Context, customer *models.Customer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.customers {
		if c.CustomerID == customer.CustomerID {
			return nil
		}
	}
	d.customers = append(d.customers, *customer)
	return nil
}

func (d *memDirectory) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.customers)
}

type recordedActivity struct {
	Username, Action, Description string
}

type memActivity struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (a *memActivity) Record(username, action, description string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedActivity{username, action, description})
}

func (a *memActivity) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	rows map[string]*models.AssessmentTemplate
}

func (c *memCache) Get(ctx context.Context, id string) (*models.AssessmentTemplate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	row, ok := c.rows[id]
	if !ok {
		return nil, false
	}
	return clone(row), true
}

func (c *memCache) Set(ctx context.Context, tpl *models.AssessmentTemplate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows == nil {
		c.rows = map[string]*models.AssessmentTemplate{}
	}
	c.rows[tpl.ID] = clone(tpl)
}

func (c *memCache) Invalidate(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, id)
}

type testEnv struct {
	templates   *memTemplateStore
	assessments *memAssessmentStore
	directory   *memDirectory
	activity    *memActivity
	cache       *memCache
	tplSvc      *TemplateService
	assessSvc   *AssessmentService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		templates:   newMemTemplateStore(),
		assessments: newMemAssessmentStore(),
		directory:   &memDirectory{},
		activity:    &memActivity{},
		cache:       &memCache{},
	}
	gw := Gateways{
		Templates:   env.templates,
		Assessments: env.assessments,
		Customers:   env.directory,
		Cache:       env.cache,
		Activity:    env.activity,
	}
	env.tplSvc = NewTemplateService(gw, DefaultTemplateRules())
	env.assessSvc = NewAssessmentService(gw, NewPDFExporter())
	return env
}

var (
	author   = Actor{UserID: 1, Username: "alice", Role: models.RoleAuthor}
	approver = Actor{UserID: 2, Username: "bob", Role: models.RoleApprover}
	assessor = Actor{UserID: 3, Username: "carol", Role: models.RoleAssessor}
)
