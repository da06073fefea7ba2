package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"wfm/backend/internal/model"
	"wfm/backend/internal/repository"
)

func newTestRepository() *repository.Repository {
	return &repository.Repository{
		User:          newMockUserRepo(),
		Department:    newMockDepartmentRepo(),
		ShiftType:     newMockShiftTypeRepo(),
		AgentShift:    newMockAgentShiftRepo(),
		BreakRule:     newMockBreakRuleRepo(),
		BreakSchedule: newMockBreakScheduleRepo(),
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "u-" + user.Username
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByName(_ context.Context, name string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == name || u.DisplayName == name {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, q repository.UserListQuery) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if q.DepartmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != q.DepartmentID) {
			continue
		}
		if q.Keyword != "" && !strings.Contains(u.Username, q.Keyword) && !strings.Contains(u.DisplayName, q.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	user.Version++
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountByDepartment(_ context.Context, departmentID string) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	depts map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "d-" + dept.Name
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string) error {
	delete(m.depts, id)
	return nil
}

// ── Mock ShiftTypeRepository ──

type mockShiftTypeRepo struct {
	shiftTypes map[string]*model.ShiftType
}

func newMockShiftTypeRepo() *mockShiftTypeRepo {
	return &mockShiftTypeRepo{shiftTypes: make(map[string]*model.ShiftType)}
}

func (m *mockShiftTypeRepo) Create(_ context.Context, st *model.ShiftType) error {
	if st.ShiftTypeID == "" {
		st.ShiftTypeID = "st-" + st.Name
	}
	m.shiftTypes[st.ShiftTypeID] = st
	return nil
}

func (m *mockShiftTypeRepo) GetByID(_ context.Context, id string) (*model.ShiftType, error) {
	if st, ok := m.shiftTypes[id]; ok {
		return st, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTypeRepo) GetByName(_ context.Context, name string) (*model.ShiftType, error) {
	for _, st := range m.shiftTypes {
		if st.Name == name {
			return st, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftTypeRepo) List(_ context.Context) ([]model.ShiftType, error) {
	var result []model.ShiftType
	for _, st := range m.shiftTypes {
		result = append(result, *st)
	}
	return result, nil
}

func (m *mockShiftTypeRepo) Update(_ context.Context, st *model.ShiftType) error {
	m.shiftTypes[st.ShiftTypeID] = st
	return nil
}

func (m *mockShiftTypeRepo) Delete(_ context.Context, id string) error {
	delete(m.shiftTypes, id)
	return nil
}

// ── Mock AgentShiftRepository ──

type mockAgentShiftRepo struct {
	shifts map[string]*model.AgentShift
}

func newMockAgentShiftRepo() *mockAgentShiftRepo {
	return &mockAgentShiftRepo{shifts: make(map[string]*model.AgentShift)}
}

func (m *mockAgentShiftRepo) Create(_ context.Context, shift *model.AgentShift) error {
	if shift.AgentShiftID == "" {
		shift.AgentShiftID = fmt.Sprintf("as-%s-%s", shift.UserID, shift.ShiftDate.Format("2006-01-02"))
	}
	m.shifts[shift.AgentShiftID] = shift
	return nil
}

func (m *mockAgentShiftRepo) BatchCreate(ctx context.Context, shifts []model.AgentShift) error {
	for i := range shifts {
		if err := m.Create(ctx, &shifts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAgentShiftRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*model.AgentShift, error) {
	for _, s := range m.shifts {
		if s.UserID == userID && s.ShiftDate.Equal(date) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAgentShiftRepo) ListByDate(_ context.Context, date time.Time, departmentID string) ([]model.AgentShift, error) {
	var result []model.AgentShift
	for _, s := range m.shifts {
		if !s.ShiftDate.Equal(date) {
			continue
		}
		if departmentID != "" {
			if s.User == nil || s.User.DepartmentID == nil || *s.User.DepartmentID != departmentID {
				continue
			}
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockAgentShiftRepo) Delete(_ context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

// ── Mock BreakRuleRepository ──

type mockBreakRuleRepo struct {
	rules map[string]*model.BreakScheduleRule
}

func newMockBreakRuleRepo() *mockBreakRuleRepo {
	return &mockBreakRuleRepo{rules: make(map[string]*model.BreakScheduleRule)}
}

func (m *mockBreakRuleRepo) Create(_ context.Context, rule *model.BreakScheduleRule) error {
	if rule.RuleID == "" {
		rule.RuleID = "r-" + rule.Name
	}
	m.rules[rule.RuleID] = rule
	return nil
}

func (m *mockBreakRuleRepo) GetByID(_ context.Context, id string) (*model.BreakScheduleRule, error) {
	if r, ok := m.rules[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBreakRuleRepo) GetByName(_ context.Context, name string) (*model.BreakScheduleRule, error) {
	for _, r := range m.rules {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBreakRuleRepo) List(_ context.Context) ([]model.BreakScheduleRule, error) {
	var result []model.BreakScheduleRule
	for _, r := range m.rules {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockBreakRuleRepo) ListActive(_ context.Context) ([]model.BreakScheduleRule, error) {
	var result []model.BreakScheduleRule
	for _, r := range m.rules {
		if r.IsActive {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockBreakRuleRepo) Update(_ context.Context, rule *model.BreakScheduleRule) error {
	if _, ok := m.rules[rule.RuleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.rules[rule.RuleID] = rule
	rule.Version++
	return nil
}

func (m *mockBreakRuleRepo) Delete(_ context.Context, id string) error {
	delete(m.rules, id)
	return nil
}

// ── Mock BreakScheduleRepository ──

type entryKey struct {
	UserID        string
	Date          string
	IntervalStart string
}

type mockBreakScheduleRepo struct {
	entries map[entryKey]*model.BreakScheduleEntry

	// 故障注入：非空时所有写操作返回该错误
	failWith error
	upserts  int
}

func newMockBreakScheduleRepo() *mockBreakScheduleRepo {
	return &mockBreakScheduleRepo{entries: make(map[entryKey]*model.BreakScheduleEntry)}
}

func (m *mockBreakScheduleRepo) UpsertBatch(_ context.Context, entries []model.BreakScheduleEntry) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.upserts++
	for i := range entries {
		e := entries[i]
		key := entryKey{UserID: e.UserID, Date: e.ScheduleDate.Format("2006-01-02"), IntervalStart: e.IntervalStart}
		m.entries[key] = &e
	}
	return nil
}

func (m *mockBreakScheduleRepo) ListByDate(_ context.Context, date time.Time) ([]model.BreakScheduleEntry, error) {
	var result []model.BreakScheduleEntry
	d := date.Format("2006-01-02")
	for k, e := range m.entries {
		if k.Date == d {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockBreakScheduleRepo) ListByUserAndDate(_ context.Context, userID string, date time.Time) ([]model.BreakScheduleEntry, error) {
	var result []model.BreakScheduleEntry
	d := date.Format("2006-01-02")
	for k, e := range m.entries {
		if k.UserID == userID && k.Date == d {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockBreakScheduleRepo) DeleteByUserAndDate(_ context.Context, userID string, date time.Time) error {
	if m.failWith != nil {
		return m.failWith
	}
	d := date.Format("2006-01-02")
	for k := range m.entries {
		if k.UserID == userID && k.Date == d {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *mockBreakScheduleRepo) DeleteByDate(_ context.Context, date time.Time) error {
	if m.failWith != nil {
		return m.failWith
	}
	d := date.Format("2006-01-02")
	for k := range m.entries {
		if k.Date == d {
			delete(m.entries, k)
		}
	}
	return nil
}
