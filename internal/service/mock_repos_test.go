package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"hostel-portal/backend/internal/model"
	"hostel-portal/backend/internal/repository"
)

// ── 调用记录 ──

// callLog 按调用顺序记录被观察的仓储方法，供锁序相关用例断言
type callLog struct {
	entries []string
}

func (l *callLog) add(name string) {
	l.entries = append(l.entries, name)
}

// indexOf 返回 name 首次出现的位置，未出现时返回 -1
func (l *callLog) indexOf(name string) int {
	for i, e := range l.entries {
		if e == name {
			return i
		}
	}
	return -1
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentNo(_ context.Context, studentNo string) (*model.User, error) {
	for _, u := range m.users {
		if u.StudentNo != nil && *u.StudentNo == studentNo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
	seq       int
	log       *callLog
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		m.seq++
		semester.SemesterID = fmt.Sprintf("sem-%03d", m.seq)
	}
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Semester, error) {
	if m.log != nil {
		m.log.add("semester.lock")
	}
	return m.GetByID(ctx, id)
}

func (m *mockSemesterRepo) GetActive(_ context.Context) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetByName(_ context.Context, name string) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) SoftDelete(_ context.Context, id string, _ string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) HardDelete(_ context.Context, id string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) ClearActive(_ context.Context) error {
	for _, s := range m.semesters {
		s.IsActive = false
	}
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
	seq   int
	log   *callLog
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		m.seq++
		room.RoomID = fmt.Sprintf("room-%03d", m.seq)
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Room, error) {
	if m.log != nil {
		m.log.add("room.lock")
	}
	return m.GetByID(ctx, id)
}

func (m *mockRoomRepo) GetByNumber(_ context.Context, roomNumber string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.RoomNumber == roomNumber {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, roomType string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if roomType != "" && r.RoomType != roomType {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) ListUsableByType(_ context.Context, roomType string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.RoomType != roomType || r.Status == model.RoomStatusMaintenance {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoomID < result[j].RoomID })
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) UpdateStatus(_ context.Context, id string, status string) error {
	if r, ok := m.rooms[id]; ok {
		r.Status = status
	}
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	return nil
}

// ── Mock ApplicationRepository ──

type mockApplicationRepo struct {
	applications map[string]*model.Application
	seq          int
	log          *callLog
	createErr    error
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{applications: make(map[string]*model.Application)}
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	if app.ApplicationID == "" {
		m.seq++
		app.ApplicationID = fmt.Sprintf("app-%03d", m.seq)
	}
	m.applications[app.ApplicationID] = app
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.Application, error) {
	if a, ok := m.applications[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) Update(_ context.Context, app *model.Application) error {
	m.applications[app.ApplicationID] = app
	return nil
}

func (m *mockApplicationRepo) List(_ context.Context, filter *repository.ApplicationFilter) ([]model.Application, int64, error) {
	var result []model.Application
	for _, a := range m.applications {
		if filter.SemesterID != "" && a.SemesterID != filter.SemesterID {
			continue
		}
		if filter.RoomType != "" && a.RoomType != filter.RoomType {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateApplied.Before(result[j].DateApplied) })
	return result, int64(len(result)), nil
}

func (m *mockApplicationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Application, error) {
	var result []model.Application
	for _, a := range m.applications {
		if a.StudentID == studentID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateApplied.Before(result[j].DateApplied) })
	return result, nil
}

func (m *mockApplicationRepo) CountActiveByStudent(_ context.Context, studentID string) (int64, error) {
	if m.log != nil {
		m.log.add("application.count_active")
	}
	var count int64
	for _, a := range m.applications {
		if a.StudentID == studentID && a.Status != model.ApplicationStatusRejected {
			count++
		}
	}
	return count, nil
}

func (m *mockApplicationRepo) CountApproved(_ context.Context, semesterID, roomType string) (int64, error) {
	var count int64
	for _, a := range m.applications {
		if a.SemesterID == semesterID && a.RoomType == roomType && a.Status == model.ApplicationStatusApproved {
			count++
		}
	}
	return count, nil
}

func (m *mockApplicationRepo) CountBySemester(_ context.Context, semesterID string) (int64, error) {
	var count int64
	for _, a := range m.applications {
		if a.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

func (m *mockApplicationRepo) ListPending(_ context.Context, semesterID, roomType string) ([]model.Application, error) {
	var result []model.Application
	for _, a := range m.applications {
		if a.SemesterID == semesterID && a.RoomType == roomType && a.Status == model.ApplicationStatusPending {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateApplied.Before(result[j].DateApplied) })
	return result, nil
}

func (m *mockApplicationRepo) ListAutoRejected(_ context.Context, semesterID, roomType string, limit int) ([]model.Application, error) {
	var result []model.Application
	for _, a := range m.applications {
		if a.SemesterID == semesterID && a.RoomType == roomType &&
			a.Status == model.ApplicationStatusRejected && a.IsAutoRejected {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateApplied.Before(result[j].DateApplied) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.RoomAssignment
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.RoomAssignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.RoomAssignment) error {
	if assignment.AssignmentID == "" {
		m.seq++
		assignment.AssignmentID = fmt.Sprintf("assign-%03d", m.seq)
	}
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.RoomAssignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) GetByApplication(_ context.Context, applicationID string) (*model.RoomAssignment, error) {
	for _, a := range m.assignments {
		if a.ApplicationID == applicationID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.RoomAssignment) error {
	m.assignments[assignment.AssignmentID] = assignment
	return nil
}

func (m *mockAssignmentRepo) List(_ context.Context, status string) ([]model.RoomAssignment, error) {
	var result []model.RoomAssignment
	for _, a := range m.assignments {
		if status != "" && a.Status != status {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	return result, nil
}

func (m *mockAssignmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.RoomAssignment, error) {
	var result []model.RoomAssignment
	for _, a := range m.assignments {
		if a.StudentID == studentID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) CountActiveOverlapping(_ context.Context, roomID string, start, end time.Time) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.RoomID == roomID && a.Status == model.AssignmentStatusActive && a.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) CountStudentActiveOverlapping(_ context.Context, studentID string, start, end time.Time) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.StudentID == studentID && a.Status == model.AssignmentStatusActive && a.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) ListActiveEndedBefore(_ context.Context, today time.Time) ([]model.RoomAssignment, error) {
	var result []model.RoomAssignment
	for _, a := range m.assignments {
		if a.Status == model.AssignmentStatusActive && a.EndDate.Before(today) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	return result, nil
}

// ── Mock PaymentRepository ──

// mockPaymentRepo 需要看到分配仓储才能实现 ListOrphaned
type mockPaymentRepo struct {
	payments    map[string]*model.Payment
	assignments *mockAssignmentRepo
	seq         int
}

func newMockPaymentRepo(assignments *mockAssignmentRepo) *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*model.Payment), assignments: assignments}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if payment.PaymentID == "" {
		m.seq++
		payment.PaymentID = fmt.Sprintf("pay-%03d", m.seq)
	}
	m.payments[payment.PaymentID] = payment
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (*model.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) Update(_ context.Context, payment *model.Payment) error {
	m.payments[payment.PaymentID] = payment
	return nil
}

func (m *mockPaymentRepo) List(_ context.Context, status string) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PaymentID < result[j].PaymentID })
	return result, nil
}

func (m *mockPaymentRepo) ListByStudent(_ context.Context, studentID string) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if p.StudentID == studentID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepo) DeleteByAssignment(_ context.Context, assignmentID string) error {
	for id, p := range m.payments {
		if p.AssignmentID == assignmentID {
			delete(m.payments, id)
		}
	}
	return nil
}

func (m *mockPaymentRepo) ListOrphaned(_ context.Context) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		a, ok := m.assignments.assignments[p.AssignmentID]
		if ok && a.Status == model.AssignmentStatusCancelled {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPaymentRepo) Delete(_ context.Context, id string) error {
	delete(m.payments, id)
	return nil
}

// ── Mock MaintenanceRepository ──

type mockMaintenanceRepo struct {
	requests map[string]*model.MaintenanceRequest
	seq      int
}

func newMockMaintenanceRepo() *mockMaintenanceRepo {
	return &mockMaintenanceRepo{requests: make(map[string]*model.MaintenanceRequest)}
}

func (m *mockMaintenanceRepo) Create(_ context.Context, req *model.MaintenanceRequest) error {
	if req.RequestID == "" {
		m.seq++
		req.RequestID = fmt.Sprintf("mr-%03d", m.seq)
	}
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockMaintenanceRepo) GetByID(_ context.Context, id string) (*model.MaintenanceRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMaintenanceRepo) Update(_ context.Context, req *model.MaintenanceRequest) error {
	m.requests[req.RequestID] = req
	return nil
}

func (m *mockMaintenanceRepo) List(_ context.Context, status string) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, r := range m.requests {
		if status != "" && r.Status != status {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockMaintenanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.MaintenanceRequest, error) {
	var result []model.MaintenanceRequest
	for _, r := range m.requests {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if notification.NotificationID == "" {
		m.seq++
		notification.NotificationID = fmt.Sprintf("ntf-%03d", m.seq)
	}
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

// ── 测试用聚合 ──

// testRepos 持有各 mock 仓储，便于用例直接操作底层数据
type testRepos struct {
	users         *mockUserRepo
	semesters     *mockSemesterRepo
	rooms         *mockRoomRepo
	applications  *mockApplicationRepo
	assignments   *mockAssignmentRepo
	payments      *mockPaymentRepo
	maintenance   *mockMaintenanceRepo
	notifications *mockNotificationRepo
	calls         *callLog
}

// newTestRepository 构造基于 mock 的 Repository 聚合。
// db 为空，Transaction 退化为直接执行。
func newTestRepository() (*repository.Repository, *testRepos) {
	mocks := &testRepos{
		users:         newMockUserRepo(),
		semesters:     newMockSemesterRepo(),
		rooms:         newMockRoomRepo(),
		applications:  newMockApplicationRepo(),
		assignments:   newMockAssignmentRepo(),
		maintenance:   newMockMaintenanceRepo(),
		notifications: newMockNotificationRepo(),
		calls:         &callLog{},
	}
	mocks.payments = newMockPaymentRepo(mocks.assignments)
	mocks.semesters.log = mocks.calls
	mocks.rooms.log = mocks.calls
	mocks.applications.log = mocks.calls

	repo := &repository.Repository{
		User:         mocks.users,
		Semester:     mocks.semesters,
		Room:         mocks.rooms,
		Application:  mocks.applications,
		Assignment:   mocks.assignments,
		Payment:      mocks.payments,
		Maintenance:  mocks.maintenance,
		Notification: mocks.notifications,
	}
	return repo, mocks
}
