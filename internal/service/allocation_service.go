package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostel-portal/backend/internal/dto"
	"hostel-portal/backend/internal/model"
	"hostel-portal/backend/internal/queue"
	"hostel-portal/backend/internal/repository"
)

// ── 分配引擎业务错误 ──

var (
	ErrApplicationNotFound        = errors.New("申请不存在")
	ErrSemesterNotFound           = errors.New("学期不存在")
	ErrSemesterInactive           = errors.New("学期未激活，不可申请")
	ErrApplyWindowClosed          = errors.New("不在申请窗口期内")
	ErrInvalidDateRange           = errors.New("入住日期区间无效")
	ErrDuplicateActiveApplication = errors.New("已存在未完结的住宿申请")
	ErrInvalidTransition          = errors.New("当前状态不允许此操作")
	ErrRoomNotFound               = errors.New("房间不存在")
	ErrRoomTypeMismatch           = errors.New("房间房型与申请不符")
	ErrRoomUnderMaintenance       = errors.New("房间维修中，不可分配")
	ErrRoomCapacityExceeded       = errors.New("该时段房间已满")
	ErrAlreadyAssigned            = errors.New("该申请已分配房间")
	ErrOverlappingAssignment      = errors.New("学生在该时段已有入住分配")
)

const dateLayout = "2006-01-02"

// AllocationService 配额与房源分配引擎
//
// 申请的全部状态迁移（提交/批准/拒绝/自动拒绝/复活）以及入住分配的创建与
// 到期完结都集中在这里，避免配额判定逻辑散落在各处产生不一致。
// 每次决策在单个数据库事务内执行，并对学期行加行级锁，
// 保证并发批准不会超卖配额。
type AllocationService interface {
	// Submit 学生提交住宿申请；提交即校验，已知无法满足的申请立即自动拒绝
	Submit(ctx context.Context, studentID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	// Approve 员工批准申请；配额与房源以当前库内状态复核，
	// 耗尽时转为自动拒绝并在结果中给出具体原因
	Approve(ctx context.Context, applicationID, callerID string) (*dto.ApproveResult, error)
	// Reject 员工拒绝申请；撤销已批准申请时级联取消分配、删除缴费单并复活候补
	Reject(ctx context.Context, applicationID, reason, callerID string) (*dto.ApplicationResponse, error)
	// AssignRoom 员工为已批准申请指派具体房间，生成入住分配与缴费单
	AssignRoom(ctx context.Context, applicationID, roomID, callerID string) (*dto.AssignmentResponse, error)
	// ExpireAssignments 将 end_date 已过的 active 分配标记为 completed（幂等）
	ExpireAssignments(ctx context.Context, today time.Time) (int, error)

	// ── 查询面 ──
	RemainingQuota(ctx context.Context, semesterID, roomType string) (*dto.QuotaResponse, error)
	AvailableCapacity(ctx context.Context, roomType string, start, end time.Time) (int, error)
	IsRoomFullForPeriod(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	GetApplication(ctx context.Context, id string) (*dto.ApplicationResponse, error)
	ListApplications(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error)
	ListMyApplications(ctx context.Context, studentID string) ([]dto.ApplicationResponse, error)
	ListAssignments(ctx context.Context, status string) ([]dto.AssignmentResponse, error)
	ListMyAssignments(ctx context.Context, studentID string) ([]dto.AssignmentResponse, error)
}

type allocationService struct {
	repo      *repository.Repository
	publisher *queue.Publisher
	prices    *PriceTable
	logger    *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
func NewAllocationService(
	repo *repository.Repository,
	publisher *queue.Publisher,
	prices *PriceTable,
	logger *zap.Logger,
) AllocationService {
	return &allocationService{
		repo:      repo,
		publisher: publisher,
		prices:    prices,
		logger:    logger,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *allocationService) Submit(ctx context.Context, studentID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	var app *model.Application
	var events []*queue.ApplicationDecidedEvent

	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		// 行级锁学期，与并发的批准/提交串行化配额判定
		semester, err := r.Semester.GetByIDForUpdate(ctx, req.SemesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			s.logger.Error("查询学期失败", zap.Error(err))
			return err
		}
		if !semester.IsActive {
			return ErrSemesterInactive
		}
		now := time.Now()
		if !semester.WindowOpen(now) {
			return ErrApplyWindowClosed
		}

		// 一人一单不变量：存在非 rejected 的申请时不允许再次提交。
		// 必须持学期锁后再查，否则同一学生的两次并发提交都会读到 0
		active, err := r.Application.CountActiveByStudent(ctx, studentID)
		if err != nil {
			s.logger.Error("查询学生在途申请失败", zap.Error(err))
			return err
		}
		if active > 0 {
			return ErrDuplicateActiveApplication
		}

		// 起止日期缺省取学期起止
		start, end := semester.StartDate, semester.EndDate
		if req.StartDate != "" {
			if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
				return ErrInvalidDateRange
			}
		}
		if req.EndDate != "" {
			if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
				return ErrInvalidDateRange
			}
		}
		if end.Before(start) {
			return ErrInvalidDateRange
		}

		app = &model.Application{
			StudentID:   studentID,
			SemesterID:  semester.SemesterID,
			RoomType:    req.RoomType,
			Status:      model.ApplicationStatusPending,
			StartDate:   start,
			EndDate:     end,
			DateApplied: now,
		}
		app.CreatedBy = &studentID
		app.UpdatedBy = &studentID
		if err := r.Application.Create(ctx, app); err != nil {
			// 跨学期的并发提交不经同一把学期锁，由部分唯一索引兜底
			if repository.IsUniqueViolation(err, "idx_applications_student_active") {
				return ErrDuplicateActiveApplication
			}
			s.logger.Error("创建申请失败", zap.Error(err))
			return err
		}

		// 提交即校验：系统已知无法满足的申请不保留 pending 状态
		remaining, err := s.remainingQuota(ctx, r, semester, app.RoomType)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return s.autoReject(ctx, r, app, model.RejectReasonQuotaReached, &events)
		}
		slots, err := s.availableCapacity(ctx, r, app.RoomType, start, end)
		if err != nil {
			return err
		}
		if slots <= 0 {
			return s.autoReject(ctx, r, app, model.RejectReasonNoRoomAvailable, &events)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDecisions(ctx, events)
	return toApplicationResponse(app), nil
}

// ────────────────────── Approve ──────────────────────

func (s *allocationService) Approve(ctx context.Context, applicationID, callerID string) (*dto.ApproveResult, error) {
	var result *dto.ApproveResult
	var events []*queue.ApplicationDecidedEvent

	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		app, err := r.Application.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			s.logger.Error("查询申请失败", zap.Error(err))
			return err
		}
		if app.Status != model.ApplicationStatusPending {
			return ErrInvalidTransition
		}

		// 行级锁学期：两个并发批准不能同时通过同一个剩余配额判定
		semester, err := r.Semester.GetByIDForUpdate(ctx, app.SemesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSemesterNotFound
			}
			s.logger.Error("查询学期失败", zap.Error(err))
			return err
		}

		// 复核配额与房源：提交时的结论不可信，一律按当前库内状态重新判定
		remaining, err := s.remainingQuota(ctx, r, semester, app.RoomType)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			if err := s.autoReject(ctx, r, app, model.RejectReasonQuotaReached, &events); err != nil {
				return err
			}
			result = &dto.ApproveResult{
				ApplicationID: app.ApplicationID,
				Status:        model.ApplicationStatusRejected,
				Reason:        model.RejectReasonQuotaReached,
			}
			return nil
		}
		slots, err := s.availableCapacity(ctx, r, app.RoomType, app.StartDate, app.EndDate)
		if err != nil {
			return err
		}
		if slots <= 0 {
			if err := s.autoReject(ctx, r, app, model.RejectReasonNoRoomAvailable, &events); err != nil {
				return err
			}
			result = &dto.ApproveResult{
				ApplicationID: app.ApplicationID,
				Status:        model.ApplicationStatusRejected,
				Reason:        model.RejectReasonNoRoomAvailable,
			}
			return nil
		}

		app.Status = model.ApplicationStatusApproved
		app.IsAutoRejected = false
		app.RejectionReason = nil
		app.UpdatedBy = &callerID
		if err := r.Application.Update(ctx, app); err != nil {
			s.logger.Error("保存批准状态失败", zap.Error(err))
			return err
		}
		if err := s.notifyDecision(ctx, r, app, model.NotificationTypeApproved); err != nil {
			return err
		}
		events = append(events, decidedEvent(app))
		result = &dto.ApproveResult{
			ApplicationID: app.ApplicationID,
			Status:        model.ApplicationStatusApproved,
		}

		// 本次批准恰好耗尽配额时，同学期同房型其余 pending 申请批量自动拒绝
		// （先到先得的硬性配额语义）
		if remaining-1 <= 0 {
			pendings, err := r.Application.ListPending(ctx, app.SemesterID, app.RoomType)
			if err != nil {
				s.logger.Error("查询待处理申请失败", zap.Error(err))
				return err
			}
			for i := range pendings {
				p := &pendings[i]
				if p.ApplicationID == app.ApplicationID {
					continue
				}
				if err := s.autoReject(ctx, r, p, model.RejectReasonQuotaReached, &events); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDecisions(ctx, events)
	return result, nil
}

// ────────────────────── Reject ──────────────────────

func (s *allocationService) Reject(ctx context.Context, applicationID, reason, callerID string) (*dto.ApplicationResponse, error) {
	var out *model.Application
	var events []*queue.ApplicationDecidedEvent

	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		app, err := r.Application.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			s.logger.Error("查询申请失败", zap.Error(err))
			return err
		}
		if app.Status != model.ApplicationStatusPending && app.Status != model.ApplicationStatusApproved {
			return ErrInvalidTransition
		}
		wasApproved := app.Status == model.ApplicationStatusApproved

		if wasApproved {
			// 撤销批准会释放配额，与并发批准竞争同一学期行，需要同一把锁
			if _, err := r.Semester.GetByIDForUpdate(ctx, app.SemesterID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("锁定学期失败", zap.Error(err))
				return err
			}

			// 级联：取消名下分配并删除缴费单，床位与配额同时释放
			assignment, err := r.Assignment.GetByApplication(ctx, app.ApplicationID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询入住分配失败", zap.Error(err))
				return err
			}
			if assignment != nil && assignment.Status == model.AssignmentStatusActive {
				assignment.Status = model.AssignmentStatusCancelled
				assignment.UpdatedBy = &callerID
				if err := r.Assignment.Update(ctx, assignment); err != nil {
					s.logger.Error("取消入住分配失败", zap.Error(err))
					return err
				}
				if err := r.Payment.DeleteByAssignment(ctx, assignment.AssignmentID); err != nil {
					s.logger.Error("删除缴费单失败", zap.Error(err))
					return err
				}
				room, err := r.Room.GetByID(ctx, assignment.RoomID)
				if err != nil {
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						s.logger.Error("查询房间失败", zap.Error(err))
						return err
					}
				} else if err := recomputeRoomStatus(ctx, r, room); err != nil {
					return err
				}
			}
		}

		app.Status = model.ApplicationStatusRejected
		app.IsAutoRejected = false
		app.RejectionReason = &reason
		app.UpdatedBy = &callerID
		if err := r.Application.Update(ctx, app); err != nil {
			s.logger.Error("保存拒绝状态失败", zap.Error(err))
			return err
		}
		if err := s.notifyDecision(ctx, r, app, model.NotificationTypeRejected); err != nil {
			return err
		}
		events = append(events, decidedEvent(app))

		// 复活：撤销一个已批准申请释放 1 个学生配额，
		// 按申请时间最早优先给被自动拒绝的候补一次公平的机会
		if wasApproved {
			candidates, err := r.Application.ListAutoRejected(ctx, app.SemesterID, app.RoomType, 1)
			if err != nil {
				s.logger.Error("查询候补申请失败", zap.Error(err))
				return err
			}
			for i := range candidates {
				c := &candidates[i]
				c.Status = model.ApplicationStatusPending
				c.IsAutoRejected = false
				c.RejectionReason = nil
				if err := r.Application.Update(ctx, c); err != nil {
					s.logger.Error("复活候补申请失败", zap.Error(err))
					return err
				}
				if err := s.notifyDecision(ctx, r, c, model.NotificationTypeReinstated); err != nil {
					return err
				}
				events = append(events, decidedEvent(c))
			}
		}

		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDecisions(ctx, events)
	return toApplicationResponse(out), nil
}

// ────────────────────── AssignRoom ──────────────────────

func (s *allocationService) AssignRoom(ctx context.Context, applicationID, roomID, callerID string) (*dto.AssignmentResponse, error) {
	var assignment *model.RoomAssignment
	var room *model.Room
	var event *queue.RoomAssignedEvent

	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		app, err := r.Application.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			s.logger.Error("查询申请失败", zap.Error(err))
			return err
		}
		if app.Status != model.ApplicationStatusApproved {
			return ErrInvalidTransition
		}
		if _, err := r.Assignment.GetByApplication(ctx, app.ApplicationID); err == nil {
			return ErrAlreadyAssigned
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询已有分配失败", zap.Error(err))
			return err
		}

		// 行级锁房间：两个并发分配不能同时通过同一房间的容量判定
		room, err = r.Room.GetByIDForUpdate(ctx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			s.logger.Error("锁定房间失败", zap.Error(err))
			return err
		}
		if room.RoomType != app.RoomType {
			return ErrRoomTypeMismatch
		}
		if room.Status == model.RoomStatusMaintenance {
			return ErrRoomUnderMaintenance
		}

		// 员工选定了具体房间，按该房间重新复核容量，独立于引擎级可用量检查
		occupied, err := r.Assignment.CountActiveOverlapping(ctx, room.RoomID, app.StartDate, app.EndDate)
		if err != nil {
			s.logger.Error("统计房间占用失败", zap.Error(err))
			return err
		}
		if occupied >= int64(room.Capacity()) {
			return ErrRoomCapacityExceeded
		}

		overlapping, err := r.Assignment.CountStudentActiveOverlapping(ctx, app.StudentID, app.StartDate, app.EndDate)
		if err != nil {
			s.logger.Error("统计学生在住分配失败", zap.Error(err))
			return err
		}
		if overlapping > 0 {
			return ErrOverlappingAssignment
		}

		assignment = &model.RoomAssignment{
			StudentID:     app.StudentID,
			RoomID:        room.RoomID,
			ApplicationID: app.ApplicationID,
			StartDate:     app.StartDate,
			EndDate:       app.EndDate,
			Status:        model.AssignmentStatusActive,
			PaymentStatus: model.AssignmentPaymentPending,
		}
		assignment.CreatedBy = &callerID
		assignment.UpdatedBy = &callerID
		if err := r.Assignment.Create(ctx, assignment); err != nil {
			s.logger.Error("创建入住分配失败", zap.Error(err))
			return err
		}

		// 学生类型决定日租价档位
		studentType := model.StudentTypeLocal
		if app.Student != nil {
			studentType = app.Student.StudentType
		}
		amount := s.prices.TotalPrice(studentType, app.RoomType, app.StartDate, app.EndDate)
		payment := &model.Payment{
			StudentID:    app.StudentID,
			AssignmentID: assignment.AssignmentID,
			Amount:       amount,
			Period: fmt.Sprintf("%s ~ %s",
				app.StartDate.Format(dateLayout), app.EndDate.Format(dateLayout)),
			Status: model.PaymentStatusPending,
		}
		payment.CreatedBy = &callerID
		payment.UpdatedBy = &callerID
		if err := r.Payment.Create(ctx, payment); err != nil {
			s.logger.Error("创建缴费单失败", zap.Error(err))
			return err
		}

		if err := recomputeRoomStatus(ctx, r, room); err != nil {
			return err
		}

		relatedType := "assignment"
		notification := &model.Notification{
			UserID:      app.StudentID,
			Type:        model.NotificationTypeRoomAssigned,
			Title:       "房间分配完成",
			Content:     fmt.Sprintf("已为您分配房间 %s，住宿费 %.2f，请及时缴费。", room.RoomNumber, amount),
			RelatedType: &relatedType,
			RelatedID:   &assignment.AssignmentID,
		}
		if err := r.Notification.Create(ctx, notification); err != nil {
			s.logger.Error("写入通知失败", zap.Error(err))
			return err
		}

		event = &queue.RoomAssignedEvent{
			AssignmentID:  assignment.AssignmentID,
			ApplicationID: app.ApplicationID,
			StudentID:     app.StudentID,
			RoomID:        room.RoomID,
			RoomNumber:    room.RoomNumber,
			StartDate:     assignment.StartDate,
			EndDate:       assignment.EndDate,
			Amount:        amount,
			AssignedAt:    time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.PublishRoomAssigned(ctx, event)

	resp := toAssignmentResponse(assignment)
	resp.RoomNumber = room.RoomNumber
	return resp, nil
}

// ────────────────────── ExpireAssignments ──────────────────────

func (s *allocationService) ExpireAssignments(ctx context.Context, today time.Time) (int, error) {
	count := 0
	err := s.repo.Transaction(ctx, func(r *repository.Repository) error {
		expired, err := r.Assignment.ListActiveEndedBefore(ctx, today)
		if err != nil {
			s.logger.Error("查询到期分配失败", zap.Error(err))
			return err
		}
		for i := range expired {
			a := &expired[i]
			a.Status = model.AssignmentStatusCompleted
			if err := r.Assignment.Update(ctx, a); err != nil {
				s.logger.Error("完结分配失败", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
				return err
			}
			room, err := r.Room.GetByID(ctx, a.RoomID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					count++
					continue
				}
				s.logger.Error("查询房间失败", zap.Error(err))
				return err
			}
			if err := recomputeRoomStatus(ctx, r, room); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("到期清扫完成", zap.Int("completed", count))
	}
	return count, nil
}

// ────────────────────── 查询面 ──────────────────────

func (s *allocationService) RemainingQuota(ctx context.Context, semesterID, roomType string) (*dto.QuotaResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	approved, err := s.repo.Application.CountApproved(ctx, semesterID, roomType)
	if err != nil {
		s.logger.Error("统计已批准申请失败", zap.Error(err))
		return nil, err
	}

	quota := semester.StudentQuota(roomType)
	remaining := quota - int(approved)
	if remaining < 0 {
		remaining = 0
	}
	return &dto.QuotaResponse{
		SemesterID: semesterID,
		RoomType:   roomType,
		Quota:      quota,
		Approved:   int(approved),
		Remaining:  remaining,
	}, nil
}

func (s *allocationService) AvailableCapacity(ctx context.Context, roomType string, start, end time.Time) (int, error) {
	return s.availableCapacity(ctx, s.repo, roomType, start, end)
}

func (s *allocationService) IsRoomFullForPeriod(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRoomNotFound
		}
		s.logger.Error("查询房间失败", zap.Error(err))
		return false, err
	}
	occupied, err := s.repo.Assignment.CountActiveOverlapping(ctx, roomID, start, end)
	if err != nil {
		s.logger.Error("统计房间占用失败", zap.Error(err))
		return false, err
	}
	return occupied >= int64(room.Capacity()), nil
}

func (s *allocationService) GetApplication(ctx context.Context, id string) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponse(app), nil
}

func (s *allocationService) ListApplications(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error) {
	apps, total, err := s.repo.Application.List(ctx, &repository.ApplicationFilter{
		SemesterID: req.SemesterID,
		RoomType:   req.RoomType,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toApplicationResponses(apps), total, nil
}

func (s *allocationService) ListMyApplications(ctx context.Context, studentID string) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生申请失败", zap.Error(err))
		return nil, err
	}
	return toApplicationResponses(apps), nil
}

func (s *allocationService) ListAssignments(ctx context.Context, status string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.List(ctx, status)
	if err != nil {
		s.logger.Error("查询入住分配失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(assignments), nil
}

func (s *allocationService) ListMyAssignments(ctx context.Context, studentID string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生入住分配失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponses(assignments), nil
}

// ────────────────────── 内部辅助 ──────────────────────

// remainingQuota 按学生数计的剩余配额，小于 0 时夹为 0
func (s *allocationService) remainingQuota(ctx context.Context, r *repository.Repository, semester *model.Semester, roomType string) (int, error) {
	approved, err := r.Application.CountApproved(ctx, semester.SemesterID, roomType)
	if err != nil {
		s.logger.Error("统计已批准申请失败", zap.Error(err))
		return 0, err
	}
	remaining := semester.StudentQuota(roomType) - int(approved)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// availableCapacity 指定房型在 [start, end) 内的空余席位数。
// 双人间按席位粒度统计：房内两个床位可由两名学生同时占用。
func (s *allocationService) availableCapacity(ctx context.Context, r *repository.Repository, roomType string, start, end time.Time) (int, error) {
	rooms, err := r.Room.ListUsableByType(ctx, roomType)
	if err != nil {
		s.logger.Error("查询可用房间失败", zap.Error(err))
		return 0, err
	}

	total := 0
	for i := range rooms {
		room := &rooms[i]
		occupied, err := r.Assignment.CountActiveOverlapping(ctx, room.RoomID, start, end)
		if err != nil {
			s.logger.Error("统计房间占用失败", zap.Error(err))
			return 0, err
		}
		free := room.Capacity() - int(occupied)
		if free > 0 {
			total += free
		}
	}
	return total, nil
}

// autoReject 将申请置为系统自动拒绝，写通知并登记裁决事件
func (s *allocationService) autoReject(ctx context.Context, r *repository.Repository, app *model.Application, reason string, events *[]*queue.ApplicationDecidedEvent) error {
	app.Status = model.ApplicationStatusRejected
	app.IsAutoRejected = true
	app.RejectionReason = &reason
	if err := r.Application.Update(ctx, app); err != nil {
		s.logger.Error("保存自动拒绝状态失败", zap.Error(err))
		return err
	}
	if err := s.notifyDecision(ctx, r, app, model.NotificationTypeAutoRejected); err != nil {
		return err
	}
	*events = append(*events, decidedEvent(app))
	return nil
}

// notifyDecision 写裁决站内通知
func (s *allocationService) notifyDecision(ctx context.Context, r *repository.Repository, app *model.Application, notificationType string) error {
	var title, content string
	switch notificationType {
	case model.NotificationTypeApproved:
		title = "住宿申请已批准"
		content = "您的住宿申请已批准，请等待宿管分配房间。"
	case model.NotificationTypeReinstated:
		title = "住宿申请已恢复排队"
		content = "有名额释放，您之前被自动拒绝的住宿申请已恢复为待处理。"
	case model.NotificationTypeAutoRejected:
		title = "住宿申请未通过"
		content = "很抱歉，您的住宿申请因名额或房源不足被系统拒绝。"
		if app.RejectionReason != nil {
			content = fmt.Sprintf("%s（原因：%s）", content, *app.RejectionReason)
		}
	default:
		title = "住宿申请已拒绝"
		content = "很抱歉，您的住宿申请已被拒绝。"
		if app.RejectionReason != nil {
			content = fmt.Sprintf("%s（原因：%s）", content, *app.RejectionReason)
		}
	}

	relatedType := "application"
	notification := &model.Notification{
		UserID:      app.StudentID,
		Type:        notificationType,
		Title:       title,
		Content:     content,
		RelatedType: &relatedType,
		RelatedID:   &app.ApplicationID,
	}
	if err := r.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("写入通知失败", zap.Error(err))
		return err
	}
	return nil
}

// publishDecisions 事务提交后尽力投递裁决事件
func (s *allocationService) publishDecisions(ctx context.Context, events []*queue.ApplicationDecidedEvent) {
	for _, e := range events {
		s.publisher.PublishApplicationDecided(ctx, e)
	}
}

func decidedEvent(app *model.Application) *queue.ApplicationDecidedEvent {
	e := &queue.ApplicationDecidedEvent{
		ApplicationID: app.ApplicationID,
		StudentID:     app.StudentID,
		SemesterID:    app.SemesterID,
		RoomType:      app.RoomType,
		Status:        app.Status,
		AutoRejected:  app.IsAutoRejected,
		DecidedAt:     time.Now(),
	}
	if app.RejectionReason != nil {
		e.Reason = *app.RejectionReason
	}
	return e
}

// recomputeRoomStatus 按当前时点的占用数重算房间聚合状态（available/occupied）。
// 显式幂等函数，分配相关的每次写操作之后调用；维修状态由员工手工设置，不参与重算。
func recomputeRoomStatus(ctx context.Context, r *repository.Repository, room *model.Room) error {
	if room.Status == model.RoomStatusMaintenance {
		return nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	occupied, err := r.Assignment.CountActiveOverlapping(ctx, room.RoomID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	status := model.RoomStatusAvailable
	if occupied >= int64(room.Capacity()) {
		status = model.RoomStatusOccupied
	}
	if status == room.Status {
		return nil
	}
	room.Status = status
	return r.Room.UpdateStatus(ctx, room.RoomID, status)
}

// ────────────────────── 响应转换 ──────────────────────

func toApplicationResponse(app *model.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:             app.ApplicationID,
		StudentID:      app.StudentID,
		SemesterID:     app.SemesterID,
		RoomType:       app.RoomType,
		Status:         app.Status,
		StartDate:      app.StartDate.Format(dateLayout),
		EndDate:        app.EndDate.Format(dateLayout),
		IsAutoRejected: app.IsAutoRejected,
		DateApplied:    app.DateApplied.Format(time.RFC3339),
	}
	if app.RejectionReason != nil {
		resp.RejectionReason = *app.RejectionReason
	}
	if app.Student != nil {
		resp.StudentName = app.Student.Name
	}
	if app.Semester != nil {
		resp.SemesterName = app.Semester.Name
	}
	return resp
}

func toApplicationResponses(apps []model.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, *toApplicationResponse(&apps[i]))
	}
	return out
}

func toAssignmentResponse(a *model.RoomAssignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:            a.AssignmentID,
		StudentID:     a.StudentID,
		RoomID:        a.RoomID,
		ApplicationID: a.ApplicationID,
		StartDate:     a.StartDate.Format(dateLayout),
		EndDate:       a.EndDate.Format(dateLayout),
		Status:        a.Status,
		PaymentStatus: a.PaymentStatus,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	if a.Student != nil {
		resp.StudentName = a.Student.Name
	}
	if a.Room != nil {
		resp.RoomNumber = a.Room.RoomNumber
	}
	return resp
}

func toAssignmentResponses(assignments []model.RoomAssignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, *toAssignmentResponse(&assignments[i]))
	}
	return out
}
