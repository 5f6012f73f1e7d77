package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-portal/backend/internal/model"
)

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	// GetByIDForUpdate 行级锁读取房间，用于串行化同一房间的容量判定。
	// 仅在 Repository.Transaction 内调用才有意义。
	GetByIDForUpdate(ctx context.Context, id string) (*model.Room, error)
	GetByNumber(ctx context.Context, roomNumber string) (*model.Room, error)
	List(ctx context.Context, roomType string) ([]model.Room, error)
	// ListUsableByType 返回指定房型中非维修状态的房间（参与可用容量统计）
	ListUsableByType(ctx context.Context, roomType string) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByNumber(ctx context.Context, roomNumber string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_number = ?", roomNumber).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, roomType string) ([]model.Room, error) {
	q := r.db.WithContext(ctx).Order("room_number ASC")
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}
	var rooms []model.Room
	err := q.Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ListUsableByType(ctx context.Context, roomType string) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("room_type = ? AND status <> ?", roomType, model.RoomStatusMaintenance).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", id).
		Update("status", status).Error
}

func (r *roomRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
