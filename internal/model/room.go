package model

// 房型
const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
)

// 房间状态
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// Room 房间表 — 对应 rooms
type Room struct {
	RoomID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	RoomNumber  string `gorm:"type:varchar(20);not null"                      json:"room_number"`
	RoomType    string `gorm:"type:varchar(10);not null"                      json:"room_type"` // single | double
	Status      string `gorm:"type:varchar(20);not null;default:'available'"  json:"status"`    // available | occupied | maintenance
	Floor       string `gorm:"type:varchar(10)"                               json:"floor,omitempty"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Capacity 房间容量由房型推导：single=1，double=2
func (r *Room) Capacity() int { return RoomCapacity(r.RoomType) }

// RoomCapacity 按房型返回可住学生数
func RoomCapacity(roomType string) int {
	if roomType == RoomTypeDouble {
		return 2
	}
	return 1
}
