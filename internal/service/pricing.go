package service

import (
	"time"

	"hostel-portal/backend/config"
	"hostel-portal/backend/internal/model"
)

// PriceTable 住宿日租价目表（学生类型 × 房型），从配置加载后只读。
// 价格计算为纯函数，不触达任何仓储。
type PriceTable struct {
	localSingle float64
	localDouble float64
	intlSingle  float64
	intlDouble  float64
}

// NewPriceTable 从配置构建价目表
func NewPriceTable(cfg *config.PricingConfig) *PriceTable {
	return &PriceTable{
		localSingle: cfg.LocalSingle,
		localDouble: cfg.LocalDouble,
		intlSingle:  cfg.InternationalSingle,
		intlDouble:  cfg.InternationalDouble,
	}
}

// DailyRate 返回指定学生类型与房型的日租价
func (t *PriceTable) DailyRate(studentType, roomType string) float64 {
	if studentType == model.StudentTypeInternational {
		if roomType == model.RoomTypeDouble {
			return t.intlDouble
		}
		return t.intlSingle
	}
	if roomType == model.RoomTypeDouble {
		return t.localDouble
	}
	return t.localSingle
}

// TotalPrice 计算住宿总价：日租价 × 含首尾的天数
func (t *PriceTable) TotalPrice(studentType, roomType string, start, end time.Time) float64 {
	return t.DailyRate(studentType, roomType) * float64(DurationDays(start, end))
}

// DurationDays 计算含首尾两端的住宿天数；start == end 记 1 天
func DurationDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
