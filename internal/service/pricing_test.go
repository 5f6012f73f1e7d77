package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hostel-portal/backend/config"
	"hostel-portal/backend/internal/model"
)

func testPriceTable() *PriceTable {
	return NewPriceTable(&config.PricingConfig{
		LocalSingle:         20,
		LocalDouble:         10,
		InternationalSingle: 40,
		InternationalDouble: 25,
	})
}

// TestDefaultPricing 用缺省配置构建价目表，钉死出厂日租价
func TestDefaultPricing(t *testing.T) {
	// 配置文件只给必填的 jwt_secret，价目全部落到默认值
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: pricing-test-secret-01\n"), 0o600); err != nil {
		t.Fatalf("写测试配置失败: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("加载缺省配置失败: %v", err)
	}
	prices := NewPriceTable(&cfg.Pricing)

	tests := []struct {
		studentType string
		roomType    string
		want        float64
	}{
		{model.StudentTypeLocal, model.RoomTypeSingle, 15},
		{model.StudentTypeLocal, model.RoomTypeDouble, 10},
		{model.StudentTypeInternational, model.RoomTypeSingle, 25},
		{model.StudentTypeInternational, model.RoomTypeDouble, 18},
	}
	for _, tt := range tests {
		if got := prices.DailyRate(tt.studentType, tt.roomType); got != tt.want {
			t.Errorf("缺省 DailyRate(%s, %s) 期望 %.2f，实际=%.2f", tt.studentType, tt.roomType, tt.want, got)
		}
	}

	// 本地生单人间住 10 天（含首尾）：15 × 10 = 150
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	if got := prices.TotalPrice(model.StudentTypeLocal, model.RoomTypeSingle, start, end); got != 150 {
		t.Errorf("缺省价目 10 天总价期望 150，实际=%.2f", got)
	}
}

func TestDailyRate(t *testing.T) {
	prices := testPriceTable()

	tests := []struct {
		studentType string
		roomType    string
		want        float64
	}{
		{model.StudentTypeLocal, model.RoomTypeSingle, 20},
		{model.StudentTypeLocal, model.RoomTypeDouble, 10},
		{model.StudentTypeInternational, model.RoomTypeSingle, 40},
		{model.StudentTypeInternational, model.RoomTypeDouble, 25},
		// 未知学生类型按本地生档位
		{"unknown", model.RoomTypeSingle, 20},
	}
	for _, tt := range tests {
		if got := prices.DailyRate(tt.studentType, tt.roomType); got != tt.want {
			t.Errorf("DailyRate(%s, %s) 期望 %.2f，实际=%.2f", tt.studentType, tt.roomType, tt.want, got)
		}
	}
}

func TestDurationDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	// 天数含首尾两端
	if got := DurationDays(day(1), day(15)); got != 15 {
		t.Errorf("9/1~9/15 期望 15 天，实际=%d", got)
	}
	// 当日入住当日退记 1 天
	if got := DurationDays(day(1), day(1)); got != 1 {
		t.Errorf("同日期望 1 天，实际=%d", got)
	}
	if got := DurationDays(day(1), day(2)); got != 2 {
		t.Errorf("9/1~9/2 期望 2 天，实际=%d", got)
	}
}

func TestTotalPrice(t *testing.T) {
	prices := testPriceTable()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	// 本地生双人间：10 × 15 天
	if got := prices.TotalPrice(model.StudentTypeLocal, model.RoomTypeDouble, start, end); got != 150 {
		t.Errorf("期望总价 150，实际=%.2f", got)
	}
	// 留学生单人间：40 × 15 天
	if got := prices.TotalPrice(model.StudentTypeInternational, model.RoomTypeSingle, start, end); got != 600 {
		t.Errorf("期望总价 600，实际=%.2f", got)
	}
	// 同日入住至少计 1 天
	if got := prices.TotalPrice(model.StudentTypeLocal, model.RoomTypeSingle, start, start); got != 20 {
		t.Errorf("同日期望总价 20，实际=%.2f", got)
	}
}
