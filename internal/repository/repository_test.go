package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "hostel-portal/backend/pkg/errors"
)

func TestTranslateConflict(t *testing.T) {
	if translateConflict(nil) != nil {
		t.Errorf("nil 应原样返回 nil")
	}

	// 串行化失败与死锁翻译为写冲突
	for _, code := range []string{"40001", "40P01"} {
		err := fmt.Errorf("tx failed: %w", &pgconn.PgError{Code: code})
		if !errors.Is(translateConflict(err), apperrors.ErrWriteConflict) {
			t.Errorf("SQLSTATE %s 应翻译为 ErrWriteConflict", code)
		}
	}

	// 其他数据库错误不做翻译
	other := &pgconn.PgError{Code: "23503"}
	if !errors.Is(translateConflict(other), other) {
		t.Errorf("无关错误应原样上抛")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert failed: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_applications_student_active",
	})

	if !IsUniqueViolation(dup, "idx_applications_student_active") {
		t.Errorf("指定约束上的 23505 应命中")
	}
	if !IsUniqueViolation(dup, "") {
		t.Errorf("constraint 为空应匹配任意唯一性冲突")
	}
	if IsUniqueViolation(dup, "idx_users_email") {
		t.Errorf("不同约束不应命中")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "40001"}, "") {
		t.Errorf("非 23505 不应命中")
	}
	if IsUniqueViolation(errors.New("plain error"), "") {
		t.Errorf("非 PgError 不应命中")
	}
}
