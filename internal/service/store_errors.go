package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgCodeUniqueViolation = "23505"
	pgCodeQueryCanceled   = "57014"
	pgClassConnection     = "08"
)

// withStoreTimeout 为单次存储调用设置超时
func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// wrapStoreError 将底层存储错误归类为 StoreTimeout 或 StoreFailure
func wrapStoreError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if isStoreTimeout(ctx, err) {
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: connection: %v", ErrStoreFailure, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}

func isStoreTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeQueryCanceled {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	return ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// isConnectionError 判断是否为连接类错误（SQLSTATE 08xxx）
func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgClassConnection)
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

// isUniqueViolation 唯一约束冲突，兼容 postgres 与 sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
