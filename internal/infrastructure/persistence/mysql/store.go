package mysql

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
	"github.com/xiebiao/novelsite/pkg/metrics"
	"github.com/xiebiao/novelsite/pkg/tracing"
)

const tracerName = "novelsite/store"

// store 参数化查询执行器(MySQL)
// 设计说明:
// 1. 实现domain/novel/repository.go定义的Store接口
// 2. SQL模板和参数由domain层给出，这里只负责执行和扫描
// 3. 参数一律交给驱动绑定，不做字符串拼接
// 4. 失败时记录完整上下文，返回数据库错误(50001)，由上层决定是否重试
type store struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewStore 创建内容存储
func NewStore(db *gorm.DB, logger logrus.FieldLogger) novel.Store {
	return &store{db: db, logger: logger}
}

// Query 执行查询，dest为切片指针或标量指针
func (s *store) Query(ctx context.Context, dest any, sql string, params ...any) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store.Query")
	defer span.End()
	span.SetAttributes(attribute.String("db.statement", sql), attribute.Int("db.params", len(params)))

	if err := s.db.WithContext(ctx).Raw(sql, params...).Scan(dest).Error; err != nil {
		tracing.RecordError(span, err)
		return s.fail(err, sql, params, "数据库查询失败")
	}
	return nil
}

// Exec 执行写语句
func (s *store) Exec(ctx context.Context, sql string, params ...any) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "store.Exec")
	defer span.End()
	span.SetAttributes(attribute.String("db.statement", sql), attribute.Int("db.params", len(params)))

	result := s.db.WithContext(ctx).Exec(sql, params...)
	if result.Error != nil {
		tracing.RecordError(span, result.Error)
		return 0, s.fail(result.Error, sql, params, "数据库写入失败")
	}
	return result.RowsAffected, nil
}

func (s *store) fail(err error, sql string, params []any, message string) error {
	metrics.IncCounter(metrics.StoreQueryErrorsTotal)
	s.logger.WithError(err).WithFields(logrus.Fields{
		"sql":    sql,
		"params": params,
	}).Error(message)
	return apperrors.WithCode(apperrors.ErrCodeDatabaseError, message, err)
}
