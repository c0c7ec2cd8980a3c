package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
)

func setupStore(t *testing.T) (novel.Store, sqlmock.Sqlmock, *test.Hook) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	return NewStore(db, log), mock, hook
}

func TestStore_Query(t *testing.T) {
	ctx := context.Background()
	const sql = "SELECT articleid, articlename, author FROM jieqi_article_article WHERE articleid = ? LIMIT 1"

	t.Run("扫描到行切片", func(t *testing.T) {
		s, mock, _ := setupStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(uint64(12)).
			WillReturnRows(sqlmock.NewRows([]string{"articleid", "articlename", "author"}).
				AddRow(12, "斗破苍穹", "天蚕土豆"))

		var rows []novel.NovelRow
		require.NoError(t, s.Query(ctx, &rows, sql, uint64(12)))
		require.Len(t, rows, 1)
		assert.Equal(t, uint64(12), rows[0].ArticleID)
		assert.Equal(t, "斗破苍穹", rows[0].ArticleName)
		assert.Equal(t, "天蚕土豆", rows[0].Author)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("扫描到计数", func(t *testing.T) {
		s, mock, _ := setupStore(t)
		countSQL := "SELECT COUNT(*) AS cnt FROM jieqi_article_article WHERE sortid = ?"
		mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(57))

		var count int64
		require.NoError(t, s.Query(ctx, &count, countSQL, 3))
		assert.Equal(t, int64(57), count)
	})

	t.Run("没有数据返回空切片", func(t *testing.T) {
		s, mock, _ := setupStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"articleid", "articlename", "author"}))

		var rows []novel.NovelRow
		require.NoError(t, s.Query(ctx, &rows, sql, uint64(99)))
		assert.Empty(t, rows)
	})

	t.Run("查询失败返回数据库错误并记录日志", func(t *testing.T) {
		s, mock, hook := setupStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sql)).
			WithArgs(uint64(12)).
			WillReturnError(errors.New("connection reset"))

		var rows []novel.NovelRow
		err := s.Query(ctx, &rows, sql, uint64(12))
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeDatabaseError, appErr.Code)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, sql, hook.LastEntry().Data["sql"])
	})
}

func TestStore_Exec(t *testing.T) {
	ctx := context.Background()
	const sql = "INSERT INTO jieqi_article_langtail (sourceid, langname, uptime) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE uptime = VALUES(uptime)"

	t.Run("返回影响行数", func(t *testing.T) {
		s, mock, _ := setupStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sql)).
			WithArgs(uint64(12), "斗破苍穹txt下载", int64(1700000000)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		n, err := s.Exec(ctx, sql, uint64(12), "斗破苍穹txt下载", int64(1700000000))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("写入失败", func(t *testing.T) {
		s, mock, _ := setupStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sql)).WillReturnError(errors.New("deadlock"))

		_, err := s.Exec(ctx, sql, uint64(12), "x", int64(1))
		assert.Error(t, err)
	})
}
