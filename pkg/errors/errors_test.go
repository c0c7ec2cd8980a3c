package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "[40400] 资源不存在", ErrNotFound.Error())

	wrapped := Wrap(fmt.Errorf("conn refused"), "数据库错误")
	assert.Equal(t, "[50000] 数据库错误: conn refused", wrapped.Error())
}

func TestAppError_Is(t *testing.T) {
	notFound := New(ErrCodeNovelNotFound, "小说不存在")
	err := fmt.Errorf("查询失败: %w", notFound)

	assert.True(t, errors.Is(err, notFound))
	assert.False(t, errors.Is(err, ErrNotFound), "不同错误码不应相等")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"不存在映射404", New(ErrCodeChapterNotFound, "章节不存在"), http.StatusNotFound},
		{"参数错误映射400", ErrInvalidParams, http.StatusBadRequest},
		{"内部错误映射500", ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestGetAppError(t *testing.T) {
	raw := errors.New("boom")
	appErr := GetAppError(raw)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, raw)

	assert.Same(t, ErrNotFound, GetAppError(ErrNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", New(ErrCodePageOutOfRange, "页码超出范围"))))
	assert.False(t, IsNotFound(ErrInternal))
	assert.False(t, IsNotFound(errors.New("plain")))
}
