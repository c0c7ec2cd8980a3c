package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/novelsite/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body, c
}

func TestSuccess(t *testing.T) {
	w, body, _ := run(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "success", body.Message)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, body.Data)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
		logged     bool
	}{
		{"不存在", apperrors.New(apperrors.ErrCodeNovelNotFound, "小说不存在"), http.StatusNotFound, 40410, false},
		{"参数错误", apperrors.ErrInvalidParams, http.StatusBadRequest, 40900, false},
		{"关键词过短", apperrors.New(apperrors.ErrCodeKeywordTooShort, "搜索关键词过短"), http.StatusBadRequest, 40911, false},
		{"数据库错误", apperrors.WithCode(apperrors.ErrCodeDatabaseError, "数据库查询失败", errors.New("conn reset")), http.StatusInternalServerError, 50001, true},
		{"普通error按内部错误处理", errors.New("boom"), http.StatusInternalServerError, 50000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body, c := run(t, func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Nil(t, body.Data)
			assert.Equal(t, tt.logged, len(c.Errors) > 0)
		})
	}
}

func TestErrorWithCode(t *testing.T) {
	w, body, _ := run(t, func(c *gin.Context) { ErrorWithCode(c, 40900, "参数错误: id") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "参数错误: id", body.Message)
}
