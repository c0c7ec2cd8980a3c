package cache

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// Kind 缓存资源类型，作为key前缀的一部分（不参与哈希）
type Kind string

const (
	KindRows         Kind = "rows"
	KindCount        Kind = "count"
	KindChapters     Kind = "chapters"
	KindLangTail     Kind = "langtail"
	KindLangTailRows Kind = "langtail-rows"
)

// DefaultNamespace 默认key命名空间
const DefaultNamespace = "novel"

// 字段分隔符与参数分隔符，SQL文本中不会出现
const (
	fieldSep = "\x1e"
	paramSep = "\x1f"
)

// QuerySpec 一次查询的身份：请求站点 + SQL模板 + 有序参数
type QuerySpec struct {
	Host   string
	SQL    string
	Params []any
}

// NewQuerySpec 创建查询身份
func NewQuerySpec(host, sql string, params ...any) QuerySpec {
	return QuerySpec{Host: host, SQL: sql, Params: params}
}

// Equal 三个部分都相同才相等
func (q QuerySpec) Equal(o QuerySpec) bool {
	return q.Host == o.Host && q.SQL == o.SQL && renderParams(q.Params) == renderParams(o.Params)
}

// KeyDeriver 从QuerySpec生成缓存key
//
// key格式：{namespace}:{kind}:{32位十六进制}
// 哈希种子包含站点，不同站点之间不会共享缓存行
type KeyDeriver struct {
	namespace string
}

// NewKeyDeriver 命名空间为空时使用DefaultNamespace
func NewKeyDeriver(namespace string) KeyDeriver {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return KeyDeriver{namespace: namespace}
}

// Derive 生成key，不做任何I/O，不会失败
func (d KeyDeriver) Derive(kind Kind, q QuerySpec) string {
	seed := q.Host + fieldSep + q.SQL + fieldSep + renderParams(q.Params)
	sum := xxh3.HashString128(seed).Bytes()
	return d.namespace + ":" + string(kind) + ":" + hex.EncodeToString(sum[:])
}

func renderParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = renderParam(p)
	}
	return strings.Join(parts, paramSep)
}

// renderParam 参数的稳定文本表示
//
// 整数统一为十进制（有无符号不区分），字符串带长度前缀原样输出
func renderParam(v any) string {
	switch p := v.(type) {
	case nil:
		return "nil"
	case string:
		return "s" + strconv.Itoa(len(p)) + ":" + p
	case []byte:
		return "b:" + hex.EncodeToString(p)
	case bool:
		return "t:" + strconv.FormatBool(p)
	case int:
		return "n:" + strconv.FormatInt(int64(p), 10)
	case int8:
		return "n:" + strconv.FormatInt(int64(p), 10)
	case int16:
		return "n:" + strconv.FormatInt(int64(p), 10)
	case int32:
		return "n:" + strconv.FormatInt(int64(p), 10)
	case int64:
		return "n:" + strconv.FormatInt(p, 10)
	case uint:
		return "n:" + strconv.FormatUint(uint64(p), 10)
	case uint8:
		return "n:" + strconv.FormatUint(uint64(p), 10)
	case uint16:
		return "n:" + strconv.FormatUint(uint64(p), 10)
	case uint32:
		return "n:" + strconv.FormatUint(uint64(p), 10)
	case uint64:
		return "n:" + strconv.FormatUint(p, 10)
	case float32:
		return "f:" + strconv.FormatFloat(float64(p), 'g', -1, 32)
	case float64:
		return "f:" + strconv.FormatFloat(p, 'g', -1, 64)
	case time.Time:
		return "d:" + p.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return "x:" + p.String()
	default:
		return fmt.Sprintf("%T:%v", p, p)
	}
}
