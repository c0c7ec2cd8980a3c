package novel

import (
	"context"
)

// Store 参数化查询执行器（依赖倒置）
// 设计说明:
// 1. 表结构对领域层不可见，领域层只给出SQL模板和有序参数
// 2. 用户可控的输入（关键词、ID）一律走占位符，不拼接进SQL
// 3. 由infrastructure层的mysql.Store实现，测试中可替换为内存实现
type Store interface {
	// Query 执行查询并把结果扫描进dest（切片指针或标量指针）
	Query(ctx context.Context, dest any, sql string, params ...any) error

	// Exec 执行写语句，返回影响行数
	Exec(ctx context.Context, sql string, params ...any) (int64, error)
}

// TextSource 章节正文来源（本地文件或远程地址）
type TextSource interface {
	// Read 读取正文，不存在时返回空字符串
	Read(ctx context.Context, location string) (string, error)
}
