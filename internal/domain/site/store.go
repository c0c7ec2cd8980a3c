package site

import "sync/atomic"

// Store 持有当前生效的配置快照
//
// 读者通过Current()无锁读取；写者用Publish()整体替换。
// 拿到的*Config只读，禁止原地修改。
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore 使用初始配置创建Store
func NewStore(initial *Config) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current 当前配置快照
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Publish 发布新的配置快照
func (s *Store) Publish(c *Config) {
	s.current.Store(c)
}
