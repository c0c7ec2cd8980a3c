// Package identity 内部ID与对外ID之间的可逆混淆
//
// 同一个库被多个站点共享时，每个站点通过不同的混淆参数对外暴露不同的ID，
// 不需要映射表，正反两个方向都是纯函数。
package identity

import (
	"errors"
	"strings"
)

// ErrInvalidID 对外ID无法还原为合法的内部ID
var ErrInvalidID = errors.New("identity: invalid identifier")

// Operator 混淆运算
type Operator int

const (
	OpXor Operator = iota
	OpAdd
	OpMultiply
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMultiply:
		return "multiply"
	default:
		return "xor"
	}
}

// ParseOperator 解析配置中的混淆算法
// "+"/"add" 为加法，"*"/"multiply" 为乘法，其余一律按异或处理
func ParseOperator(s string) Operator {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add":
		return OpAdd
	case "*", "multiply", "mul":
		return OpMultiply
	default:
		return OpXor
	}
}

// Mapper 值类型，可在任意goroutine间共享
type Mapper struct {
	enabled bool
	op      Operator
	value   uint64
}

// NewMapper 创建映射器；enabled为false时两个方向都是恒等映射
func NewMapper(enabled bool, op Operator, value uint64) Mapper {
	return Mapper{enabled: enabled, op: op, value: value}
}

// Enabled 是否开启了混淆
func (m Mapper) Enabled() bool {
	return m.enabled
}

// ToPublic 内部ID转对外ID
func (m Mapper) ToPublic(id uint64) uint64 {
	if !m.enabled {
		return id
	}
	switch m.op {
	case OpAdd:
		return id + m.value
	case OpMultiply:
		return id * m.value
	default:
		return id ^ m.value
	}
}

// ToInternal 对外ID还原为内部ID
//
// 内部ID从1开始，还原结果为0视为非法。
// 乘法的逆运算是整除：对外ID不是混淆值的整数倍时结果不可逆，这里不做校验。
func (m Mapper) ToInternal(id uint64) (uint64, error) {
	internal := id
	if m.enabled {
		switch m.op {
		case OpAdd:
			if id < m.value {
				return 0, ErrInvalidID
			}
			internal = id - m.value
		case OpMultiply:
			if m.value == 0 {
				return 0, ErrInvalidID
			}
			internal = id / m.value
		default:
			internal = id ^ m.value
		}
	}
	if internal == 0 {
		return 0, ErrInvalidID
	}
	return internal, nil
}
