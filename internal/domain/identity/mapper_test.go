package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperator(t *testing.T) {
	assert.Equal(t, OpAdd, ParseOperator("+"))
	assert.Equal(t, OpAdd, ParseOperator("add"))
	assert.Equal(t, OpMultiply, ParseOperator("*"))
	assert.Equal(t, OpMultiply, ParseOperator(" Multiply "))
	assert.Equal(t, OpXor, ParseOperator("^"))
	assert.Equal(t, OpXor, ParseOperator(""))
}

func TestMapper_Disabled(t *testing.T) {
	m := NewMapper(false, OpAdd, 1000)

	assert.Equal(t, uint64(42), m.ToPublic(42))
	id, err := m.ToInternal(42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = m.ToInternal(0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMapper_RoundTrip(t *testing.T) {
	mappers := map[string]Mapper{
		"加法": NewMapper(true, OpAdd, 7000),
		"异或": NewMapper(true, OpXor, 0x5a5a),
	}
	for name, m := range mappers {
		t.Run(name, func(t *testing.T) {
			for _, id := range []uint64{1, 2, 999, 1000, 123456, 98765432} {
				got, err := m.ToInternal(m.ToPublic(id))
				require.NoError(t, err)
				assert.Equal(t, id, got, "往返后应得到原ID")
			}
		})
	}
}

func TestMapper_AddUnderflow(t *testing.T) {
	m := NewMapper(true, OpAdd, 100)

	_, err := m.ToInternal(99)
	assert.ErrorIs(t, err, ErrInvalidID, "小于混淆值应判为非法ID而不是溢出")

	_, err = m.ToInternal(100)
	assert.ErrorIs(t, err, ErrInvalidID, "还原为0同样非法")
}

func TestMapper_Multiply(t *testing.T) {
	m := NewMapper(true, OpMultiply, 3)

	t.Run("整数倍可逆", func(t *testing.T) {
		assert.Equal(t, uint64(30), m.ToPublic(10))
		got, err := m.ToInternal(30)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), got)
	})

	t.Run("非整数倍不可逆", func(t *testing.T) {
		// 31 / 3 = 10，再正向得到 30 != 31
		got, err := m.ToInternal(31)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), got)
		assert.NotEqual(t, uint64(31), m.ToPublic(got))
	})

	t.Run("混淆值为0", func(t *testing.T) {
		_, err := NewMapper(true, OpMultiply, 0).ToInternal(30)
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}
