package driver

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/psinc/psinc-go/pkg/driver/mocks"
)

func intPtr(v int) *int { return &v }

func TestNewFeatureValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  FeatureConfig
	}{
		{"zero bits", FeatureConfig{Name: "a", Bits: 0}},
		{"too many bits", FeatureConfig{Name: "a", Bits: 17}},
		{"overflowing offset", FeatureConfig{Name: "a", Bits: 4, Offset: 13}},
		{"negative offset", FeatureConfig{Name: "a", Bits: 4, Offset: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFeature(tt.cfg, NewRegister(nil, 0, 2))
			var cerr *ConfigError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestFeatureDerivedLimits(t *testing.T) {
	r := NewRegister(nil, 0x35, 2)

	f, err := NewFeature(FeatureConfig{Name: "Gain", Bits: 7, Min: 16, Max: intPtr(64)}, r)
	require.NoError(t, err)
	assert.Equal(t, 64, f.Maximum())
	assert.Equal(t, uint16(0x7f), f.Mask())

	f, err = NewFeature(FeatureConfig{Name: "LineLength", Bits: 16}, r)
	require.NoError(t, err)
	assert.Equal(t, 0xffff, f.Maximum(), "missing max selects the field range")

	f, err = NewFeature(FeatureConfig{Name: "Version", Bits: 8, Max: intPtr(3), ReadOnly: true}, r)
	require.NoError(t, err)
	assert.Equal(t, 0xff, f.Maximum(), "read-only features span the field")
	assert.True(t, f.ReadOnly())

	f, err = NewFeature(FeatureConfig{Name: "Flip", Bits: 1, Offset: 5}, r)
	require.NoError(t, err)
	assert.True(t, f.Flag())
	assert.Equal(t, uint16(0x20), f.Mask())
	assert.Equal(t, 5, f.Offset())
	assert.Equal(t, 1, f.Bits())
}

func TestFeatureValue(t *testing.T) {
	r := NewRegister(nil, 0x0d, 2)
	r.Initialise(0, 0xffff, 0x0335)

	f, err := NewFeature(FeatureConfig{Name: "Mid", Bits: 4, Offset: 4}, r)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Value())
	assert.Equal(t, "Mid=3", f.String())
	assert.Same(t, r, f.Register())
}

func TestFeatureSetMergesField(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	r := NewRegister(tr, 0x0d, 2)
	r.Initialise(0, 0xffff, 0x0305)

	f, err := NewFeature(FeatureConfig{Name: "Mid", Bits: 4, Offset: 4, Max: intPtr(12)}, r)
	require.NoError(t, err)

	tr.EXPECT().Command([]byte{0x10, 0x0d, 0x00, 0xa5, 0x03}, []byte(nil)).Return(nil).Once()
	assert.True(t, f.Set(10))
	assert.Equal(t, 10, f.Value())
	assert.Equal(t, uint16(0x03a5), r.Value())
}

func TestFeatureSetConcurrentFieldsOfOneRegister(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Command(mock.Anything, []byte(nil)).Return(nil)

	r := NewRegister(tr, 0x0d, 2)
	low, err := NewFeature(FeatureConfig{Name: "Low", Bits: 4}, r)
	require.NoError(t, err)
	high, err := NewFeature(FeatureConfig{Name: "High", Bits: 4, Offset: 4}, r)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		r.Initialise(0, 0xffff, 0)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			low.Set(5)
		}()
		go func() {
			defer wg.Done()
			high.Set(9)
		}()
		wg.Wait()

		require.Equal(t, uint16(0x95), r.Value(), "iteration %d", i)
	}
}

func TestFeatureSetRejects(t *testing.T) {
	// No transport expectations: any write fails the test.
	tr := mocks.NewMockTransport(t)
	r := NewRegister(tr, 0x35, 2)

	f, err := NewFeature(FeatureConfig{Name: "Gain", Bits: 7, Min: 16, Max: intPtr(64), Invalid: []int{20, 21, 22}}, r)
	require.NoError(t, err)
	ro, err := NewFeature(FeatureConfig{Name: "Version", Bits: 8, ReadOnly: true}, r)
	require.NoError(t, err)

	tests := []struct {
		name string
		f    *Feature
		v    int
	}{
		{"below min", f, 15},
		{"above max", f, 65},
		{"invalid", f, 21},
		{"read only", ro, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.f.Accepts(tt.v))
			assert.False(t, tt.f.Set(tt.v))
		})
	}
	assert.Equal(t, uint16(0), r.Value())
}

func TestFeatureSetFlag(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	r := NewRegister(tr, 0xaf, 2)

	f, err := NewFeature(FeatureConfig{Name: "AutoExposure", Bits: 1, Offset: 0}, r)
	require.NoError(t, err)

	tr.EXPECT().Command([]byte{0x11, 0xaf, 0x00, 0x00, 0x01}, []byte(nil)).Return(nil).Once()
	assert.True(t, f.Set(1))
	assert.Equal(t, 1, f.Value())
}

func TestFeatureSetReportsWriteFailure(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	r := NewRegister(tr, 0x35, 2)
	f, err := NewFeature(FeatureConfig{Name: "Gain", Bits: 7}, r)
	require.NoError(t, err)

	tr.EXPECT().Command(mock.Anything, []byte(nil)).Return(errors.New("timeout")).Once()
	assert.False(t, f.Set(3))
}

func TestFeatureReset(t *testing.T) {
	tr := mocks.NewMockTransport(t)
	r := NewRegister(tr, 0x35, 2)
	f, err := NewFeature(FeatureConfig{Name: "Gain", Bits: 7, Min: 16, Max: intPtr(64), Default: 16}, r)
	require.NoError(t, err)

	tr.EXPECT().Command([]byte{0x10, 0x35, 0x00, 0x10, 0x00}, []byte(nil)).Return(nil).Once()
	assert.True(t, f.Reset())
	assert.Equal(t, 16, f.Value())
}

func TestFeatureInvalidList(t *testing.T) {
	f, err := NewFeature(FeatureConfig{Name: "a", Bits: 8, Invalid: []int{9, 3, 3, 5}}, NewRegister(nil, 0, 2))
	require.NoError(t, err)

	assert.Equal(t, []int{3, 5, 9}, f.Invalid())
	assert.True(t, f.IsInvalid(5))
	assert.False(t, f.IsInvalid(4))

	// The returned slice is a copy.
	f.Invalid()[0] = 100
	assert.True(t, f.IsInvalid(3))
}
