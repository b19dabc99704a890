package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToneMapping(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ToneMapping
		wantErr bool
	}{
		{"canonical", "ACESFilmic", ToneMappingACESFilmic, false},
		{"case-insensitive", "reinhard", ToneMappingReinhard, false},
		{"none", "None", ToneMappingNone, false},
		{"unknown", "Bogus", ToneMappingNone, true},
		{"empty", "", ToneMappingNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseToneMapping(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetToneMappingByNameRejectsUnknown(t *testing.T) {
	c := NewConfig(WithToneMapping(ToneMappingCineon))

	err := c.SetToneMappingByName("Bogus")
	assert.Error(t, err)
	assert.Equal(t, ToneMappingCineon, c.ToneMapping())

	require.NoError(t, c.SetToneMappingByName("Linear"))
	assert.Equal(t, ToneMappingLinear, c.ToneMapping())
}

func TestConfigChangeCallback(t *testing.T) {
	c := NewConfig()

	var got []Snapshot
	c.OnChange(func(s Snapshot) { got = append(got, s) })

	c.SetExposure(1.4)
	c.SetBloomStrength(0.8)
	c.SetVignetteStrength(0.3)
	c.SetOutlineStrength(2.0)

	require.Len(t, got, 4)
	last := got[3]
	assert.Equal(t, float32(1.4), last.Exposure)
	assert.Equal(t, float32(0.8), last.BloomStrength)
	assert.Equal(t, float32(0.3), last.VignetteStrength)
	assert.Equal(t, float32(2.0), last.OutlineStrength)
	assert.Equal(t, "ACESFilmic", last.ToneMappingName)

	// A rejected tone-mapping request does not notify.
	_ = c.SetToneMappingByName("Bogus")
	assert.Len(t, got, 4)
}

func TestToneMappingNamesOrder(t *testing.T) {
	assert.Equal(t, []string{"None", "Linear", "Reinhard", "Cineon", "ACESFilmic"}, ToneMappingNames())
}
