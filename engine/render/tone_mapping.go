package render

import (
	"fmt"
	"strings"
)

// ToneMapping selects the operator that maps high-dynamic-range render output
// to the displayable color range.
type ToneMapping int

const (
	// ToneMappingNone passes colors through unmapped.
	ToneMappingNone ToneMapping = iota

	// ToneMappingLinear applies exposure scaling only.
	ToneMappingLinear

	// ToneMappingReinhard applies the classic Reinhard curve.
	ToneMappingReinhard

	// ToneMappingCineon applies a film-stock response curve.
	ToneMappingCineon

	// ToneMappingACESFilmic applies the ACES filmic reference curve.
	ToneMappingACESFilmic
)

var toneMappingNames = map[ToneMapping]string{
	ToneMappingNone:       "None",
	ToneMappingLinear:     "Linear",
	ToneMappingReinhard:   "Reinhard",
	ToneMappingCineon:     "Cineon",
	ToneMappingACESFilmic: "ACESFilmic",
}

// String returns the canonical name of the tone-mapping mode.
func (t ToneMapping) String() string {
	if name, ok := toneMappingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ToneMapping(%d)", int(t))
}

// ToneMappingNames returns the canonical mode names in enum order.
//
// Returns:
//   - []string: the known tone-mapping names
func ToneMappingNames() []string {
	names := make([]string, 0, len(toneMappingNames))
	for t := ToneMappingNone; t <= ToneMappingACESFilmic; t++ {
		names = append(names, toneMappingNames[t])
	}
	return names
}

// ParseToneMapping resolves a mode name to its enum value. Unknown names are
// rejected; callers keep their prior mode in that case.
//
// Parameters:
//   - name: the mode name, matched case-insensitively against canonical names
//
// Returns:
//   - ToneMapping: the parsed mode
//   - error: error if the name matches no known mode
func ParseToneMapping(name string) (ToneMapping, error) {
	for t, n := range toneMappingNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return ToneMappingNone, fmt.Errorf("unknown tone mapping %q (known: %v)", name, ToneMappingNames())
}
