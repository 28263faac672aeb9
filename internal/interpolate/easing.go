package interpolate

import (
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// presets maps lower-cased preset names to easing functions. The short
// names are the ones the editor offers; the rest follow the Penner names.
var presets = map[string]func(float64) float64{
	"linear":    ease.Linear,
	"easein":    ease.InCubic,
	"easeout":   ease.OutCubic,
	"easeinout": ease.InOutCubic,
	"bounce":    ease.OutBounce,
	"elastic":   ease.OutElastic,

	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"inquart":      ease.InQuart,
	"outquart":     ease.OutQuart,
	"inoutquart":   ease.InOutQuart,
	"inquint":      ease.InQuint,
	"outquint":     ease.OutQuint,
	"inoutquint":   ease.InOutQuint,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"inexpo":       ease.InExpo,
	"outexpo":      ease.OutExpo,
	"inoutexpo":    ease.InOutExpo,
	"incirc":       ease.InCirc,
	"outcirc":      ease.OutCirc,
	"inoutcirc":    ease.InOutCirc,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"inbounce":     ease.InBounce,
	"outbounce":    ease.OutBounce,
	"inoutbounce":  ease.InOutBounce,
	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
}

// Easing looks up a preset by name, ignoring case, dashes and underscores.
// An empty name and "linear" report false so plain linear segments never
// pass through a function call and stay exact.
func Easing(name string) (func(float64) float64, bool) {
	key := normalizeName(name)
	if key == "" || key == "linear" {
		return nil, false
	}
	fn, ok := presets[key]
	return fn, ok
}

// KnownEasing reports whether name is empty or a registered preset.
func KnownEasing(name string) bool {
	key := normalizeName(name)
	if key == "" {
		return true
	}
	_, ok := presets[key]
	return ok
}

// EasingNames lists the registered preset keys.
func EasingNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}
