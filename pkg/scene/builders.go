package scene

import (
	"fmt"
	"sort"
)

// Builder populates s. motionT in [0, 1) positions moving geometry inside the
// motion-blur shutter interval and frame is the video frame number.
type Builder func(s *Scene, motionT float64, frame int) error

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type registered struct {
	info  SceneInfo
	build Builder
}

var builtins = map[string]registered{
	"nested-squares": {
		info: SceneInfo{
			Name:        "nested-squares",
			DisplayName: "Nested Squares",
			Description: "3×3 grid of nested squares with contribution modifiers and a glass center, lit by a blue circle",
		},
		build: BuildNestedSquares,
	},
	"prism": {
		info: SceneInfo{
			Name:        "prism",
			DisplayName: "Prism",
			Description: "Dispersive triangular prism splitting a narrow blackbody beam",
		},
		build: BuildPrism,
	},
	"single-emitter": {
		info: SceneInfo{
			Name:        "single-emitter",
			DisplayName: "Single Emitter",
			Description: "One beam emitter at the origin and one absorbing edge five units away",
		},
		build: BuildSingleEmitter,
	},
	"blackbody": {
		info: SceneInfo{
			Name:        "blackbody",
			DisplayName: "Blackbody Lens",
			Description: "Warm blackbody lamp focused through a glass lens inside a diffuse room",
		},
		build: BuildBlackbody,
	},
}

// Lookup returns the builder registered under name
func Lookup(name string) (Builder, error) {
	r, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return r.build, nil
}

// List returns every built-in scene sorted by display name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, r := range builtins {
		infos = append(infos, r.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].DisplayName < infos[j].DisplayName
	})
	return infos
}
