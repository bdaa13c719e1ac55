package buildoutput

import "github.com/compozy/deployconf/engine/core"

// BaselineRegion is assumed for functions that declare no regions.
const BaselineRegion = "iad1"

var runtimes = map[string]core.Runtime{
	"nodejs18.x": core.RuntimeNode18,
	"nodejs20.x": core.RuntimeNode20,
	"nodejs22.x": core.RuntimeNode22,
	"bun1.x":     core.RuntimeBun1,
	"python3.12": core.RuntimePython312,
}

var regions = map[string]core.Region{
	"arn1": core.RegionEUNorth1,
	"bom1": core.RegionAPSouth1,
	"cdg1": core.RegionEUWest3,
	"cle1": core.RegionUSEast2,
	"cpt1": core.RegionAFSouth1,
	"dub1": core.RegionEUWest1,
	"fra1": core.RegionEUCentral1,
	"gru1": core.RegionSAEast1,
	"hkg1": core.RegionAPEast1,
	"hnd1": core.RegionAPNortheast1,
	"iad1": core.RegionUSEast1,
	"icn1": core.RegionAPNortheast2,
	"kix1": core.RegionAPNortheast3,
	"lhr1": core.RegionEUWest2,
	"pdx1": core.RegionUSWest2,
	"sfo1": core.RegionUSWest1,
	"sin1": core.RegionAPSoutheast1,
	"syd1": core.RegionAPSoutheast2,
}

// TranslateRuntime maps a build-output runtime identifier to a supported
// runtime. ok is false when there is no mapping.
func TranslateRuntime(runtime string) (core.Runtime, bool) {
	r, ok := runtimes[runtime]
	return r, ok
}

// TranslateRegion maps a build-output region code to a region.
func TranslateRegion(code string) (core.Region, bool) {
	r, ok := regions[code]
	return r, ok
}
