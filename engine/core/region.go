package core

// Region is a deployment region identifier.
type Region string

// RegionGlobal is an input alias that expands to every known region.
const RegionGlobal Region = "global"

const (
	RegionUSEast1      Region = "us-east-1"
	RegionUSEast2      Region = "us-east-2"
	RegionUSWest1      Region = "us-west-1"
	RegionUSWest2      Region = "us-west-2"
	RegionCACentral1   Region = "ca-central-1"
	RegionSAEast1      Region = "sa-east-1"
	RegionEUWest1      Region = "eu-west-1"
	RegionEUWest2      Region = "eu-west-2"
	RegionEUWest3      Region = "eu-west-3"
	RegionEUCentral1   Region = "eu-central-1"
	RegionEUNorth1     Region = "eu-north-1"
	RegionAFSouth1     Region = "af-south-1"
	RegionAPSouth1     Region = "ap-south-1"
	RegionAPEast1      Region = "ap-east-1"
	RegionAPNortheast1 Region = "ap-northeast-1"
	RegionAPNortheast2 Region = "ap-northeast-2"
	RegionAPNortheast3 Region = "ap-northeast-3"
	RegionAPSoutheast1 Region = "ap-southeast-1"
	RegionAPSoutheast2 Region = "ap-southeast-2"
)

var knownRegions = []Region{
	RegionUSEast1,
	RegionUSEast2,
	RegionUSWest1,
	RegionUSWest2,
	RegionCACentral1,
	RegionSAEast1,
	RegionEUWest1,
	RegionEUWest2,
	RegionEUWest3,
	RegionEUCentral1,
	RegionEUNorth1,
	RegionAFSouth1,
	RegionAPSouth1,
	RegionAPEast1,
	RegionAPNortheast1,
	RegionAPNortheast2,
	RegionAPNortheast3,
	RegionAPSoutheast1,
	RegionAPSoutheast2,
}

// AllRegions returns every known region in a fixed order.
func AllRegions() []Region {
	out := make([]Region, len(knownRegions))
	copy(out, knownRegions)
	return out
}

func (r Region) IsValid() bool {
	for _, known := range knownRegions {
		if r == known {
			return true
		}
	}
	return false
}

func (r Region) String() string {
	return string(r)
}
