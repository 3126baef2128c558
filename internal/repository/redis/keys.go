package redis

import (
	"fmt"
	"strings"

	"github.com/kirinyoku/deskgo/internal/domain"
)

const ns = "deskgo:v1"

// keyPart keeps user-supplied names from introducing extra key segments.
func keyPart(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

func floorPrefix(building, office, floor string) string {
	return fmt.Sprintf("%s:floorplan:%s:%s:%s", ns, keyPart(building), keyPart(office), keyPart(floor))
}

// floorPlanPattern matches every cached plan key and nothing else.
func floorPlanPattern() string {
	return ns + ":floorplan:*:*:*:*"
}

func KeyFloorPlan(k domain.FloorKey) string {
	return floorPrefix(k.Building, k.Office, k.Floor) + ":" + keyPart(k.Date)
}

func KeySession(id string) string {
	return fmt.Sprintf("%s:session:%s", ns, id)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelFloorPlanChanged() string {
	return ns + ":floorplan:changed"
}

// KeyResourceFacet caches the distinct resource categories or locations.
func KeyResourceFacet(facet string) string {
	return fmt.Sprintf("%s:resources:%s", ns, keyPart(facet))
}
