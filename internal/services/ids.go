package services

import "github.com/skyreserve/airline-backend/pkg/idgen"

// uniqueID draws identifiers until one misses the taken set. With five
// random digits collisions are rare, so the loop almost always runs once.
func uniqueID(prefix string, taken func(id string) bool) string {
	for {
		id := idgen.New(prefix)
		if !taken(id) {
			return id
		}
	}
}
