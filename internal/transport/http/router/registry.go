package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Module mounts one service's routes on the root group.
type Module interface{ Mount(*gin.RouterGroup) }

// Optional: lower mounts first, default 100.
type prioritizer interface{ Priority() int }

func mountAll(g *gin.RouterGroup, mods []Module) {
	mods = append([]Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
