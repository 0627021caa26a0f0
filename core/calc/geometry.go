// Package calc - shared fence geometry
package calc

import (
	"math"

	"fence-bom/core/types"
)

// SectionCount returns the number of sections between posts:
// ceil(net_length / effective post spacing).
func SectionCount(ctx *types.CalculationContext) int {
	spacing := ctx.PostSpacing()
	if spacing <= 0 || ctx.Input.NetLength <= 0 {
		return 0
	}
	return int(math.Ceil(ctx.Input.NetLength / spacing))
}

// PostCount returns the number of posts for the run: one more than the
// section count, plus extra corner/end posts for additional straight-line
// segments beyond two. Labor quantity formulas delegate here so labor and
// materials never disagree on post count.
func PostCount(ctx *types.CalculationContext) int {
	posts := SectionCount(ctx) + 1
	if ctx.Input.Lines > 2 {
		posts += (ctx.Input.Lines - 2 + 1) / 2
	}
	return posts
}
