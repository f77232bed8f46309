package ui

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// cn merges utility classes, letting later classes override conflicting
// earlier ones.
func cn(classes ...string) string {
	return twmerge.Merge(strings.Join(classes, " "))
}

// Base classes for the shared building blocks.
const (
	classButton     = "inline-flex items-center justify-center gap-2 rounded-md px-4 py-2 text-sm font-medium focus-visible:outline-none focus-visible:ring-2 disabled:pointer-events-none disabled:opacity-50"
	classContent    = "z-50 rounded-md border bg-popover p-4 text-popover-foreground shadow-md outline-none"
	classList       = "max-h-72 overflow-y-auto p-1"
	classItem       = "relative flex cursor-default select-none items-center rounded-sm px-2 py-1.5 text-sm outline-none data-[highlighted]:bg-accent data-[disabled]:pointer-events-none data-[disabled]:opacity-50"
	classLabel      = "px-2 py-1.5 text-xs font-medium text-muted-foreground"
	classInput      = "flex h-9 w-full rounded-md border bg-transparent px-3 py-1 text-sm outline-none placeholder:text-muted-foreground"
	classSep        = "-mx-1 my-1 h-px bg-muted"
	classAffordance = "py-6 text-center text-sm"
)
