// Package slotmap implements a stable-index container.
//
// Insert returns an int index that stays bound to its value until Remove.
// Removed slots go onto a sorted free list and are handed out again lowest
// first, which keeps the live region dense near zero. Whenever a removal
// empties the highest slot, every empty slot at the tail is truncated, so
// the last slot of a non-empty map is always live.
//
// Indices are reused immediately and carry no generation; a caller holding
// an index past its Remove may observe an unrelated value.
package slotmap
