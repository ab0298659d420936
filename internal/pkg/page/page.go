// Package page holds the fixed pagination rules used by list operations.
package page

// Size is the number of entities per page.
const Size = 10

// Normalize clamps page numbers below 1 to 1.
func Normalize(page int) int {
	return max(page, 1)
}

// Offset returns the row offset of page.
func Offset(page int) int {
	return (Normalize(page) - 1) * Size
}

// Total returns how many pages count entities span.
func Total(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + Size - 1) / Size
}
