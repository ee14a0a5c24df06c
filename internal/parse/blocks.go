package parse

import "strings"

// Separator is the record boundary marker in an annotation export: a
// line of exactly ten ASCII hyphens.
const Separator = "----------"

// SplitBlocks splits raw export content into trimmed record blocks,
// dropping empty ones.
func SplitBlocks(content string) []string {
	parts := strings.Split(content, Separator)

	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}
