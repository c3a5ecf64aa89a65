package chunker

import (
	"regexp"
	"strings"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlock  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	htmlEntity  = regexp.MustCompile(`&[a-zA-Z]+;`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// CleanHTML strips script/style blocks, remaining tags and entities, and
// collapses whitespace. Scraped legal documents regularly arrive with
// viewer markup embedded in the body text.
func CleanHTML(text string) string {
	text = scriptBlock.ReplaceAllString(text, "")
	text = styleBlock.ReplaceAllString(text, "")
	text = anyTag.ReplaceAllString(text, "")
	text = htmlEntity.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
