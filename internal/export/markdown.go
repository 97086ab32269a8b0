package export

import "strings"

// RenderMarkdown renders a block outline as a Markdown document.
// Output is deterministic: the same outline always yields identical bytes.
func RenderMarkdown(blocks []Block) string {
	var b strings.Builder

	for _, blk := range blocks {
		switch blk.Kind {
		case KindTitle:
			b.WriteString("# " + blk.Text + "\n\n")
		case KindMeta:
			if blk.Text == "" {
				b.WriteString("**" + blk.Label + ":**\n")
			} else {
				b.WriteString("**" + blk.Label + ":** " + blk.Text + "\n")
			}
		case KindHeading:
			b.WriteString("\n## " + blk.Text + "\n\n")
		case KindSubheading:
			b.WriteString("\n### " + blk.Text + "\n\n")
		case KindParagraph:
			b.WriteString(blk.Text + "\n\n")
		case KindOption:
			if blk.Correct {
				b.WriteString("- **" + blk.Label + ".** " + blk.Text + " ✓\n")
			} else {
				b.WriteString("- " + blk.Label + ". " + blk.Text + "\n")
			}
		case KindAnswerSpace:
			b.WriteString("\n" + strings.Repeat("_", 50) + "\n\n" + strings.Repeat("_", 50) + "\n\n")
		case KindQuote:
			b.WriteString("> " + blk.Text + "\n\n")
		case KindDivider:
			b.WriteString("\n---\n\n")
		case KindFooter:
			b.WriteString("*" + blk.Text + "*\n")
		}
	}

	return b.String()
}
