package summarizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/scribe/internal/models"
)

const (
	fontName  = "Calibri"
	fontSize  = 12
	fontColor = "000000"
	metaColor = "666666"
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+[.)]\s+(.+)$`)
)

// writeSessionDocx renders the session summary followed by its transcript
// and saves the document at outputPath.
func writeSessionDocx(detail *models.SessionDetail, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), "Session "+detail.ID, true, 18, fontColor)
	addStyledRun(doc.AddParagraph(""), sessionMeta(detail), false, 10, metaColor)

	addStyledRun(doc.AddParagraph(""), "Summary", true, 15, fontColor)
	if detail.Summary == nil || strings.TrimSpace(detail.Summary.Text) == "" {
		addStyledRun(doc.AddParagraph(""), "No summary yet.", false, fontSize, metaColor)
	} else {
		addMarkdown(doc, detail.Summary.Text)
	}

	addStyledRun(doc.AddParagraph(""), "Transcript", true, 15, fontColor)
	if len(detail.Chunks) == 0 {
		addStyledRun(doc.AddParagraph(""), "No transcript available for this session.", false, fontSize, metaColor)
	}
	for _, c := range detail.Chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		p := doc.AddParagraph("")
		p.AddText(fmt.Sprintf("[%d] ", c.Ordinal)).Font(fontName).Size(fontSize).Color(metaColor)
		p.AddText(text).Font(fontName).Size(fontSize).Color(fontColor)
	}

	return doc.SaveTo(outputPath)
}

func sessionMeta(detail *models.SessionDetail) string {
	meta := fmt.Sprintf("Started %s · %s", detail.CreatedAt.Format(time.DateTime), detail.State)
	if detail.EndedAt != nil {
		meta += " · Ended " + detail.EndedAt.Format(time.DateTime)
	}
	return meta
}

// addMarkdown converts the subset of markdown the model produces: headings,
// bullets, numbered items and **bold** runs.
func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])), fontColor)
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}
		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 13
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(fontColor)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(fontColor).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
