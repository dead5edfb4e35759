package services

import (
	"fmt"
	"html"
	"strings"

	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
	"mindmapper/domain/scoring"
)

// htmlExportStyle is the stylesheet embedded in standalone HTML
// exports so the file renders without any external asset.
const htmlExportStyle = `
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0;
            padding: 20px;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 20px;
            padding: 30px;
            box-shadow: 0 20px 60px rgba(0,0,0,0.3);
        }
        h1 {
            color: #6366f1;
            border-bottom: 3px solid #6366f1;
            padding-bottom: 10px;
        }
        .meta {
            color: #6b7280;
            margin-bottom: 20px;
            font-size: 14px;
        }
        .section {
            margin: 20px 0;
        }
        .section h2 {
            color: #4b5563;
            display: flex;
            align-items: center;
            gap: 10px;
        }
        .central {
            background: linear-gradient(135deg, #6366f1, #4f46e5);
            color: white;
            padding: 20px;
            border-radius: 15px;
            text-align: center;
            font-size: 1.5em;
            font-weight: bold;
            margin: 20px 0;
        }
        .group {
            background: #f3f4f6;
            padding: 15px;
            border-left: 4px solid #f59e0b;
            margin: 10px 0;
            border-radius: 5px;
        }
        .concept {
            background: #e0f2fe;
            padding: 10px;
            border-left: 4px solid #3b82f6;
            margin: 8px 0;
            border-radius: 5px;
        }
        .detail {
            padding: 8px;
            margin: 5px 0;
            color: #6b7280;
        }
        .stats {
            display: flex;
            gap: 20px;
            margin: 20px 0;
            flex-wrap: wrap;
        }
        .stat {
            background: #f9fafb;
            padding: 15px;
            border-radius: 10px;
            flex: 1;
            min-width: 150px;
            text-align: center;
        }
        .stat-value {
            font-size: 2em;
            font-weight: bold;
            color: #6366f1;
        }
        .stat-label {
            color: #6b7280;
            font-size: 0.9em;
            margin-top: 5px;
        }
        .grinde-score {
            background: linear-gradient(135deg, #8b5cf6, #7c3aed);
            color: white;
            padding: 20px;
            border-radius: 15px;
            margin: 20px 0;
        }
        .score-bar {
            background: rgba(255,255,255,0.3);
            height: 20px;
            border-radius: 10px;
            margin: 10px 0;
            overflow: hidden;
        }
        .score-fill {
            background: white;
            height: 100%;
            border-radius: 10px;
            transition: width 0.5s ease;
        }
`

// renderHTML produces a self-contained HTML document with the map
// content, basic statistics and, for scored maps, the score bars.
func renderHTML(doc aggregates.Document, score *scoring.Score, tr exportStrings, lang string) string {
	if lang == "" {
		lang = langEN
	}
	title := doc.Title
	if title == "" {
		title = tr.mindMap
	}
	title = html.EscapeString(title)
	mode := strings.ToUpper(string(doc.Mode))

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=%q>\n<head>\n", lang)
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", title)
	b.WriteString("    <style>" + htmlExportStyle + "    </style>\n")
	b.WriteString("</head>\n<body>\n    <div class=\"container\">\n")
	fmt.Fprintf(&b, "        <h1>%s</h1>\n", title)

	fmt.Fprintf(&b, "        <div class=\"meta\">\n")
	fmt.Fprintf(&b, "            <strong>%s:</strong> %s |\n", tr.mode, mode)
	fmt.Fprintf(&b, "            <strong>%s:</strong> %s |\n", tr.created, doc.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "            <strong>%s:</strong> %s\n", tr.modified, doc.ModifiedAt.Format("2006-01-02"))
	b.WriteString("        </div>\n")

	b.WriteString("        <div class=\"stats\">\n")
	writeStat(&b, fmt.Sprintf("%d", len(doc.Nodes)), tr.nodes)
	writeStat(&b, fmt.Sprintf("%d", len(doc.Connections)), tr.connections)
	writeStat(&b, mode, tr.mode)
	b.WriteString("        </div>\n")

	if score != nil {
		b.WriteString("        <div class=\"grinde-score\">\n")
		fmt.Fprintf(&b, "            <h2>📊 Score GRINDE: %d/100</h2>\n", score.Total)
		writeScoreBar(&b, "Grouped", score.Grouped)
		writeScoreBar(&b, "Reflective", score.Reflective)
		writeScoreBar(&b, "Interconnected", score.Interconnected)
		writeScoreBar(&b, "Non-verbal", score.Nonverbal)
		writeScoreBar(&b, "Directional", score.Directional)
		writeScoreBar(&b, "Emphasized", score.Emphasized)
		b.WriteString("        </div>\n")
	}

	buckets := nodesByType(doc)
	for _, n := range buckets[entities.NodeTypeCentral] {
		fmt.Fprintf(&b, "        <div class=\"central\">%s</div>\n", html.EscapeString(n.Text))
	}
	writeSection(&b, buckets[entities.NodeTypeGroup], "📦 "+tr.groups, "group", "")
	writeSection(&b, buckets[entities.NodeTypeConcept], "💡 "+tr.concepts, "concept", "")
	writeSection(&b, buckets[entities.NodeTypeDetail], "📝 "+tr.details, "detail", "• ")

	b.WriteString("    </div>\n</body>\n</html>\n")
	return b.String()
}

func writeStat(b *strings.Builder, value, label string) {
	b.WriteString("            <div class=\"stat\">\n")
	fmt.Fprintf(b, "                <div class=\"stat-value\">%s</div>\n", html.EscapeString(value))
	fmt.Fprintf(b, "                <div class=\"stat-label\">%s</div>\n", html.EscapeString(label))
	b.WriteString("            </div>\n")
}

func writeScoreBar(b *strings.Builder, label string, value int) {
	b.WriteString("            <div>\n")
	fmt.Fprintf(b, "                <div>%s (%d/100)</div>\n", label, value)
	fmt.Fprintf(b, "                <div class=\"score-bar\"><div class=\"score-fill\" style=\"width: %d%%\"></div></div>\n", value)
	b.WriteString("            </div>\n")
}

func writeSection(b *strings.Builder, nodes []entities.Node, heading, class, prefix string) {
	if len(nodes) == 0 {
		return
	}
	fmt.Fprintf(b, "        <div class=\"section\"><h2>%s</h2>\n", heading)
	for _, n := range nodes {
		fmt.Fprintf(b, "            <div class=%q>%s%s</div>\n", class, prefix, html.EscapeString(n.Text))
	}
	b.WriteString("        </div>\n")
}
