package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"mindmapper/application/ports"
	"mindmapper/domain/core/aggregates"
	"mindmapper/domain/core/entities"
	"mindmapper/domain/scoring"
	apperrors "mindmapper/pkg/errors"
)

// ExportFormat names a supported export rendering.
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatText     ExportFormat = "text"
	FormatMarkdown ExportFormat = "markdown"
	FormatHTML     ExportFormat = "html"
	FormatSVG      ExportFormat = "svg"
)

// ExportResult is a rendered document ready to be served as a
// download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// exportStrings localizes the labels embedded in exports.
type exportStrings struct {
	mindMap          string
	mode             string
	created          string
	modified         string
	centralIdea      string
	groups           string
	concepts         string
	details          string
	connections      string
	totalConnections string
	totalNodes       string
	nodes            string
	statistics       string
}

var exportTranslations = map[string]exportStrings{
	langEN: {
		mindMap:          "Mind Map",
		mode:             "Mode",
		created:          "Created",
		modified:         "Modified",
		centralIdea:      "CENTRAL IDEA",
		groups:           "GROUPS",
		concepts:         "CONCEPTS",
		details:          "DETAILS",
		connections:      "Connections",
		totalConnections: "Total connections",
		totalNodes:       "Total nodes",
		nodes:            "nodes",
		statistics:       "Statistics",
	},
	langFR: {
		mindMap:          "Carte Mentale",
		mode:             "Mode",
		created:          "Créé le",
		modified:         "Modifié le",
		centralIdea:      "IDÉE CENTRALE",
		groups:           "GROUPES",
		concepts:         "CONCEPTS",
		details:          "DÉTAILS",
		connections:      "Connexions",
		totalConnections: "Total des connexions",
		totalNodes:       "Total des nœuds",
		nodes:            "nœuds",
		statistics:       "Statistiques",
	},
}

// ExportService renders maps into portable formats.
type ExportService struct {
	repo    ports.MapRepository
	profile scoring.Profile
	logger  *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(repo ports.MapRepository, profile scoring.Profile, logger *zap.Logger) *ExportService {
	return &ExportService{repo: repo, profile: profile, logger: logger}
}

// Export renders one map in the requested format. Unknown formats are
// a validation error.
func (s *ExportService) Export(ctx context.Context, mapID string, format ExportFormat, lang string) (*ExportResult, error) {
	m, err := s.repo.FindByID(ctx, mapID)
	if err != nil {
		return nil, err
	}

	doc := m.Document()
	score := s.profile.Evaluate(m)
	tr, ok := exportTranslations[lang]
	if !ok {
		tr = exportTranslations[langEN]
	}

	var content []byte
	var contentType, ext string

	switch format {
	case FormatJSON:
		content, err = json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, apperrors.Wrap(err, "encode map")
		}
		contentType, ext = "application/json; charset=utf-8", "json"
	case FormatText:
		content = []byte(renderText(doc, tr))
		contentType, ext = "text/plain; charset=utf-8", "txt"
	case FormatMarkdown:
		content = []byte(renderMarkdown(doc, score, tr))
		contentType, ext = "text/markdown; charset=utf-8", "md"
	case FormatHTML:
		content = []byte(renderHTML(doc, score, tr, lang))
		contentType, ext = "text/html; charset=utf-8", "html"
	case FormatSVG:
		content = []byte(renderSVG(doc))
		contentType, ext = "image/svg+xml", "svg"
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported export format %q", format)).
			WithCode(apperrors.CodeUnknownFormat)
	}

	s.logger.Debug("map exported",
		zap.String("mapID", mapID),
		zap.String("format", string(format)),
	)
	return &ExportResult{
		Content:     content,
		ContentType: contentType,
		Filename:    exportFilename(doc.Title, ext),
	}, nil
}

// nodesByType buckets node labels by role, insertion order preserved.
func nodesByType(doc aggregates.Document) map[entities.NodeType][]entities.Node {
	buckets := make(map[entities.NodeType][]entities.Node)
	for _, n := range doc.Nodes {
		buckets[n.Type] = append(buckets[n.Type], n)
	}
	return buckets
}

func renderText(doc aggregates.Document, tr exportStrings) string {
	title := doc.Title
	if title == "" {
		title = tr.mindMap
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n\n")
	fmt.Fprintf(&b, "%s: %s\n", tr.mode, strings.ToUpper(string(doc.Mode)))
	fmt.Fprintf(&b, "%s: %s\n", tr.created, doc.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "%s: %s\n\n", tr.modified, doc.ModifiedAt.Format("2006-01-02"))

	buckets := nodesByType(doc)
	sections := []struct {
		nodeType entities.NodeType
		heading  string
		bullet   string
	}{
		{entities.NodeTypeCentral, tr.centralIdea, "★"},
		{entities.NodeTypeGroup, tr.groups, "◆"},
		{entities.NodeTypeConcept, tr.concepts, "•"},
		{entities.NodeTypeDetail, tr.details, "-"},
	}
	for _, sec := range sections {
		nodes := buckets[sec.nodeType]
		if len(nodes) == 0 {
			continue
		}
		b.WriteString(sec.heading + ":\n")
		for _, n := range nodes {
			fmt.Fprintf(&b, "  %s %s\n", sec.bullet, n.Text)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%s:\n", tr.statistics)
	fmt.Fprintf(&b, "  %s: %d\n", tr.totalNodes, len(doc.Nodes))
	fmt.Fprintf(&b, "  %s: %d\n", tr.totalConnections, len(doc.Connections))
	return b.String()
}

func renderMarkdown(doc aggregates.Document, score *scoring.Score, tr exportStrings) string {
	title := doc.Title
	if title == "" {
		title = tr.mindMap
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**%s:** %s  \n", tr.mode, strings.ToUpper(string(doc.Mode)))
	fmt.Fprintf(&b, "**%s:** %s  \n", tr.created, doc.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**%s:** %s  \n\n", tr.modified, doc.ModifiedAt.Format("2006-01-02"))

	if score != nil {
		fmt.Fprintf(&b, "## 📊 Score GRINDE: %d/100\n\n", score.Total)
		fmt.Fprintf(&b, "- Grouped: %d/100\n", score.Grouped)
		fmt.Fprintf(&b, "- Reflective: %d/100\n", score.Reflective)
		fmt.Fprintf(&b, "- Interconnected: %d/100\n", score.Interconnected)
		fmt.Fprintf(&b, "- Non-verbal: %d/100\n", score.Nonverbal)
		fmt.Fprintf(&b, "- Directional: %d/100\n", score.Directional)
		fmt.Fprintf(&b, "- Emphasized: %d/100\n\n", score.Emphasized)
	}

	buckets := nodesByType(doc)
	if nodes := buckets[entities.NodeTypeCentral]; len(nodes) > 0 {
		fmt.Fprintf(&b, "## 🎯 %s\n\n", tr.centralIdea)
		for _, n := range nodes {
			fmt.Fprintf(&b, "**%s**\n\n", n.Text)
		}
	}
	if nodes := buckets[entities.NodeTypeGroup]; len(nodes) > 0 {
		fmt.Fprintf(&b, "## 📦 %s\n\n", tr.groups)
		for _, n := range nodes {
			fmt.Fprintf(&b, "### %s\n\n", n.Text)
		}
	}
	if nodes := buckets[entities.NodeTypeConcept]; len(nodes) > 0 {
		fmt.Fprintf(&b, "## 💡 %s\n\n", tr.concepts)
		for _, n := range nodes {
			fmt.Fprintf(&b, "- %s\n", n.Text)
		}
		b.WriteString("\n")
	}
	if nodes := buckets[entities.NodeTypeDetail]; len(nodes) > 0 {
		fmt.Fprintf(&b, "## 📝 %s\n\n", tr.details)
		for _, n := range nodes {
			fmt.Fprintf(&b, "  - %s\n", n.Text)
		}
		b.WriteString("\n")
	}

	if len(doc.Connections) > 0 {
		fmt.Fprintf(&b, "\n## 🔗 %s\n\n", tr.connections)
		fmt.Fprintf(&b, "%s: %d\n", tr.totalConnections, len(doc.Connections))
	}
	return b.String()
}

// renderSVG draws the map on a fixed 1200x800 canvas: straight lines
// for connections, a circle for the central node and rounded boxes for
// everything else.
func renderSVG(doc aggregates.Document) string {
	positions := make(map[string][2]float64, len(doc.Nodes))
	for _, n := range doc.Nodes {
		positions[n.ID] = [2]float64{n.X, n.Y}
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="800">` + "\n")
	b.WriteString("  <style>\n")
	b.WriteString("    .node { fill: #6366f1; stroke: white; stroke-width: 2; }\n")
	b.WriteString("    .text { fill: white; font-family: Arial; font-size: 14px; text-anchor: middle; }\n")
	b.WriteString("    .connection { stroke: #6366f1; stroke-width: 2; fill: none; }\n")
	b.WriteString("  </style>\n")

	b.WriteString(`  <g id="connections">` + "\n")
	for _, c := range doc.Connections {
		from, okFrom := positions[c.Source]
		to, okTo := positions[c.Target]
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&b, `    <line class="connection" x1="%g" y1="%g" x2="%g" y2="%g" />`+"\n",
			from[0], from[1], to[0], to[1])
	}
	b.WriteString("  </g>\n")

	b.WriteString(`  <g id="nodes">` + "\n")
	for _, n := range doc.Nodes {
		size := n.EffectiveSize()
		text := html.EscapeString(n.Text)
		if n.Type == entities.NodeTypeCentral {
			fmt.Fprintf(&b, `    <circle class="node" cx="%g" cy="%g" r="%g" />`+"\n", n.X, n.Y, size)
			fmt.Fprintf(&b, `    <text class="text" x="%g" y="%g">%s</text>`+"\n", n.X, n.Y+5, text)
		} else {
			width := float64(len([]rune(n.Text)))*8 + 20
			height := size * 2
			fmt.Fprintf(&b, `    <rect class="node" x="%g" y="%g" width="%g" height="%g" rx="10" />`+"\n",
				n.X-width/2, n.Y-height/2, width, height)
			fmt.Fprintf(&b, `    <text class="text" x="%g" y="%g">%s</text>`+"\n", n.X, n.Y+5, text)
		}
	}
	b.WriteString("  </g>\n")
	b.WriteString("</svg>\n")
	return b.String()
}

// exportFilename derives a safe attachment name from the map title.
func exportFilename(title, ext string) string {
	if title == "" {
		title = "mindmap"
	}
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
	return fmt.Sprintf("%s.%s", sanitized, ext)
}
