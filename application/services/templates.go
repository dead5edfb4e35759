package services

import "mindmapper/domain/core/entities"

// Template is a prebuilt map skeleton. Node ids are local to the
// template; applying it produces an independent map.
type Template struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Mode        string                `json:"mode"`
	Nodes       []entities.Node       `json:"nodes"`
	Connections []entities.Connection `json:"connections"`
}

// TemplateInfo is the listing shape for a template.
type TemplateInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Mode      string `json:"mode"`
	NodeCount int    `json:"nodeCount"`
}

const (
	langEN = "en"
	langFR = "fr"
)

func tnode(id, text string, nodeType entities.NodeType, x, y float64, color string, size float64) entities.Node {
	return entities.Node{ID: id, Text: text, Type: nodeType, X: x, Y: y, Color: color, Size: size}
}

func tconn(source, target string) entities.Connection {
	return entities.Connection{Source: source, Target: target, Type: entities.ConnectionSimple}
}

// templateOrder fixes the listing order.
var templateOrder = []string{
	"business-plan", "study-notes", "project-management", "swot", "brainstorming", "todo",
}

// builtinTemplates holds the shipped templates per language.
var builtinTemplates = map[string]map[string]Template{
	"business-plan": {
		langEN: {
			ID: "business-plan", Title: "Business Plan", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "🎯 Business Plan", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "📊 Vision & Mission", entities.NodeTypeGroup, 200, 150, "#8b5cf6", 25),
				tnode("3", "🎯 Market Analysis", entities.NodeTypeGroup, 600, 150, "#10b981", 25),
				tnode("4", "📦 Product/Service", entities.NodeTypeGroup, 200, 450, "#f59e0b", 25),
				tnode("5", "💰 Financial Plan", entities.NodeTypeGroup, 600, 450, "#ef4444", 25),
				tnode("6", "👥 Team", entities.NodeTypeGroup, 400, 150, "#06b6d4", 25),
				tnode("7", "📈 Marketing Strategy", entities.NodeTypeGroup, 400, 450, "#ec4899", 25),
			},
			Connections: []entities.Connection{
				tconn("1", "2"), tconn("1", "3"), tconn("1", "4"),
				tconn("1", "5"), tconn("1", "6"), tconn("1", "7"),
			},
		},
		langFR: {
			ID: "business-plan", Title: "Plan d'Affaires", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "🎯 Plan d'Affaires", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "📊 Vision & Mission", entities.NodeTypeGroup, 200, 150, "#8b5cf6", 25),
				tnode("3", "🎯 Analyse Marché", entities.NodeTypeGroup, 600, 150, "#10b981", 25),
				tnode("4", "📦 Produit/Service", entities.NodeTypeGroup, 200, 450, "#f59e0b", 25),
				tnode("5", "💰 Plan Financier", entities.NodeTypeGroup, 600, 450, "#ef4444", 25),
				tnode("6", "👥 Équipe", entities.NodeTypeGroup, 400, 150, "#06b6d4", 25),
				tnode("7", "📈 Stratégie Marketing", entities.NodeTypeGroup, 400, 450, "#ec4899", 25),
			},
			Connections: []entities.Connection{
				tconn("1", "2"), tconn("1", "3"), tconn("1", "4"),
				tconn("1", "5"), tconn("1", "6"), tconn("1", "7"),
			},
		},
	},
	"study-notes": {
		langEN: {
			ID: "study-notes", Title: "Study Notes", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "📚 Course Title", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🔑 Key Concepts", entities.NodeTypeGroup, 250, 200, "#3b82f6", 25),
				tnode("3", "💡 Examples", entities.NodeTypeGroup, 550, 200, "#10b981", 25),
				tnode("4", "❓ Questions", entities.NodeTypeGroup, 250, 400, "#f59e0b", 25),
				tnode("5", "⚡ To Remember", entities.NodeTypeGroup, 550, 400, "#ef4444", 25),
				tnode("6", "📝 Exercises", entities.NodeTypeGroup, 400, 500, "#8b5cf6", 25),
			},
		},
		langFR: {
			ID: "study-notes", Title: "Notes de Cours", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "📚 Titre du Cours", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🔑 Concepts Clés", entities.NodeTypeGroup, 250, 200, "#3b82f6", 25),
				tnode("3", "💡 Exemples", entities.NodeTypeGroup, 550, 200, "#10b981", 25),
				tnode("4", "❓ Questions", entities.NodeTypeGroup, 250, 400, "#f59e0b", 25),
				tnode("5", "⚡ À Retenir", entities.NodeTypeGroup, 550, 400, "#ef4444", 25),
				tnode("6", "📝 Exercices", entities.NodeTypeGroup, 400, 500, "#8b5cf6", 25),
			},
		},
	},
	"project-management": {
		langEN: {
			ID: "project-management", Title: "Project Management", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "💼 Project Name", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🎯 Goals", entities.NodeTypeGroup, 200, 200, "#10b981", 25),
				tnode("3", "👥 Team", entities.NodeTypeGroup, 600, 200, "#3b82f6", 25),
				tnode("4", "📋 Tasks", entities.NodeTypeGroup, 200, 400, "#f59e0b", 25),
				tnode("5", "📅 Timeline", entities.NodeTypeGroup, 600, 400, "#8b5cf6", 25),
				tnode("6", "⚠️ Risks", entities.NodeTypeGroup, 300, 500, "#ef4444", 25),
				tnode("7", "💰 Budget", entities.NodeTypeGroup, 500, 500, "#06b6d4", 25),
			},
		},
		langFR: {
			ID: "project-management", Title: "Gestion de Projet", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "💼 Nom du Projet", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🎯 Objectifs", entities.NodeTypeGroup, 200, 200, "#10b981", 25),
				tnode("3", "👥 Équipe", entities.NodeTypeGroup, 600, 200, "#3b82f6", 25),
				tnode("4", "📋 Tâches", entities.NodeTypeGroup, 200, 400, "#f59e0b", 25),
				tnode("5", "📅 Planning", entities.NodeTypeGroup, 600, 400, "#8b5cf6", 25),
				tnode("6", "⚠️ Risques", entities.NodeTypeGroup, 300, 500, "#ef4444", 25),
				tnode("7", "💰 Budget", entities.NodeTypeGroup, 500, 500, "#06b6d4", 25),
			},
		},
	},
	"swot": {
		langEN: {
			ID: "swot", Title: "SWOT Analysis", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "🎯 SWOT Analysis", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "💪 Strengths", entities.NodeTypeGroup, 250, 200, "#10b981", 25),
				tnode("3", "⚠️ Weaknesses", entities.NodeTypeGroup, 550, 200, "#f59e0b", 25),
				tnode("4", "🚀 Opportunities", entities.NodeTypeGroup, 250, 400, "#3b82f6", 25),
				tnode("5", "🛡️ Threats", entities.NodeTypeGroup, 550, 400, "#ef4444", 25),
			},
		},
		langFR: {
			ID: "swot", Title: "Analyse SWOT", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "🎯 Analyse SWOT", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "💪 Forces", entities.NodeTypeGroup, 250, 200, "#10b981", 25),
				tnode("3", "⚠️ Faiblesses", entities.NodeTypeGroup, 550, 200, "#f59e0b", 25),
				tnode("4", "🚀 Opportunités", entities.NodeTypeGroup, 250, 400, "#3b82f6", 25),
				tnode("5", "🛡️ Menaces", entities.NodeTypeGroup, 550, 400, "#ef4444", 25),
			},
		},
	},
	"brainstorming": {
		langEN: {
			ID: "brainstorming", Title: "Brainstorming", Mode: "buzan",
			Nodes: []entities.Node{
				tnode("1", "💡 Main Idea", entities.NodeTypeCentral, 400, 300, "#6366f1", 35),
			},
		},
		langFR: {
			ID: "brainstorming", Title: "Brainstorming", Mode: "buzan",
			Nodes: []entities.Node{
				tnode("1", "💡 Idée Principale", entities.NodeTypeCentral, 400, 300, "#6366f1", 35),
			},
		},
	},
	"todo": {
		langEN: {
			ID: "todo", Title: "Task List", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "✅ Tasks", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🔴 Urgent", entities.NodeTypeGroup, 250, 200, "#ef4444", 25),
				tnode("3", "🟠 Important", entities.NodeTypeGroup, 550, 200, "#f59e0b", 25),
				tnode("4", "🟡 Normal", entities.NodeTypeGroup, 250, 400, "#fbbf24", 25),
				tnode("5", "🟢 Done", entities.NodeTypeGroup, 550, 400, "#10b981", 25),
			},
		},
		langFR: {
			ID: "todo", Title: "Liste de Tâches", Mode: "grinde",
			Nodes: []entities.Node{
				tnode("1", "✅ Tâches", entities.NodeTypeCentral, 400, 300, "#6366f1", 30),
				tnode("2", "🔴 Urgent", entities.NodeTypeGroup, 250, 200, "#ef4444", 25),
				tnode("3", "🟠 Important", entities.NodeTypeGroup, 550, 200, "#f59e0b", 25),
				tnode("4", "🟡 Normal", entities.NodeTypeGroup, 250, 400, "#fbbf24", 25),
				tnode("5", "🟢 Fait", entities.NodeTypeGroup, 550, 400, "#10b981", 25),
			},
		},
	},
}
