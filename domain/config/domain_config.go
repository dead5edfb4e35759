package config

// DomainConfig holds the configurable business rules and constraints.
type DomainConfig struct {
	// Map constraints
	MaxNodesPerMap       int
	MaxConnectionsPerMap int
	DefaultMapTitle      string
	DefaultCentralText   string

	// Node constraints
	MaxTextLength int
	MaxTagsPerMap int

	// Listing and search
	PreviewLength    int
	MaxSearchResults int

	// Scoring
	ScoringProfile string

	// Validation settings
	AllowSelfConnections     bool
	AllowDuplicateConnection bool
}

// DefaultDomainConfig returns the default domain configuration.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxNodesPerMap:       10000,
		MaxConnectionsPerMap: 50000,
		DefaultMapTitle:      "Untitled Map",
		DefaultCentralText:   "Central Idea",

		MaxTextLength: 2000,
		MaxTagsPerMap: 20,

		PreviewLength:    50,
		MaxSearchResults: 100,

		ScoringProfile: "classic",

		// Loops and parallel edges are legal map shapes.
		AllowSelfConnections:     true,
		AllowDuplicateConnection: true,
	}
}

// ProductionDomainConfig returns production-specific configuration.
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerMap = 5000
	config.MaxConnectionsPerMap = 25000
	config.MaxTextLength = 1000

	return config
}

// DevelopmentDomainConfig returns development-specific configuration.
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxNodesPerMap = 100000
	config.MaxConnectionsPerMap = 500000

	return config
}

// LoadDomainConfig loads domain configuration based on environment.
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}
