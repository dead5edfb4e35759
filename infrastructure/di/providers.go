package di

import (
	"net/http"

	"go.uber.org/zap"

	"mindmapper/application/ports"
	"mindmapper/application/services"
	domainconfig "mindmapper/domain/config"
	"mindmapper/domain/scoring"
	"mindmapper/infrastructure/config"
	"mindmapper/infrastructure/persistence/jsonfile"
	"mindmapper/interfaces/http/rest"
	"mindmapper/interfaces/websocket"
	"mindmapper/pkg/locks"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	DomainConfig    *domainconfig.DomainConfig
	Logger          *zap.Logger
	MapRepo         ports.MapRepository
	Publisher       ports.EventPublisher
	Hub             *websocket.Hub
	MapService      *services.MapService
	NodeService     *services.NodeService
	TemplateService *services.TemplateService
	ExportService   *services.ExportService
	Handler         http.Handler
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideDomainConfig derives domain rules from the environment and
// applies the configured scoring profile.
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	domainCfg := domainconfig.LoadDomainConfig(cfg.Environment)
	domainCfg.ScoringProfile = cfg.ScoringProfile
	return domainCfg
}

// ProvideScoringProfile resolves the scoring profile by name
func ProvideScoringProfile(domainCfg *domainconfig.DomainConfig) scoring.Profile {
	return scoring.ProfileByName(domainCfg.ScoringProfile)
}

// ProvideMapRepository creates the file-backed map store
func ProvideMapRepository(cfg *config.Config, logger *zap.Logger) (ports.MapRepository, error) {
	return jsonfile.NewMapRepository(jsonfile.Config{
		DataDir:         cfg.DataDir,
		BackupDir:       cfg.BackupDir,
		AutosaveDir:     cfg.AutosaveDir,
		BackupRetention: cfg.BackupRetention(),
		AutosaveEnabled: cfg.AutosaveEnabled,
	}, logger)
}

// ProvideHub creates the realtime hub
func ProvideHub(logger *zap.Logger) *websocket.Hub {
	return websocket.NewHub(logger)
}

// ProvideEventPublisher adapts the hub to the event publishing port
func ProvideEventPublisher(hub *websocket.Hub) ports.EventPublisher {
	return websocket.NewEventPublisher(hub)
}

// ProvideKeyedMutex creates the per-map lock set
func ProvideKeyedMutex() *locks.KeyedMutex {
	return locks.NewKeyedMutex()
}

// ProvideMapService creates the map service
func ProvideMapService(
	repo ports.MapRepository,
	publisher ports.EventPublisher,
	km *locks.KeyedMutex,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.MapService {
	return services.NewMapService(repo, publisher, km, domainCfg, logger)
}

// ProvideNodeService creates the node service
func ProvideNodeService(
	repo ports.MapRepository,
	publisher ports.EventPublisher,
	km *locks.KeyedMutex,
	domainCfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.NodeService {
	return services.NewNodeService(repo, publisher, km, domainCfg, logger)
}

// ProvideTemplateService creates the template service
func ProvideTemplateService(maps *services.MapService, logger *zap.Logger) *services.TemplateService {
	return services.NewTemplateService(maps, logger)
}

// ProvideExportService creates the export service
func ProvideExportService(repo ports.MapRepository, profile scoring.Profile, logger *zap.Logger) *services.ExportService {
	return services.NewExportService(repo, profile, logger)
}

// ProvideWebSocketServer creates the realtime HTTP endpoint
func ProvideWebSocketServer(hub *websocket.Hub, cfg *config.Config, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, cfg.CORSAllowedOrigins, logger)
}

// ProvideHandler builds the fully routed HTTP handler
func ProvideHandler(
	cfg *config.Config,
	maps *services.MapService,
	nodes *services.NodeService,
	templates *services.TemplateService,
	exports *services.ExportService,
	ws *websocket.Server,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(cfg, maps, nodes, templates, exports, ws, logger).Setup()
}
