package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	defaultItemsPerPage    = 9
	defaultUpstreamTimeout = 10 * time.Second
	defaultSearchDebounce  = 300 * time.Millisecond
	defaultSessionTTL      = 30 * time.Minute

	defaultAnalyticsDebounce = 100 * time.Millisecond
	defaultVisibleRatio      = 0.5
	defaultAnalyticsTimeout  = 5 * time.Second
	defaultSubjectTTL        = 30 * time.Minute

	defaultCacheTTL = time.Minute

	// Florianópolis, the portal's home region.
	defaultCenterLat  = -27.5954
	defaultCenterLng  = -48.5480
	defaultZoom       = 12
	defaultSingleZoom = 17
)

// DefaultCategories is the fixed set of directory categories known to the portal.
//
//nolint:gochecknoglobals
var DefaultCategories = []string{
	"Academia",
	"Advocacia",
	"Alimentação",
	"Automotivo",
	"Beleza e Estética",
	"Construção",
	"Contabilidade",
	"Educação",
	"Imobiliária",
	"Mecânica",
	"Mercado",
	"Padaria",
	"Pet Shop",
	"Restaurante",
	"Saúde",
	"Serviços",
	"Tecnologia",
	"Turismo",
	"Vestuário",
}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// PortalAPI is the upstream REST backend holding companies, articles and analytics
	PortalAPI PortalAPIConfig `json:"portalApi" yaml:"portalApi"`

	Directory *DirectoryConfig `json:"directory" yaml:"directory"`

	Analytics *AnalyticsConfig `json:"analytics" yaml:"analytics"`

	// PubSub selects where analytics events are delivered
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Redis enables the read-through cache of upstream company pages
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// QRCode configuration for company profile QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PMTiles configuration for the map panel basemap
	PMTiles *PMTilesConfig `json:"pmtiles" yaml:"pmtiles"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PortalAPIConfig defines how the upstream REST API is reached
type PortalAPIConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Hostname forwarded as portalReferer to scope multi-tenant content
	PortalReferer string `json:"portalReferer" yaml:"portalReferer"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DirectoryConfig defines the business directory behaviour
type DirectoryConfig struct {
	ItemsPerPage   int           `json:"itemsPerPage" yaml:"itemsPerPage"`
	Categories     []string      `json:"categories" yaml:"categories"`
	SearchDebounce time.Duration `json:"searchDebounce" yaml:"searchDebounce"`
	SessionTTL     time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
	Map            MapConfig     `json:"map" yaml:"map"`
}

// MapConfig defines the regional map framing
type MapConfig struct {
	CenterLat  float64 `json:"centerLat" yaml:"centerLat"`
	CenterLng  float64 `json:"centerLng" yaml:"centerLng"`
	Zoom       int     `json:"zoom" yaml:"zoom"`
	SingleZoom int     `json:"singleZoom" yaml:"singleZoom"`
}

// AnalyticsConfig defines the visibility tracking behaviour
type AnalyticsConfig struct {
	// Window after a send during which further sends for the same subject are suppressed
	DebounceWindow time.Duration `json:"debounceWindow" yaml:"debounceWindow"`

	// Minimum intersection ratio that counts as visible
	VisibleRatio float64 `json:"visibleRatio" yaml:"visibleRatio"`

	SendTimeout time.Duration `json:"sendTimeout" yaml:"sendTimeout"`

	// Idle time after which tracking state is dropped, including subjects sent without a session
	SubjectTTL time.Duration `json:"subjectTtl" yaml:"subjectTtl"`
}

// PubSubConfig defines Pub/Sub configuration for analytics publishing
type PubSubConfig struct {
	// Provider type: "rest" for the portal API or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`
}

// RedisConfig defines the cache connection
type RedisConfig struct {
	Addr     string        `json:"addr" yaml:"addr"`
	Password string        `json:"password" yaml:"password"`
	DB       int           `json:"db" yaml:"db"`
	TTL      time.Duration `json:"ttl" yaml:"ttl"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`

	// Public site base URL, e.g. https://portal.example.com
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

// PMTilesConfig defines the basemap archive
type PMTilesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// PMTiles source URL (local file path, HTTP URL, or GCS URL)
	Source string `json:"source" yaml:"source"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// PORTALAPI_BASEURL -> portalApi.baseUrl
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.PortalAPI.BaseURL) == "" {
		return nil, errors.New("portalApi.baseUrl is required")
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills every optional section so consumers never see nil or zero settings.
func (cfg *Config) ApplyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.PortalAPI.Timeout <= 0 {
		cfg.PortalAPI.Timeout = defaultUpstreamTimeout
	}

	if cfg.Directory == nil {
		cfg.Directory = &DirectoryConfig{}
	}
	dir := cfg.Directory
	if dir.ItemsPerPage <= 0 {
		dir.ItemsPerPage = defaultItemsPerPage
	}
	if len(dir.Categories) == 0 {
		dir.Categories = append([]string(nil), DefaultCategories...)
	}
	if dir.SearchDebounce <= 0 {
		dir.SearchDebounce = defaultSearchDebounce
	}
	if dir.SessionTTL <= 0 {
		dir.SessionTTL = defaultSessionTTL
	}
	if dir.Map.CenterLat == 0 && dir.Map.CenterLng == 0 {
		dir.Map.CenterLat = defaultCenterLat
		dir.Map.CenterLng = defaultCenterLng
	}
	if dir.Map.Zoom <= 0 {
		dir.Map.Zoom = defaultZoom
	}
	if dir.Map.SingleZoom <= 0 {
		dir.Map.SingleZoom = defaultSingleZoom
	}

	if cfg.Analytics == nil {
		cfg.Analytics = &AnalyticsConfig{}
	}
	if cfg.Analytics.DebounceWindow <= 0 {
		cfg.Analytics.DebounceWindow = defaultAnalyticsDebounce
	}
	if cfg.Analytics.VisibleRatio <= 0 || cfg.Analytics.VisibleRatio > 1 {
		cfg.Analytics.VisibleRatio = defaultVisibleRatio
	}
	if cfg.Analytics.SendTimeout <= 0 {
		cfg.Analytics.SendTimeout = defaultAnalyticsTimeout
	}
	if cfg.Analytics.SubjectTTL <= 0 {
		cfg.Analytics.SubjectTTL = defaultSubjectTTL
	}

	if cfg.Redis != nil && cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = defaultCacheTTL
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
