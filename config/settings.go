package config

// Settings is the full on-disk configuration of the service.
type Settings struct {
	Server   ServerSettings   `json:"server" yaml:"server"`
	Storage  StorageSettings  `json:"storage" yaml:"storage"`
	Auth     AuthSettings     `json:"auth" yaml:"auth"`
	Metadata MetadataSettings `json:"metadata" yaml:"metadata"`
	Logging  LoggingSettings  `json:"logging" yaml:"logging"`
}

type ServerSettings struct {
	Host                string   `json:"host" yaml:"host"`
	Port                int      `json:"port" yaml:"port"`
	ReadTimeoutSeconds  int      `json:"readTimeoutSeconds" yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `json:"writeTimeoutSeconds" yaml:"writeTimeoutSeconds"`
	AllowedOrigins      []string `json:"allowedOrigins" yaml:"allowedOrigins"`
}

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type StorageSettings struct {
	Driver        string `json:"driver" yaml:"driver"` // sqlite | mongo
	SQLitePath    string `json:"sqlitePath" yaml:"sqlitePath"`
	MongoURI      string `json:"mongoUri" yaml:"mongoUri"`
	MongoDatabase string `json:"mongoDatabase" yaml:"mongoDatabase"`
}

type AuthSettings struct {
	// TokenSecret signs bearer tokens. When empty, serve generates one and saves it.
	TokenSecret   string `json:"tokenSecret" yaml:"tokenSecret"`
	TokenTTLHours int    `json:"tokenTtlHours" yaml:"tokenTtlHours"`
}

type MetadataSettings struct {
	TMDBAPIKey       string `json:"tmdbApiKey" yaml:"tmdbApiKey"`
	TMDBBaseURL      string `json:"tmdbBaseUrl" yaml:"tmdbBaseUrl"`
	TMDBLanguage     string `json:"tmdbLanguage" yaml:"tmdbLanguage"`
	OMDBAPIKey       string `json:"omdbApiKey" yaml:"omdbApiKey"`
	OMDBBaseURL      string `json:"omdbBaseUrl" yaml:"omdbBaseUrl"`
	TVMazeBaseURL    string `json:"tvmazeBaseUrl" yaml:"tvmazeBaseUrl"`
	WikipediaBaseURL string `json:"wikipediaBaseUrl" yaml:"wikipediaBaseUrl"`
	EnrichTVMaze     bool   `json:"enrichTvmaze" yaml:"enrichTvmaze"`
	RequestTimeout   int    `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`
}

type LoggingSettings struct {
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"maxSizeMb" yaml:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int    `json:"maxAgeDays" yaml:"maxAgeDays"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host:                "0.0.0.0",
			Port:                7777,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 60,
			AllowedOrigins:      []string{"*"},
		},
		Storage: StorageSettings{
			Driver:        DriverSQLite,
			SQLitePath:    "data/reelhouse.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "reelhouse",
		},
		Auth: AuthSettings{
			TokenTTLHours: 24 * 7,
		},
		Metadata: MetadataSettings{
			TMDBBaseURL:      "https://api.themoviedb.org/3",
			TMDBLanguage:     "en-US",
			OMDBBaseURL:      "https://www.omdbapi.com",
			TVMazeBaseURL:    "https://api.tvmaze.com",
			WikipediaBaseURL: "https://en.wikipedia.org/api/rest_v1",
			EnrichTVMaze:     true,
			RequestTimeout:   15,
		},
		Logging: LoggingSettings{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
