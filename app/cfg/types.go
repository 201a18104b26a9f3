package cfg

type Cfg struct {
	// Application configuration
	SourcesDir   string
	DataDir      string
	Port         string
	APIAccessKey string

	// Fetch configuration
	CheckIntervalMinutes int
	FetchWindowHours     int
	FetchWorkers         int
	FetchTimeoutSeconds  int

	// Send configuration
	MinQualityScore      int
	SendStartHour        int
	SendEndHour          int
	SendIntervalMinutes  int
	SendMaxJitterSeconds int
	RetentionDays        int

	// AI configuration
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Publisher configuration
	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
