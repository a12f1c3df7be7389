package cfg

type Cfg struct {
	// Content source configuration
	SheetURL     string
	SiteProfile  string
	ScriptURL    string
	UTCOffset    int
	RolloverHour int

	// Fallback generation configuration
	GeminiAPIKey string
	GeminiModel  string

	// Application configuration
	Port          string
	BaseUrl       string
	WorkerCount   int
	ProbeInterval int
	FetchTimeout  int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
