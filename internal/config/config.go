package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Dvenki/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Dvenki"
	AppID             = "com.github.dvenki.dvenki"
	KeyringService    = "com.github.dvenki.dvenki"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "dvenki.db"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug     = "debug"
	FlagPort      = "port"
	FlagDB        = "db"
	FlagLang      = "lang"
	FlagDate      = "date"
	FlagTitle     = "title"
	FlagContent   = "content"
	FlagMood      = "mood"
	FlagJournal   = "journal"
	FlagPublished = "published"
	FlagURL       = "url"
	FlagKey       = "key"
	FlagSaveKey   = "save-key"
	FlagOut       = "out"
	FlagPrivate   = "private"

	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescPort      = "HTTP port for the calendar server"
	FlagDescDB        = "Path to the SQLite database"
	FlagDescLang      = "Language for calendar labels (ru, en)"
	FlagDescDate      = "Entry date (YYYY-MM-DD), defaults to today"
	FlagDescTitle     = "Entry title"
	FlagDescContent   = "Entry content"
	FlagDescMood      = "Mood from 1 to 5 (0 for none)"
	FlagDescJournal   = "Journal identifier"
	FlagDescPublished = "Mark the entry as published"
	FlagDescURL       = "Entries endpoint of the hosted data API"
	FlagDescKey       = "API key (read from the keyring when omitted)"
	FlagDescSaveKey   = "Store the API key in the OS keyring"
	FlagDescOut       = "Output file (stdout when omitted)"
	FlagDescPrivate   = "Include unpublished entries"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvPort     = "DVENKI_PORT"
	EnvDBPath   = "DVENKI_DB_PATH"
	EnvLang     = "DVENKI_LANG"
	EnvRefresh  = "DVENKI_REFRESH"
	EnvReminder = "DVENKI_REMINDER"
	EnvAPIURL   = "DVENKI_API_URL"
	EnvAPIUser  = "DVENKI_API_USER"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18080"
	DefaultLanguage = "ru"
	DefaultRefresh  = 15 * time.Minute
	DefaultAPIUser  = "default"
	DefaultJournal  = "personal"

	// DaysPerWeek is the fixed width of a calendar grid row.
	DaysPerWeek = 7

	MinMood = 1
	MaxMood = 5
	NoMood  = 0
)

// SupportedLanguages defines the list of available calendar languages (ISO 639-1).
var SupportedLanguages = []string{"ru", "en"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyPrefixWeekday      = "weekday_"       // + monday..sunday
	TKeyPrefixWeekdayShort = "weekday_short_" // + monday..sunday
	TKeyPrefixMonth        = "month_"         // + january..december
	TKeyPrefixMonthGen     = "month_gen_"     // + january..december

	TKeyFormatMonthYear = "format_month_year" // Requires Month, Year
	TKeyFormatLongDate  = "format_long_date"  // Requires Day, Month, Year
	TKeyFormatDayMonth  = "format_day_month"  // Requires Day, Month

	TKeyToday      = "phrase_today"
	TKeyYesterday  = "phrase_yesterday"
	TKeyHasEntries = "phrase_has_entries"
	TKeyWeekend    = "phrase_weekend"

	TKeyEvtSummary     = "event_summary"      // Requires Date
	TKeyEvtSummaryMood = "event_summary_mood" // Requires Title, Mood

	TKeySeparator = "phrase_separator"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Dvenki//Journal//EN"
	ICalCalName   = "Journal"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "dvenki"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropCategories  = "CATEGORIES"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	FormatUID      = "%s@%s"
	FormatMoodCat  = "MOOD-%d"
	ISODurationNeg = "-P"
	ISODurationPos = "P"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormatISO     = "2006-01-02"
	DateFormatRFC3339 = time.RFC3339
	DateFormatNoZone  = "2006-01-02T15:04:05"

	// Limits
	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteCalendar = "/calendar.ics"
	RouteMonth    = "GET /api/month"
	RouteStats    = "GET /api/stats"
	RouteDay      = "GET /api/day"

	QueryDate = "date"
	QueryLang = "lang"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAPIKey          = "apikey"
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderAcceptLanguage  = "Accept-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeJSONAccept      = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag   = `"%s"`
	FormatBearer = "Bearer %s"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrLangUnsupported  = "unsupported language"
	ErrRefreshInterval  = "refresh interval must be positive"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrURLEmpty         = "configuration error: API URL is empty"
	ErrKeyEmpty         = "configuration error: API key is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrStoreMissing     = "internal error: entry store is not initialized"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrRowsDecode       = "failed to decode entry rows"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrEntryNotFound    = "entry not found"
	ErrEmptyContent     = "entry content is empty"
	ErrMoodRange        = "mood must be between 1 and 5"
	ErrMissingJournal   = "entry journal is required"
	ErrOpenDB           = "open sqlite database"
	ErrPingDB           = "ping database"
	ErrMigrate          = "run migrations"
	ErrStoreQuery       = "query entries"
	ErrStoreWrite       = "write entry"
	ErrKeyringGet       = "failed to read API key from keyring"
	ErrKeyringSet       = "failed to store API key in keyring"
	ErrLoadEntries      = "failed to load entries"
	ErrWriteOutput      = "failed to write output"
	ErrEnvFile          = "failed to load env file"
	ErrReminderFormat   = "reminder must be an ISO 8601 duration such as -PT1H"
	ErrCreateDBDir      = "create db directory"
	ErrMigrateOpen      = "open migration database"
	ErrMigrateDriver    = "create sqlite driver"
	ErrMigrateSource    = "create iofs source"
	ErrMigrateInstance  = "create migrate instance"
	ErrMigrateApply     = "apply migrations"
	ErrScanTimestamp    = "parse entry timestamp"
	ErrCreateRequest    = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
	HTTPMsgBadDate      = "Invalid date parameter"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Journal entry %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgRefreshStarted = "Calendar refresh started"
	MsgGenSuccess     = "Calendar generation successful"
	MsgEntryToday     = "Entry found today"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgRefreshFailed  = "Calendar refresh failed"
	MsgAppStop        = "Application stopped gracefully"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgSkippedRow     = "Skipping row with invalid entry date"
	MsgImportDone     = "Entries imported"
	MsgEntrySaved     = "Entry saved"
	MsgEntryDeleted   = "Entry deleted"
	MsgMonthServed    = "Month grid served"
	MsgDBOpened       = "Database opened"
	MsgKeySaved       = "API key stored in keyring"
	MsgRemoteDisabled = "Remote sync disabled"
	MsgFetchStart     = "Initiating entries download"
	MsgFetchBadStatus = "Server returned error status"
	MsgFetchStreaming = "Entries downloading"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyInterval  = "interval"
	LogKeyTotal     = "total_entries"
	LogKeyExported  = "exported"
	LogKeyToday     = "entries_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyID        = "id"
	LogKeyDate      = "date"
	LogKeyMonth     = "month"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompExport   = "export"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompImporter = "importer"
	CompStorage  = "storage"
	CompWorker   = "worker"
	CompMain     = "main"
	CompI18n     = "i18n"
)
