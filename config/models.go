package config

import "time"

// Known gateways. The registry in internal/gateway has one constructor for each.
const (
	GatewayGroupMe = "groupme"
	GatewayDryRun  = "dryrun"
)

type Config struct {
	Verbose  bool    `mapstructure:"verbose"`
	Gateway  string  `mapstructure:"gateway"`
	Timezone string  `mapstructure:"timezone"`
	Schedule string  `mapstructure:"schedule"`
	Google   Google  `mapstructure:"google"`
	GroupMe  GroupMe `mapstructure:"groupme"`
	Sheets   []Sheet `mapstructure:"sheets"`
}

// Google holds Sheets API credentials. A service account is used unless CredentialsFile
// points at OAuth client secrets, in which case TokenFile stores the user's token.
type Google struct {
	ServiceAccountFile string   `mapstructure:"service_account_file"`
	CredentialsFile    string   `mapstructure:"credentials_file"`
	TokenFile          string   `mapstructure:"token_file"`
	Scopes             []string `mapstructure:"scopes"`
}

type GroupMe struct {
	Token             string        `mapstructure:"token"`
	BaseURL           string        `mapstructure:"base_url"`
	SelfName          string        `mapstructure:"self_name"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout"`
	Retry             Retry         `mapstructure:"retry"`
}

type Retry struct {
	Attempts     int           `mapstructure:"attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// Sheet is one schedule to process. It is read from SpreadsheetID through the Sheets API,
// or from File when it names a local .xlsx workbook.
type Sheet struct {
	Name          string `mapstructure:"name"`
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	Worksheet     string `mapstructure:"worksheet"`
	Range         string `mapstructure:"range"`
	File          string `mapstructure:"file"`
}
