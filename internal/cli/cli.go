package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/vk/ts-dumper/internal/app"
	"github.com/vk/ts-dumper/internal/hclprofile"
)

// TraceEnvVar enables full tracebacks when set, equivalent to passing -x.
const TraceEnvVar = "VSS_EM_EXC"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string { return e.Message }

// envConfig maps TSDUMPER_* environment variables onto CLI options. Values
// rank between explicit flags and the profile file.
type envConfig struct {
	CollectionName string `env:"TSDUMPER_COLLECTION_NAME"`
	Username       string `env:"TSDUMPER_USERNAME"`
	Password       string `env:"TSDUMPER_PASSWORD"`
	TargetDir      string `env:"TSDUMPER_TARGET_DIR"`
	Verbosity      string `env:"TSDUMPER_VERBOSITY"`
	LogFormat      string `env:"TSDUMPER_LOG_FORMAT"`
	BaseURL        string `env:"TSDUMPER_BASE_URL"`
	ConfigPath     string `env:"TSDUMPER_CONFIG"`
}

const usageText = `ts-dumper - Dump transcripts from Transkribus.eu to single files.

Usage:
  ts-dumper [OPTIONS]

Options:
  -v, --verbosity LVL     one of CRITICAL|ERROR|WARNING|INFO|DEBUG (default WARNING)
  --version               print version and exit
  --collection-name TEXT  collection to dump (required; matched case-sensitively)
  --username TEXT         Transkribus username (required)
  --password TEXT         Transkribus password (prompted when omitted)
  --target-dir PATH       directory where files are written (default: current directory)
  --config PATH           HCL profile supplying option defaults
  --log-format FMT        log output format, 'text' or 'json' (default text)
  --workers N             concurrent page fetches (default 1)
  --base-url URL          Transkribus REST endpoint
  --timeout DUR           per-request HTTP timeout (default 30s)
  -x                      print full traceback on error; also settable via
                          the VSS_EM_EXC environment variable
  --help                  print this message and exit
`

// Parse processes command-line arguments. It returns a validated
// app.Config, a boolean indicating the program should exit cleanly (help or
// version), or an ExitError carrying the configuration exit code.
//
// Option precedence: explicit flag > TSDUMPER_* environment variable >
// profile file > built-in default. A .env file in the working directory is
// loaded first when present.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	_ = godotenv.Load()

	flagSet := flag.NewFlagSet(app.Name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() { fmt.Fprint(output, usageText) }

	verbosityFlag := flagSet.String("verbosity", "", "logging verbosity")
	vFlag := flagSet.String("v", "", "logging verbosity (shorthand)")
	versionFlag := flagSet.Bool("version", false, "print version and exit")
	collectionFlag := flagSet.String("collection-name", "", "collection name")
	usernameFlag := flagSet.String("username", "", "Transkribus username")
	passwordFlag := flagSet.String("password", "", "Transkribus password")
	targetDirFlag := flagSet.String("target-dir", "", "target directory")
	configFlag := flagSet.String("config", "", "HCL profile path")
	logFormatFlag := flagSet.String("log-format", "", "log output format")
	workersFlag := flagSet.Int("workers", 0, "concurrent page fetches")
	baseURLFlag := flagSet.String("base-url", "", "service endpoint")
	timeoutFlag := flagSet.Duration("timeout", 0, "per-request timeout")
	traceFlag := flagSet.Bool("x", false, "print full traceback on error")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}

	if *versionFlag {
		fmt.Fprintf(output, "%s v%s\n", app.Name, app.Version)
		return nil, true, nil
	}

	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	var profile hclprofile.Profile
	if configPath := firstNonEmpty(*configFlag, envCfg.ConfigPath); configPath != "" {
		p, err := hclprofile.Load(configPath)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		profile = *p
	}

	collection := firstNonEmpty(*collectionFlag, envCfg.CollectionName, profile.CollectionName)
	username := firstNonEmpty(*usernameFlag, envCfg.Username, profile.Username)
	password := firstNonEmpty(*passwordFlag, envCfg.Password, profile.Password)
	targetDir := firstNonEmpty(*targetDirFlag, envCfg.TargetDir, profile.TargetDir, ".")
	verbosity := strings.ToUpper(firstNonEmpty(*verbosityFlag, *vFlag, envCfg.Verbosity, profile.Verbosity, "WARNING"))
	logFormat := strings.ToLower(firstNonEmpty(*logFormatFlag, envCfg.LogFormat, profile.LogFormat, "text"))
	baseURL := firstNonEmpty(*baseURLFlag, envCfg.BaseURL, profile.BaseURL)
	workers := *workersFlag
	if workers == 0 {
		workers = profile.Workers
	}

	if collection == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required option --collection-name"}
	}
	if username == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required option --username"}
	}
	if password == "" {
		pw, err := promptPassword(output)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		password = pw
	}

	trace := *traceFlag || os.Getenv(TraceEnvVar) != ""

	cfg, err := app.NewConfig(app.Config{
		CollectionName: collection,
		Username:       username,
		Password:       password,
		TargetDir:      targetDir,
		BaseURL:        baseURL,
		Timeout:        *timeoutFlag,
		Verbosity:      verbosity,
		LogFormat:      logFormat,
		Workers:        workers,
		ShowTrace:      trace,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}

// firstNonEmpty returns the first value that is not the empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
