package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilcors-dev/clipclip/internal/app"
	"github.com/ilcors-dev/clipclip/internal/config"
)

const defaultConfigPath = "config.json"

func usage() {
	programName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `Usage: %s [options]

Listens on a microphone for the "fai la clip" wake word and presses a key
chord (alt+f10 by default) every time it is heard.

Options:
[Files]
  -config <string>
        config file (JSON). Without it ./config.json is read when present.
  -env-file <string>
        dotenv file holding PORCUPINE_ACCESS_KEY (default ".env")
  -init-config
        write a default config.json and exit
  -list-devices
        print the input devices of the selected recorder and exit

[Engine]
  -access-key <string>
        Porcupine access key (overrides PORCUPINE_ACCESS_KEY)
  -wake-word-dir <string>
        directory holding the wake_words folder (default: working directory)
  -keyword <string>
        keyword (.ppn) file, overrides the platform default
  -model <string>
        model (.pv) file
  -sensitivity <float>
        detection sensitivity between 0 and 1 (default 0.5)

[Audio]
  -recorder <string>
        pvrecorder (default), portaudio or wav
  -device <int>
        input device index; -1 asks on startup (default -1)
  -input-wav <string>
        16-bit WAV file replayed by the wav recorder
  -buffered-frames <int>
        pvrecorder buffered frame count (default 50)

[Action]
  -injector <string>
        keybd (default), robotgo or none
  -chord <string>
        chord pressed on detection (default "alt+f10")
  -notification <true|false>
        desktop notification on detection (default false)

[Snapshots]
  -snapshot-dir <string>
        write the last seconds of audio to a WAV file on every detection
  -snapshot-seconds <float>
        snapshot length in seconds (default 2)
  -snapshot-keep <int>
        snapshots kept on startup, 0 keeps all (default 20)

[Debug]
  -listen-debug, -record-debug, -inject-debug <true|false>

  -h, -help, -?
        show this help

Examples:
  %s
  %s -device 0 -chord ctrl+shift+k
  %s -recorder wav -input-wav sample.wav -injector none

Notes:
- Precedence: command line flags > config file > defaults
- Exit codes: 0 ok, 1 setup, 2 invalid input, 3 runtime, 4 unsupported platform
`, programName, programName, programName, programName)
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = usage
	configPath := flag.String("config", "", "path to config JSON")
	envPath := flag.String("env-file", ".env", "dotenv file holding "+config.AccessKeyEnv)
	initConfig := flag.Bool("init-config", false, "write a default config.json and exit")
	listDevices := flag.Bool("list-devices", false, "list input devices and exit")
	fv := config.BindFlags(flag.CommandLine)

	help := flag.Bool("h", false, "show help")
	help2 := flag.Bool("help", false, "show help")
	help3 := flag.Bool("?", false, "show help")

	flag.Parse()
	if *help || *help2 || *help3 {
		usage()
		return 0
	}

	if *initConfig {
		path := defaultConfigPath
		if *configPath != "" {
			path = *configPath
		}
		if err := config.SaveDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "[main] failed to write default config: %v\n", err)
			return 1
		}
		fmt.Printf("[main] default config created at %s\n", path)
		return 0
	}

	cfg, err := loadConfig(*configPath, fv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[main] %v\n", err)
		return 1
	}
	config.ApplyFlags(&cfg, fv)
	if err := config.Validate(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "[main] invalid config: %v\n", err)
		return 1
	}

	if *listDevices {
		if err := app.RunListDevices(cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "[main] %v\n", err)
			return app.ExitCode(err)
		}
		return 0
	}

	if err := config.ResolveAccessKey(&cfg, *envPath); err != nil {
		fmt.Fprintf(os.Stderr, "[main] %v\n", err)
		return 1
	}

	logf := func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}
	if err := app.RunListen(cfg, os.Stdin, os.Stdout, logf); err != nil {
		fmt.Fprintf(os.Stderr, "[main] %v\n", err)
		return app.ExitCode(err)
	}
	return 0
}

// loadConfig reads -config when given, else ./config.json when present, else
// the defaults. Running with neither a config file nor flags prints a hint.
func loadConfig(path string, fv *config.FlagValues) (config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config '%s': %w", path, err)
		}
		return cfg, nil
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		cfg, err := config.Load(defaultConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load existing %s: %w", defaultConfigPath, err)
		}
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return config.Config{}, fmt.Errorf("failed to stat %s: %w", defaultConfigPath, err)
	}
	if !fv.AnySet() {
		fmt.Printf("[main] no %s found, using defaults (run with -init-config to create one)\n", defaultConfigPath)
	}
	return config.DefaultConfig(), nil
}
