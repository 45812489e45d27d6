// Package appconfig loads the benchmark driver's environment-sourced
// defaults. Adapted from dcfr-go's appconfig.go, which reads an (empty,
// there) config struct via cleanenv.ReadEnv; here the struct carries the
// real fields the CLI table names, each overridable by the matching flag
// main.go registers.
package appconfig

import "github.com/ilyakaznacheev/cleanenv"

// AppConfig holds the env-var-sourced defaults for every benchmark-driver
// flag. Field names mirror the flags with Go casing; env tags use the flag
// name upper-cased, so `--fp_iters` and env var FP_ITERS agree.
type AppConfig struct {
	FPIters    int    `env:"FP_ITERS" env-default:"1024" env-description:"fictitious-play/CFR iteration count per subgame solve"`
	MDPDepth   int    `env:"MDP_DEPTH" env-default:"2" env-description:"subgame unroll depth"`
	NumThreads int    `env:"NUM_THREADS" env-default:"10" env-description:"self-play worker count"`
	PerGPU     int    `env:"PER_GPU" env-default:"1" env-description:"value-network client replicas per device"`
	NumCycles  int    `env:"NUM_CYCLES" env-default:"6" env-description:"reporting cycles, 10s each"`
	Device     string `env:"DEVICE" env-default:"cuda:1" env-description:"host device id, informational only here"`
	Net        string `env:"NET" env-description:"value-network gRPC address; empty runs the local NullNet+replay fallback"`
	ReplayPath string `env:"REPLAY_PATH" env-default:"replay.db" env-description:"sqlite path backing the local replay buffer"`
}

// LoadAppConfig reads AppConfig from the environment, falling back to each
// field's env-default when unset.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
