// internal/flows/scoring/estimate-quality/config.go
package estimatequality

import "math/rand/v2"

// JitterSource returns a value in [-10, 10] added to basic-branch scores.
type JitterSource func() float64

type Config struct {
	Jitter JitterSource
}

func LoadConfig() *Config {
	return &Config{
		Jitter: UniformJitter,
	}
}

// UniformJitter draws from U[-10, 10].
func UniformJitter() float64 {
	return rand.Float64()*20 - 10
}

// NoJitter pins the basic branch to its deterministic value.
func NoJitter() float64 {
	return 0
}
