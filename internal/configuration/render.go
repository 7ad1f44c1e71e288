package configuration

import (
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigYaml renders the default configuration as a YAML document
// that can be used as a starting point for a configuration file.
func DefaultConfigYaml() ([]byte, error) {
	v := viper.New()
	setDefaultValues(v)
	return yaml.Marshal(renderableSettings(v.AllSettings()))
}

// durations are rendered in their string form, bare numbers would
// be read back as seconds
func renderableSettings(settings map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(settings))
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]interface{}:
			result[key] = renderableSettings(v)
		case time.Duration:
			result[key] = v.String()
		default:
			result[key] = v
		}
	}
	return result
}
