package gate

// GateConfig is the base configuration for all gates.
// This is typically loaded from YAML configuration files.
type GateConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "feature_adoption"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"` // Gate-specific parameters
}

// GetInt retrieves an integer value from parameters with a default.
func (c *GateConfig) GetInt(key string, defaultValue int) int {
	if val, ok := c.Parameters[key]; ok {
		if intVal, ok := val.(int); ok {
			return intVal
		}
		// YAML numbers may decode as float64
		if floatVal, ok := val.(float64); ok {
			return int(floatVal)
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from parameters with a default.
func (c *GateConfig) GetFloat(key string, defaultValue float64) float64 {
	if val, ok := c.Parameters[key]; ok {
		if floatVal, ok := val.(float64); ok {
			return floatVal
		}
		if intVal, ok := val.(int); ok {
			return float64(intVal)
		}
	}
	return defaultValue
}

// GetString retrieves a string value from parameters with a default.
func (c *GateConfig) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from parameters with a default.
func (c *GateConfig) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// GetFloatSlice retrieves a float slice parameter with a default. Used for
// wait-day schedules configured in YAML.
func (c *GateConfig) GetFloatSlice(key string, defaultValue []float64) []float64 {
	val, ok := c.Parameters[key]
	if !ok {
		return defaultValue
	}

	items, ok := val.([]interface{})
	if !ok {
		return defaultValue
	}

	result := make([]float64, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			result = append(result, v)
		case int:
			result = append(result, float64(v))
		default:
			return defaultValue
		}
	}
	return result
}
