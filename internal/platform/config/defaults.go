package config

// DefaultConfig returns the built-in configuration. Threshold values follow
// the sample acceptance policy the training pipeline expects.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "voiceforge.log",
		},
		Storage: StorageConfig{
			DataDir: "data/user_data",
			DBFile:  "data/voiceforge.db",
		},
		Engine: DefaultEngineConfig(),
	}
}

// DefaultEngineConfig returns the stock validation thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MinDuration:         30,
		MaxDuration:         300,
		RecommendedDuration: 180,
		MinQualityScore:     0.7,
		MaxNoiseLevel:       0.3,
		MinVoiceSegments:    3,
		VarietyFactor:       0.3,
		SilenceThresholdDB:  -20,
		MinSamples:          10,
		MaxSamples:          50,
		MinTotalDuration:    300,
		ListConcurrency:     4,
	}
}

// normalize fills zero values with defaults after loading a partial file.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Dir == "" {
		c.Log.Dir = def.Log.Dir
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = def.Storage.DataDir
	}
	if c.Storage.DBFile == "" {
		c.Storage.DBFile = def.Storage.DBFile
	}

	e := &c.Engine
	defE := def.Engine
	if e.MinDuration <= 0 {
		e.MinDuration = defE.MinDuration
	}
	if e.MaxDuration <= 0 {
		e.MaxDuration = defE.MaxDuration
	}
	if e.RecommendedDuration <= 0 {
		e.RecommendedDuration = defE.RecommendedDuration
	}
	if e.MinQualityScore <= 0 {
		e.MinQualityScore = defE.MinQualityScore
	}
	if e.MaxNoiseLevel <= 0 {
		e.MaxNoiseLevel = defE.MaxNoiseLevel
	}
	if e.MinVoiceSegments <= 0 {
		e.MinVoiceSegments = defE.MinVoiceSegments
	}
	if e.VarietyFactor <= 0 {
		e.VarietyFactor = defE.VarietyFactor
	}
	if e.SilenceThresholdDB >= 0 {
		e.SilenceThresholdDB = defE.SilenceThresholdDB
	}
	if e.MinSamples <= 0 {
		e.MinSamples = defE.MinSamples
	}
	if e.MaxSamples <= 0 {
		e.MaxSamples = defE.MaxSamples
	}
	if e.MinTotalDuration <= 0 {
		e.MinTotalDuration = defE.MinTotalDuration
	}
	if e.ListConcurrency <= 0 {
		e.ListConcurrency = defE.ListConcurrency
	}
}
