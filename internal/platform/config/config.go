package config

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Engine  EngineConfig  `yaml:"engine"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// StorageConfig controls where sample files and the record index live.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	DBFile  string `yaml:"db_file"`
}

// EngineConfig carries every validation and readiness threshold. Components
// receive it at construction so tests can tighten or loosen limits without
// touching process-wide state.
type EngineConfig struct {
	MinDuration         float64 `yaml:"min_duration"`          // seconds
	MaxDuration         float64 `yaml:"max_duration"`          // seconds
	RecommendedDuration float64 `yaml:"recommended_duration"`  // seconds
	MinQualityScore     float64 `yaml:"min_quality_score"`     // composite score floor
	MaxNoiseLevel       float64 `yaml:"max_noise_level"`       // mean gap amplitude ceiling
	MinVoiceSegments    int     `yaml:"min_voice_segments"`    // per sample
	VarietyFactor       float64 `yaml:"variety_factor"`        // stddev > factor*mean
	SilenceThresholdDB  float64 `yaml:"silence_threshold_db"`  // VAD floor below peak
	MinSamples          int     `yaml:"min_samples"`           // readiness floor
	MaxSamples          int     `yaml:"max_samples"`           // collection capacity
	MinTotalDuration    float64 `yaml:"min_total_duration"`    // seconds, readiness floor
	ListConcurrency     int     `yaml:"list_concurrency"`      // bounded recompute workers
}
