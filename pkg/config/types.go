package config

// CacheCfg mirrors the cache section of a config file. Durations are plain
// millisecond integers on disk; ToOptions converts them.
type CacheCfg struct {
	ClearExpiredMs int  `toml:"clear_expired_ms" yaml:"clear_expired_ms"`
	LiveTimeMs     int  `toml:"live_time_ms" yaml:"live_time_ms"`
	MaxSizeKb      int  `toml:"max_size_kb" yaml:"max_size_kb"`
	Sweep          bool `toml:"sweep" yaml:"sweep"`
	Debug          bool `toml:"debug" yaml:"debug"`
}

// SystemCfg is the root of a config file.
type SystemCfg struct {
	ID    string   `toml:"id" yaml:"id"`
	Cache CacheCfg `toml:"cache" yaml:"cache"`
}
