package config

// Profile is the TOML-editable form of an encoding profile. When jobs are
// built, the CLI commands snapshot a Profile into an immutable
// encodeconfig.Config (see encodeconfig.FromProfile) that travels with the
// Job for its lifetime; editing
// a Profile afterward never affects jobs already queued.
type Profile struct {
	Name string `toml:"name"`

	CodecFamily     string `toml:"codec_family"`      // "vp9" | "av1"
	Backend         string `toml:"backend"`            // "software" | "qsv" | "vaapi" | "nvenc"
	RateControlMode string `toml:"rate_control_mode"` // "cq" | "cqcap" | "twopass_vbr" | "cbr" | "cqp"

	Quality           int `toml:"quality"`
	TargetBitrateKbps int `toml:"target_bitrate_kbps"`
	MaxBitrateKbps    int `toml:"max_bitrate_kbps"`
	BufferSizeKbps    int `toml:"buffer_size_kbps"`

	Preset string `toml:"preset"`

	PixelFormatPolicy string `toml:"pixel_format_policy"` // "auto" | "fixed"
	FixedPixelFormat  string `toml:"fixed_pixel_format"`

	RowMT       bool `toml:"row_mt"`
	TileColsLog2 int `toml:"tile_cols_log2"`
	TileRowsLog2 int `toml:"tile_rows_log2"`
	Threads      int `toml:"threads"`
	LagInFrames  int `toml:"lag_in_frames"`

	KeyframeInterval    int `toml:"keyframe_interval"`
	MinKeyframeInterval int `toml:"min_keyframe_interval"`

	ARNRStrength    int  `toml:"arnr_strength"`
	ARNRMaxFrames   int  `toml:"arnr_max_frames"`
	ARNRType        int  `toml:"arnr_type"`
	AutoAltRef      bool `toml:"auto_alt_ref"`
	ErrorResilience bool `toml:"error_resilience"`

	TonemapHDR   bool `toml:"tonemap_hdr"`
	ScaleWidth   int  `toml:"scale_width"`
	ScaleHeight  int  `toml:"scale_height"`
	Deinterlace  bool `toml:"deinterlace"`

	AudioPolicy             string `toml:"audio_policy"` // "copy" | "encode"
	AudioCodec              string `toml:"audio_codec"`
	AudioBitrateKbps        int    `toml:"audio_bitrate_kbps"`
	AudioChannels           int    `toml:"audio_channels"`
	SecondaryAC3            bool   `toml:"secondary_ac3"`
	SecondaryAC3BitrateKbps int    `toml:"secondary_ac3_bitrate_kbps"`

	AdditionalArgs []string `toml:"additional_args"`

	AutoVMAF AutoVMAF `toml:"auto_vmaf"`
}

// AutoVMAF configures the calibration loop for a profile.
type AutoVMAF struct {
	Enabled               bool    `toml:"enabled"`
	TargetScore           float64 `toml:"target_score"`
	QualityStep           int     `toml:"quality_step"`
	MaxAttempts           int     `toml:"max_attempts"`
	WindowSeconds         float64 `toml:"window_seconds"`
	AnalysisBudgetSeconds float64 `toml:"analysis_budget_seconds"`
	FrameSubsampleStride  int     `toml:"frame_subsample_stride"`
}
