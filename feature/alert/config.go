package alert

// Thresholds decides how loud a failed reconciliation is. Read-only after startup.
type Thresholds struct {
	// WarnRatio is the failed share above which a discrepancy alert is CRITICAL.
	WarnRatio float64 `mapstructure:"warn_ratio" default:"0.05"`
	// PauseRatio is the failed share above which the sale is paused.
	PauseRatio float64 `mapstructure:"pause_ratio" default:"0.1"`
	// CriticalMagnitude pauses the sale when any single discrepancy exceeds
	// it in absolute value. Zero disables the check.
	CriticalMagnitude int64 `mapstructure:"critical_magnitude" default:"0"`
}
