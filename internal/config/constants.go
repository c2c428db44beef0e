// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "ReadKeep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort         = ":8080"
	DefaultLogLevel           = "info"
	DefaultTimezone           = "Europe/Samara"
	DefaultStreakLookbackDays = 90
	DefaultPlanMaxDays        = 92
	DefaultJWTExpiryMinutes   = 60 * 24
)
