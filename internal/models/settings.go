package models

const (
	SettingAppName     = "app_name"
	SettingAppLogoURL  = "app_logo_url"
	SettingAppLogoPath = "app_logo_path"

	DefaultAppName = "SAS Financier"
)

// Setting is one app_settings/{key} document.
type Setting struct {
	Key   string `firestore:"settingKey" json:"settingKey"`
	Value string `firestore:"settingValue" json:"settingValue"`
}

type AppSettings struct {
	AppName    string `json:"appName"`
	AppLogoURL string `json:"appLogoUrl"`
	logoPath   string
}

// LogoPath is the object path of the current logo, empty when none.
func (a AppSettings) LogoPath() string { return a.logoPath }

func DefaultAppSettings() AppSettings {
	return AppSettings{AppName: DefaultAppName}
}

// AppSettingsFrom folds setting documents over the defaults. Empty values
// keep the default.
func AppSettingsFrom(settings []Setting) AppSettings {
	out := DefaultAppSettings()
	for _, s := range settings {
		switch s.Key {
		case SettingAppName:
			if s.Value != "" {
				out.AppName = s.Value
			}
		case SettingAppLogoURL:
			out.AppLogoURL = s.Value
		case SettingAppLogoPath:
			out.logoPath = s.Value
		}
	}
	return out
}
