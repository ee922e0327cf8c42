package models

type Tab string

const (
	TabLeads         Tab = "leads"
	TabOpportunities Tab = "opportunities"
	TabAnalytics     Tab = "analytics"
)

func (t Tab) Valid() bool {
	return t == TabLeads || t == TabOpportunities || t == TabAnalytics
}

// UIState is the persisted slice of dashboard state outside the business collections.
type UIState struct {
	ActiveTab        Tab  `json:"activeTab"`
	ShortcutsEnabled bool `json:"shortcutsEnabled"`
}

func DefaultUIState() UIState {
	return UIState{ActiveTab: TabLeads, ShortcutsEnabled: true}
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const DefaultTheme = ThemeLight

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}
