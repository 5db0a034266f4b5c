package widget

import (
	"fmt"
	"sync"
)

const SCRIPT_URL = "https://widget.simplybook.me/v2/widget/widget.js"

// Widget is the resolved handle to the vendor's booking overlay: where its
// script lives, the hosted page to fall back to when the script can't be
// used, and the embed config the page passes to it.
type Widget struct {
	ScriptURL   string            `json:"scriptUrl"`
	HostedURL   string            `json:"hostedUrl"`
	WidgetType  string            `json:"widget_type"`
	Theme       string            `json:"theme"`
	ThemeColors map[string]string `json:"theme_settings"`
}

// Loader resolves the widget handle once per process. The external widget is
// a shared resource; resolving it twice would double-inject the vendor
// script on the page.
type Loader struct {
	company string

	once   sync.Once
	widget *Widget
	err    error
}

func NewLoader(company string) *Loader {
	return &Loader{company: company}
}

// Resolve returns the widget handle, or an explicit "not available" error
// when the company subdomain is unconfigured. Callers without a handle
// should send visitors to the vendor's hosted page instead.
func (l *Loader) Resolve() (*Widget, error) {
	l.once.Do(func() {
		if l.company == "" {
			l.err = fmt.Errorf("booking widget unavailable: SIMPLYBOOK_COMPANY is not set")
			return
		}
		l.widget = &Widget{
			ScriptURL:  SCRIPT_URL,
			HostedURL:  fmt.Sprintf("https://%s.simplybook.me", l.company),
			WidgetType: "button",
			Theme:      "default",
			ThemeColors: map[string]string{
				"timeline_hide_unavailable": "1",
				"hide_past_days":            "0",
				"timeline_modern_display":   "as_table",
				"sb_base_color":             "#2563eb",
				"btn_color_1":               "#1d4ed8",
				"link_color":                "#2563eb",
				"display_item_mode":         "block",
			},
		}
	})
	return l.widget, l.err
}
