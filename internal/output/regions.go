package output

import (
	"strings"

	"github.com/jmurray2011/logid/internal/region"
)

// FormatRegions outputs the region registry in the configured format.
func (f *Formatter) FormatRegions(regions []region.Region) error {
	if f.format == FormatText {
		f.formatRegionsText(regions)
		return nil
	}

	type jsonRegion struct {
		Key         string   `json:"key"`
		DisplayName string   `json:"display_name"`
		Configured  bool     `json:"configured"`
		SessionVar  string   `json:"session_var"`
		AuthURL     string   `json:"auth_url"`
		LogURL      string   `json:"log_url,omitempty"`
		VRegion     string   `json:"vregion,omitempty"`
		Zones       []string `json:"zones,omitempty"`
	}

	out := make([]jsonRegion, len(regions))
	for i, r := range regions {
		out[i] = jsonRegion{
			Key:         r.Key,
			DisplayName: r.DisplayName,
			Configured:  r.IsConfigured(),
			SessionVar:  r.SessionVar,
			AuthURL:     r.AuthURL,
			LogURL:      r.LogURL,
			VRegion:     r.VRegion,
			Zones:       r.Zones,
		}
	}
	return f.writeJSON(out)
}

func (f *Formatter) formatRegionsText(regions []region.Region) {
	rows := make([][]string, len(regions))
	for i, r := range regions {
		status := "configured"
		if !r.IsConfigured() {
			status = "not configured"
		}
		rows[i] = []string{r.Key, r.DisplayName, status, r.SessionVar, strings.Join(r.Zones, ",")}
	}
	f.renderer.Table([]string{"KEY", "NAME", "STATUS", "CREDENTIAL", "ZONES"}, rows)
	f.renderer.Newline()
	f.renderer.Muted("Each region falls back to %s when its own credential is unset.", region.GenericSessionVar)
}
