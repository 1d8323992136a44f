package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	clerrors "github.com/jmurray2011/logid/internal/errors"
	"github.com/jmurray2011/logid/internal/logquery"
	"github.com/jmurray2011/logid/internal/ui"
	"github.com/jmurray2011/logid/pkg/timeutil"
)

const metaPreviewLen = 120

// jsonResult is the serialized form of a logquery.Result with the optional
// sections gated by Options.
type jsonResult struct {
	LogID             string               `json:"logid"`
	Region            string               `json:"region"`
	RegionDisplayName string               `json:"region_display_name"`
	TotalItems        int                  `json:"total_items"`
	Messages          []logquery.Message   `json:"messages"`
	Timestamp         string               `json:"timestamp"`
	Meta              *logquery.LogMeta    `json:"meta,omitempty"`
	ScanTimeRange     []logquery.TimeRange `json:"scan_time_range,omitempty"`
	TagInfos          []json.RawMessage    `json:"tag_infos,omitempty"`
}

type jsonFailure struct {
	Region string `json:"region"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// FormatResult outputs a single-region result in the configured format.
func (f *Formatter) FormatResult(res *logquery.Result) error {
	switch f.format {
	case FormatText:
		f.formatResultText(res)
		return nil
	default:
		return f.writeJSON(f.toJSON(res))
	}
}

// FormatOutcomes outputs a multi-region result. Every region appears exactly
// once, either with its result or with its error.
func (f *Formatter) FormatOutcomes(logID string, outcomes map[string]logquery.Outcome) error {
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if f.format == FormatText {
		for i, k := range keys {
			if i > 0 {
				f.renderer.Newline()
			}
			o := outcomes[k]
			if o.Err != nil {
				f.renderer.RegionFailure(k, o.Err)
				continue
			}
			f.formatResultText(o.Result)
		}
		return nil
	}

	regions := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		o := outcomes[k]
		if o.Err != nil {
			regions[k] = jsonFailure{
				Region: k,
				Kind:   clerrors.KindOf(o.Err).String(),
				Error:  o.Err.Error(),
			}
			continue
		}
		regions[k] = f.toJSON(o.Result)
	}
	return f.writeJSON(struct {
		LogID   string                 `json:"logid"`
		Regions map[string]interface{} `json:"regions"`
	}{LogID: logID, Regions: regions})
}

func (f *Formatter) toJSON(res *logquery.Result) jsonResult {
	out := jsonResult{
		LogID:             res.LogID,
		Region:            res.Region,
		RegionDisplayName: res.RegionDisplayName,
		TotalItems:        res.TotalItems,
		Messages:          res.Messages,
		Timestamp:         res.Timestamp.UTC().Format(time.RFC3339),
	}
	if out.Messages == nil {
		out.Messages = []logquery.Message{}
	}
	if f.opts.ShowMetadata {
		out.Meta = res.Meta
	}
	if f.opts.ShowScanTimeRange {
		out.ScanTimeRange = res.ScanTimeRange
	}
	if f.opts.ShowTagInfos {
		out.TagInfos = res.TagInfos
	}
	return out
}

func (f *Formatter) formatResultText(res *logquery.Result) {
	r := f.renderer

	r.KeyValue("Log ID", res.LogID)
	r.KeyValue("Region", fmt.Sprintf("%s (%s)", res.RegionDisplayName, res.Region))
	r.KeyValue("Queried at", res.Timestamp.UTC().Format(timeutil.Layout))
	r.KeyValue("Items", fmt.Sprintf("%d (%d messages)", res.TotalItems, len(res.Messages)))

	if f.opts.ShowScanTimeRange {
		for _, tr := range res.ScanTimeRange {
			r.KeyValue("Scan range", timeutil.FormatRange(tr.Start, tr.End))
		}
	}

	if f.opts.ShowMetadata && res.Meta != nil {
		if len(res.Meta.LevelList) > 0 {
			r.KeyValue("Levels", strings.Join(res.Meta.LevelList, ", "))
		}
		other := make([]string, 0, len(res.Meta.Other))
		for k := range res.Meta.Other {
			other = append(other, k)
		}
		sort.Strings(other)
		if len(other) > 0 {
			r.Section("Metadata")
		}
		for _, k := range other {
			r.KeyValueIndent(k, truncateMessage(string(res.Meta.Other[k]), metaPreviewLen), 1)
		}
	}

	if f.opts.ShowTagInfos {
		for _, tag := range res.TagInfos {
			r.KeyValue("Tag", truncateMessage(string(tag), metaPreviewLen))
		}
	}

	r.Divider()
	if len(res.Messages) == 0 {
		r.NoResults()
		return
	}

	for i, m := range res.Messages {
		if i > 0 {
			r.Newline()
		}
		lines := make([]string, len(m.Values))
		for j, v := range m.Values {
			lines[j] = v.Value
		}
		r.LogMessage(ui.LogMessage{
			Index:    i + 1,
			ID:       m.ID,
			Level:    m.Level,
			Origin:   origin(m.Group),
			Location: m.Location,
			Lines:    lines,
		})
	}
}

// origin describes where a message came from, e.g. "svc.api @ api-0 [useast5]".
func origin(g logquery.LogGroup) string {
	s := g.PSM
	host := g.PodName
	if host == "" {
		host = g.IPv4
	}
	if host != "" {
		if s != "" {
			s += " @ "
		}
		s += host
	}
	if g.IDC != "" {
		s += " [" + g.IDC + "]"
	}
	return strings.TrimSpace(s)
}
