package logquery

import (
	"encoding/json"
	"time"
)

// ScanWindowMinutes is the fixed scan window sent with every query.
const ScanWindowMinutes = 10

// Request is the JSON body POSTed to a region's log endpoint.
type Request struct {
	LogID         string   `json:"logid"`
	PSMList       []string `json:"psm_list,omitempty"`
	ScanSpanInMin int      `json:"scan_span_in_min"`
	VRegion       string   `json:"vregion"`
}

// NewRequest builds a request for logID. Empty and repeated PSM names are
// dropped; the first occurrence keeps its position.
func NewRequest(logID string, psm []string, vregion string) Request {
	var list []string
	seen := make(map[string]struct{}, len(psm))
	for _, p := range psm {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		list = append(list, p)
	}
	return Request{
		LogID:         logID,
		PSMList:       list,
		ScanSpanInMin: ScanWindowMinutes,
		VRegion:       vregion,
	}
}

// LogData is the payload holding the matched items.
type LogData struct {
	Items    []LogItem         `json:"items"`
	Meta     *LogMeta          `json:"meta,omitempty"`
	TagInfos []json.RawMessage `json:"tag_infos,omitempty"`
}

// LogItem groups the log lines emitted by one service instance.
type LogItem struct {
	ID    string     `json:"id"`
	Group LogGroup   `json:"group"`
	Value []LogValue `json:"value"`
}

// LogGroup identifies where an item's lines came from.
type LogGroup struct {
	PSM     string `json:"psm,omitempty"`
	PodName string `json:"pod_name,omitempty"`
	IPv4    string `json:"ipv4,omitempty"`
	Env     string `json:"env,omitempty"`
	VRegion string `json:"vregion,omitempty"`
	IDC     string `json:"idc,omitempty"`
}

// LogValue is a single log line as a list of key/value pairs.
type LogValue struct {
	ID     string  `json:"id"`
	KVList []LogKV `json:"kv_list"`
	Level  string  `json:"level,omitempty"`
}

// LogKV is one key/value pair of a log line.
type LogKV struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type,omitempty"`
	Highlight bool   `json:"highlight,omitempty"`
}

// TimeRange is a scanned interval in epoch seconds. Either bound may be absent.
type TimeRange struct {
	Start *int64 `json:"start,omitempty"`
	End   *int64 `json:"end,omitempty"`
}

// LogMeta carries the scan ranges and level list. Fields the service adds
// beyond those are kept verbatim in Other and written back on encode.
type LogMeta struct {
	ScanTimeRange []TimeRange
	LevelList     []string
	Other         map[string]json.RawMessage
}

const (
	metaScanTimeRange = "scan_time_range"
	metaLevelList     = "level_list"
)

// UnmarshalJSON implements json.Unmarshaler.
func (m *LogMeta) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	*m = LogMeta{}
	if raw, ok := fields[metaScanTimeRange]; ok {
		if err := json.Unmarshal(raw, &m.ScanTimeRange); err != nil {
			return err
		}
		delete(fields, metaScanTimeRange)
	}
	if raw, ok := fields[metaLevelList]; ok {
		if err := json.Unmarshal(raw, &m.LevelList); err != nil {
			return err
		}
		delete(fields, metaLevelList)
	}
	if len(fields) > 0 {
		m.Other = fields
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m LogMeta) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(m.Other)+2)
	for k, v := range m.Other {
		fields[k] = v
	}
	if m.ScanTimeRange != nil {
		fields[metaScanTimeRange] = m.ScanTimeRange
	}
	if m.LevelList != nil {
		fields[metaLevelList] = m.LevelList
	}
	return json.Marshal(fields)
}

// Response is one region's normalized answer.
type Response struct {
	Data LogData
	// Shape records which layout the body used.
	Shape Shape
	// Meta and TagInfos are the top-level fields of the body, if present.
	Meta              json.RawMessage
	TagInfos          []json.RawMessage
	Timestamp         time.Time
	Region            string
	RegionDisplayName string
	RequestID         string
}

// Message is one log line that carried at least one _msg entry.
type Message struct {
	// ID is "<item id>-<value id>".
	ID       string           `json:"id"`
	Group    LogGroup         `json:"group"`
	Values   []ExtractedValue `json:"values"`
	Location string           `json:"location,omitempty"`
	Level    string           `json:"level,omitempty"`
}

// ExtractedValue is a _msg entry after redaction, with the original kept.
type ExtractedValue struct {
	Key           string `json:"key"`
	Value         string `json:"value"`
	OriginalValue string `json:"original_value"`
	Type          string `json:"type_field,omitempty"`
	Highlight     bool   `json:"highlight"`
}

// Result is the caller-facing outcome of a single-region query.
type Result struct {
	LogID             string            `json:"logid"`
	Region            string            `json:"region"`
	RegionDisplayName string            `json:"region_display_name"`
	TotalItems        int               `json:"total_items"`
	Messages          []Message         `json:"messages"`
	Timestamp         time.Time         `json:"timestamp"`
	Meta              *LogMeta          `json:"meta,omitempty"`
	ScanTimeRange     []TimeRange       `json:"scan_time_range,omitempty"`
	LevelList         []string          `json:"level_list,omitempty"`
	TagInfos          []json.RawMessage `json:"tag_infos,omitempty"`
}
