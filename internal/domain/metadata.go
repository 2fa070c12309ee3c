package domain

import "encoding/json"

// TripMetadata is the trip context persisted with a travel checklist. The web
// viewer and any later regeneration read it back verbatim.
//
// Keys written by other components and unknown to this struct are kept in
// Extra and written back unchanged.
type TripMetadata struct {
	Destination       string          `json:"destination"`
	DurationDays      int             `json:"duration"`
	StartDate         string          `json:"start_date"` // "02.01.2006", as entered
	PurposeText       string          `json:"purpose_text"`
	Purpose           string          `json:"purpose"`
	GenerationMethod  string          `json:"generation_method,omitempty"`
	Weather           *Forecast       `json:"weather,omitempty"`
	AggregatedWeather *WeatherSummary `json:"aggregated_weather,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// tripMetadataFields breaks the MarshalJSON/UnmarshalJSON recursion.
type tripMetadataFields TripMetadata

// MarshalJSON writes the known fields and then any Extra keys that do not
// collide with them.
func (m TripMetadata) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(tripMetadataFields(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if _, taken := merged[k]; !taken {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the known fields and collects the rest into Extra.
func (m *TripMetadata) UnmarshalJSON(b []byte) error {
	var fields tripMetadataFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range knownMetadataKeys {
		delete(all, k)
	}

	*m = TripMetadata(fields)
	if len(all) > 0 {
		m.Extra = all
	}
	return nil
}

var knownMetadataKeys = []string{
	"destination", "duration", "start_date", "purpose_text", "purpose",
	"generation_method", "weather", "aggregated_weather",
}
