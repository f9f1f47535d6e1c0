package model

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON rebuilds the Items interface slice from the "type"
// discriminator each item carries.
func (s *Song) UnmarshalJSON(data []byte) error {
	type alias Song
	aux := struct {
		Items []json.RawMessage `json:"items"`
		*alias
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Items = nil
	for _, raw := range aux.Items {
		var kind struct {
			Kind string `json:"type"`
		}
		if err := json.Unmarshal(raw, &kind); err != nil {
			return err
		}
		switch kind.Kind {
		case KindMeasure:
			var m Measure
			if err := json.Unmarshal(raw, &m); err != nil {
				return err
			}
			s.Items = append(s.Items, m)
		case KindNote:
			var n Note
			if err := json.Unmarshal(raw, &n); err != nil {
				return err
			}
			s.Items = append(s.Items, n)
		default:
			return fmt.Errorf("unknown item type %q", kind.Kind)
		}
	}
	return nil
}
