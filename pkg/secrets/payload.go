package secrets

import "encoding/json"

// decodePayload keeps the raw payload under "value" and, when it is a flat
// JSON object of strings, exposes each field as its own key.
func decodePayload(raw []byte) map[string]string {
	data := map[string]string{"value": string(raw)}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err == nil {
		for k, v := range fields {
			if k != "value" {
				data[k] = v
			}
		}
	}
	return data
}
