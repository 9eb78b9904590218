package components

import (
	"encoding/json"
)

// JSON marshals an object to a JSON string, returning "{}" on error
func JSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ToastTrigger is the HX-Trigger header value that asks the page to show a toast
func ToastTrigger(kind, message string) string {
	return JSON(map[string]any{
		"showToast": map[string]string{"type": kind, "message": message},
	})
}

// RefreshTrigger asks the page to reload the named lists after a mutation
func RefreshTrigger(lists ...string) string {
	events := make(map[string]any, len(lists))
	for _, l := range lists {
		events["refresh:"+l] = true
	}
	return JSON(events)
}
