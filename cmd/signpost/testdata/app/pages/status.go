package status

import "time"

func View() map[string]interface{} {
	return map[string]interface{}{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)}
}
