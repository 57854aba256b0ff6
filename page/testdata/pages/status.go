package status

func View() map[string]interface{} {
	return map[string]interface{}{"ok": true}
}
