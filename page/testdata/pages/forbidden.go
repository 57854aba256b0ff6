package forbidden

import "os"

func View() string {
	h, _ := os.Hostname()
	return h
}
