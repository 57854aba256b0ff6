package broken

func View() string {
	return undefined
}
