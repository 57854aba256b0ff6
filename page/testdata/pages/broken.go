package broken

func View() string {
	return "unterminated
}
