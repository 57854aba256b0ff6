package panics

func init() {
	panic("boom")
}

func View() string { return "never" }
