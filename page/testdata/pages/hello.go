package hello

func View() string { return "Hi" }
