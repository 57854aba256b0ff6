package badview

func View(n int) int { return n }
