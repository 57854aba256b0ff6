package spin

var i int

var n = func() int {
	for {
		i++
	}
}()

func View() string { return "never" }
