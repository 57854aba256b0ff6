package noview

func Render() string { return "wrong name" }
