package index

// TermEntry is one word of the finished index together with the lines it
// appears on, in ascending order.
type TermEntry struct {
	Term  string
	Lines []int
}
