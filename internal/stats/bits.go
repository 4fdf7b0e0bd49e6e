package stats

// BitAt returns bit i of the stream formed by words, least-significant bit
// first within each word, words in slice order.
//
// Callers must guarantee i < len(words)*32; the index is not range-checked
// here because every test in the suite walks a pre-validated stream.
func BitAt(words []uint32, i int) uint32 {
	return (words[i>>5] >> (uint(i) & 31)) & 1
}

// bitLen returns the length of the bit stream carried by words.
func bitLen(words []uint32) int {
	return len(words) * 32
}
