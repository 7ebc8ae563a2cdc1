package corpus

// ChunkText splits text into fixed-size rune windows. The original corpus was
// built with 350-unit windows; chunk position doubles as the index entry id,
// so the window size must never change once a corpus has been indexed.
func ChunkText(text string, size int) []string {
	if size <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)

	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
